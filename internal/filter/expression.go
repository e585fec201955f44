package filter

import (
	"fmt"
	"slices"
	"strings"
)

// Branch is one OR-separated segment of a raw filter value after extraction.
// For Between the infix token is still present in Value; it is split into
// bounds when the condition is built
type Branch struct {
	Negated  bool
	Operator Operator
	Value    string
}

// stage refines a branch. Stages run in order and never mutate their input
type stage func(b Branch) Branch

// stagesFor returns the extraction pipeline for t. Every type gets the base
// stage; ordered types add range operators and text adds patterns
func stagesFor(t FieldType) []stage {
	stages := []stage{baseStage}
	if t.SupportsOrdering() {
		stages = append(stages, orderingStage)
	}
	if t.SupportsPattern() {
		stages = append(stages, patternStage)
	}
	return stages
}

func baseStage(b Branch) Branch {
	b.Operator = Equals
	if hasPrefixFold(b.Value, TokenNot) {
		b.Negated = true
		b.Value = b.Value[len(TokenNot):]
	}
	if strings.EqualFold(b.Value, TokenNull) {
		b.Operator = Null
	} else if hasPrefixFold(b.Value, TokenEquals) {
		b.Value = b.Value[len(TokenEquals):]
	}
	return b
}

func orderingStage(b Branch) Branch {
	if b.Operator == Null {
		return b
	}
	switch {
	case hasPrefixFold(b.Value, TokenLessThan):
		b.Operator = LessThan
		b.Value = b.Value[len(TokenLessThan):]
	case hasPrefixFold(b.Value, TokenGreaterThan):
		b.Operator = GreaterThan
		b.Value = b.Value[len(TokenGreaterThan):]
	case indexFold(b.Value, TokenBetween) >= 0:
		b.Operator = Between
	}
	return b
}

func patternStage(b Branch) Branch {
	if b.Operator != Null && hasPrefixFold(b.Value, TokenLike) {
		b.Operator = Like
		b.Value = strings.ReplaceAll(b.Value[len(TokenLike):], wildcard, backendWildcard)
	}
	b.Value = strings.ToUpper(b.Value)
	return b
}

// Extract splits raw on OrSeparator and resolves each segment for type t
func Extract(raw string, t FieldType) []Branch {
	stages := stagesFor(t)
	segments := splitBranches(raw)
	branches := make([]Branch, 0, len(segments))
	for _, segment := range segments {
		b := Branch{Value: segment}
		for _, s := range stages {
			b = s(b)
		}
		branches = append(branches, b)
	}
	return branches
}

// Expression is the extracted form of one raw filter string for one field
type Expression struct {
	name     string
	field    Field
	layout   string
	branches []Branch
}

// NewExpression validates field and extracts raw. It fails with
// KindUnsupportedType for unknown types and KindDateFormat for unusable
// timestamp formats
func NewExpression(name string, field Field, raw string) (*Expression, error) {
	layout, err := fieldLayout(name, field)
	if err != nil {
		if fe, ok := err.(*Error); ok && fe.Kind == KindUnsupportedType {
			fe.Value = raw
		}
		return nil, err
	}
	return &Expression{
		name:     name,
		field:    field,
		layout:   layout,
		branches: Extract(raw, field.Type),
	}, nil
}

// Name returns the field name the expression filters on
func (e *Expression) Name() string { return e.name }

// Field returns the field declaration the expression was built with
func (e *Expression) Field() Field { return e.field }

// Branches returns a copy of the extracted branches in input order
func (e *Expression) Branches() []Branch {
	return slices.Clone(e.branches)
}

func (e *Expression) parse(raw string) (any, error) {
	return parseAs(e.name, e.field.Type, e.layout, raw)
}

// bounds splits a Between value at its first infix token
func (e *Expression) bounds(value string) (any, any, error) {
	i := indexFold(value, TokenBetween)
	if i < 0 {
		return nil, nil, fmt.Errorf("filter: field %q: %q has no %s bound separator", e.name, value, TokenBetween)
	}
	lower, err := e.parse(value[:i])
	if err != nil {
		return nil, nil, err
	}
	upper, err := e.parse(value[i+len(TokenBetween):])
	if err != nil {
		return nil, nil, err
	}
	return lower, upper, nil
}

// BuildCondition turns e into backend conditions: the branches are ORed
// together. Text comparisons are made against the case-folded field
func BuildCondition[F, C any](b Backend[F, C], e *Expression) (C, error) {
	var zero C

	field := b.Field(e.name)
	target := field
	if e.field.Type.SupportsPattern() {
		target = b.Upper(field)
	}

	conditions := make([]C, 0, len(e.branches))
	for _, br := range e.branches {
		c, err := branchCondition(b, e, field, target, br)
		if err != nil {
			return zero, err
		}
		conditions = append(conditions, c)
	}
	return b.Or(conditions...), nil
}

func branchCondition[F, C any](b Backend[F, C], e *Expression, field, target F, br Branch) (C, error) {
	var zero C

	switch br.Operator {
	case Null:
		if br.Negated {
			return b.IsNotNull(field), nil
		}
		return b.IsNull(field), nil
	case Like:
		if br.Negated {
			return b.NotLike(target, br.Value), nil
		}
		return b.Like(target, br.Value), nil
	case Equals:
		v, err := e.parse(br.Value)
		if err != nil {
			return zero, err
		}
		if br.Negated {
			return b.NotEqual(target, v), nil
		}
		return b.Equal(target, v), nil
	}

	var c C
	switch br.Operator {
	case LessThan, GreaterThan:
		v, err := e.parse(br.Value)
		if err != nil {
			return zero, err
		}
		if br.Operator == LessThan {
			c = b.LessThan(target, v)
		} else {
			c = b.GreaterThan(target, v)
		}
	case Between:
		lower, upper, err := e.bounds(br.Value)
		if err != nil {
			return zero, err
		}
		c = b.Between(target, lower, upper)
	default:
		return zero, fmt.Errorf("filter: field %q: unexpected operator %s", e.name, br.Operator)
	}

	if br.Negated {
		return b.Not(c), nil
	}
	return c, nil
}
