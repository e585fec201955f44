package sqlwhere

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rebeliceyang/lazyfilter/internal/models"
)

// Builder generates SQL WHERE clauses from condition trees
type Builder struct {
	dialect models.Dialect
}

// NewBuilder creates a new builder for dialect, defaulting to postgres
func NewBuilder(dialect models.Dialect) *Builder {
	if dialect == "" {
		dialect = models.DialectPostgres
	}
	return &Builder{dialect: dialect}
}

// Dialect returns the SQL dialect the builder renders
func (b *Builder) Dialect() models.Dialect {
	return b.dialect
}

// BuildWhere generates a WHERE clause from a Filter
func (b *Builder) BuildWhere(filter models.Filter) (string, []interface{}, error) {
	if isEmpty(filter.Where) {
		return "", nil, nil
	}

	clause, args, err := b.buildNode(filter.Where, 1)
	if err != nil {
		return "", nil, err
	}

	return "WHERE " + clause, args, nil
}

func isEmpty(cond models.Condition) bool {
	if cond.IsLeaf() {
		return cond.Operator == ""
	}
	return cond.Logic == models.LogicAnd && len(cond.Children) == 0
}

// buildNode dispatches on leaf, NOT and AND/OR nodes
func (b *Builder) buildNode(cond models.Condition, paramIndex int) (string, []interface{}, error) {
	if cond.IsLeaf() {
		return b.buildCondition(cond, paramIndex)
	}

	switch cond.Logic {
	case models.LogicNot:
		if len(cond.Children) != 1 {
			return "", nil, fmt.Errorf("NOT expects one condition, got %d", len(cond.Children))
		}
		clause, args, err := b.buildNode(cond.Children[0], paramIndex)
		if err != nil {
			return "", nil, err
		}
		return "NOT (" + clause + ")", args, nil
	case models.LogicAnd, models.LogicOr:
		return b.buildGroup(cond, paramIndex)
	default:
		return "", nil, fmt.Errorf("unsupported logic: %s", cond.Logic)
	}
}

// buildGroup recursively builds a filter group
func (b *Builder) buildGroup(group models.Condition, paramIndex int) (string, []interface{}, error) {
	if len(group.Children) == 0 {
		if group.Logic == models.LogicAnd {
			return "TRUE", nil, nil
		}
		return "FALSE", nil, nil
	}

	var clauses []string
	var args []interface{}
	currentParam := paramIndex

	for _, child := range group.Children {
		clause, childArgs, err := b.buildNode(child, currentParam)
		if err != nil {
			return "", nil, err
		}
		if needsParens(child) {
			clause = "(" + clause + ")"
		}
		clauses = append(clauses, clause)
		args = append(args, childArgs...)
		currentParam += len(childArgs)
	}

	return strings.Join(clauses, " "+string(group.Logic)+" "), args, nil
}

func needsParens(cond models.Condition) bool {
	return (cond.Logic == models.LogicAnd || cond.Logic == models.LogicOr) && len(cond.Children) > 1
}

// buildCondition builds a single filter condition
func (b *Builder) buildCondition(cond models.Condition, paramIndex int) (string, []interface{}, error) {
	column := b.column(cond.Column)

	switch cond.Operator {
	case models.OpIsNull, models.OpIsNotNull:
		return fmt.Sprintf("%s %s", column, cond.Operator), nil, nil
	case models.OpEqual, models.OpNotEqual, models.OpGreaterThan, models.OpLessThan,
		models.OpLike, models.OpNotLike:
		if len(cond.Values) != 1 {
			return "", nil, fmt.Errorf("operator %s on %s expects one value, got %d", cond.Operator, cond.Column.Name, len(cond.Values))
		}
		return fmt.Sprintf("%s %s %s", column, cond.Operator, b.placeholder(paramIndex)), cond.Values, nil
	case models.OpBetween:
		if len(cond.Values) != 2 {
			return "", nil, fmt.Errorf("BETWEEN on %s expects two values, got %d", cond.Column.Name, len(cond.Values))
		}
		return fmt.Sprintf("%s BETWEEN %s AND %s", column, b.placeholder(paramIndex), b.placeholder(paramIndex+1)), cond.Values, nil
	default:
		return "", nil, fmt.Errorf("unsupported operator: %s", cond.Operator)
	}
}

func (b *Builder) column(c models.Column) string {
	name := QuoteIdent(c.Name)
	if c.Upper {
		return "UPPER(" + name + ")"
	}
	return name
}

func (b *Builder) placeholder(index int) string {
	if b.dialect == models.DialectSQLite {
		return "?"
	}
	return fmt.Sprintf("$%d", index)
}

// QuoteIdent quotes a possibly qualified identifier
func QuoteIdent(parts ...string) string {
	return pgx.Identifier(parts).Sanitize()
}
