package sqlwhere

import (
	"github.com/rebeliceyang/lazyfilter/internal/filter"
	"github.com/rebeliceyang/lazyfilter/internal/models"
)

// Backend builds models.Condition trees for the filter engine
type Backend struct{}

var _ filter.Backend[models.Column, models.Condition] = Backend{}

// Compile compiles a filter request into a WHERE tree
func Compile(req filter.Request, cat filter.Catalog) (models.Condition, error) {
	return filter.Compile[models.Column, models.Condition](req, cat, Backend{})
}

func (Backend) Field(name string) models.Column {
	return models.Column{Name: name}
}

func (Backend) Upper(c models.Column) models.Column {
	c.Upper = true
	return c
}

func (Backend) Equal(c models.Column, v any) models.Condition {
	return leaf(c, models.OpEqual, v)
}

func (Backend) NotEqual(c models.Column, v any) models.Condition {
	return leaf(c, models.OpNotEqual, v)
}

func (Backend) LessThan(c models.Column, v any) models.Condition {
	return leaf(c, models.OpLessThan, v)
}

func (Backend) GreaterThan(c models.Column, v any) models.Condition {
	return leaf(c, models.OpGreaterThan, v)
}

func (Backend) Between(c models.Column, lower, upper any) models.Condition {
	return leaf(c, models.OpBetween, lower, upper)
}

func (Backend) IsNull(c models.Column) models.Condition {
	return leaf(c, models.OpIsNull)
}

func (Backend) IsNotNull(c models.Column) models.Condition {
	return leaf(c, models.OpIsNotNull)
}

func (Backend) Like(c models.Column, pattern string) models.Condition {
	return leaf(c, models.OpLike, pattern)
}

func (Backend) NotLike(c models.Column, pattern string) models.Condition {
	return leaf(c, models.OpNotLike, pattern)
}

func (Backend) And(conditions ...models.Condition) models.Condition {
	return models.Condition{Logic: models.LogicAnd, Children: conditions}
}

func (Backend) Or(conditions ...models.Condition) models.Condition {
	return models.Condition{Logic: models.LogicOr, Children: conditions}
}

func (Backend) Not(condition models.Condition) models.Condition {
	return models.Condition{Logic: models.LogicNot, Children: []models.Condition{condition}}
}

func leaf(c models.Column, op models.FilterOperator, values ...interface{}) models.Condition {
	return models.Condition{Column: c, Operator: op, Values: values}
}
