package models

// FilterOperator represents a filter comparison operator
type FilterOperator string

const (
	OpEqual       FilterOperator = "="
	OpNotEqual    FilterOperator = "!="
	OpGreaterThan FilterOperator = ">"
	OpLessThan    FilterOperator = "<"
	OpBetween     FilterOperator = "BETWEEN"
	OpLike        FilterOperator = "LIKE"
	OpNotLike     FilterOperator = "NOT LIKE"
	OpIsNull      FilterOperator = "IS NULL"
	OpIsNotNull   FilterOperator = "IS NOT NULL"
)

// Logic combines the children of a condition group
type Logic string

const (
	LogicAnd Logic = "AND"
	LogicOr  Logic = "OR"
	LogicNot Logic = "NOT"
)

// Column references a filtered column, optionally case-folded
type Column struct {
	Name  string
	Upper bool
}

// Condition is a node of a WHERE tree. A node with an empty Logic is a leaf
// comparison; otherwise Children are combined with Logic
type Condition struct {
	Logic    Logic
	Children []Condition

	Column   Column
	Operator FilterOperator
	Values   []interface{}
}

// IsLeaf reports whether c is a single comparison
func (c Condition) IsLeaf() bool {
	return c.Logic == ""
}

// Filter represents the complete filter state for one table
type Filter struct {
	Where     Condition
	TableName string
	Schema    string
}
