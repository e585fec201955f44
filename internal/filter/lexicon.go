package filter

import (
	"fmt"
	"strings"
)

// Operator is the comparison resolved for one branch of a filter value
type Operator int

const (
	Equals Operator = iota
	// NotMarker is consumed during extraction and recorded as Branch.Negated.
	// It is never the operator of a branch
	NotMarker
	Null
	LessThan
	GreaterThan
	Between
	Like
)

// Tokens recognised inside raw filter values. Matching is case-insensitive
const (
	TokenNot         = "not_"
	TokenNull        = "null"
	TokenEquals      = "eq_"
	TokenLessThan    = "lt_"
	TokenGreaterThan = "gt_"
	TokenBetween     = "_bt_"
	TokenLike        = "lk_"

	// OrSeparator splits one raw value into branches
	OrSeparator = "|"

	wildcard        = "*"
	backendWildcard = "%"
)

var operatorNames = map[Operator]string{
	Equals:      "EQUALS",
	NotMarker:   "NOT",
	Null:        "NULL",
	LessThan:    "LESS_THAN",
	GreaterThan: "GREATER_THAN",
	Between:     "BETWEEN",
	Like:        "LIKE",
}

var operatorTokens = map[Operator]string{
	Equals:      TokenEquals,
	NotMarker:   TokenNot,
	Null:        TokenNull,
	LessThan:    TokenLessThan,
	GreaterThan: TokenGreaterThan,
	Between:     TokenBetween,
	Like:        TokenLike,
}

func (o Operator) String() string {
	if name, ok := operatorNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Operator(%d)", int(o))
}

// Token returns the literal that selects the operator in a raw value
func (o Operator) Token() string {
	return operatorTokens[o]
}

// hasPrefixFold reports whether s begins with prefix, ignoring case
func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// indexFold returns the byte offset of the first case-insensitive match of
// token in s, or -1. Tokens are ASCII so byte offsets in s stay valid
func indexFold(s, token string) int {
	for i := 0; i+len(token) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(token)], token) {
			return i
		}
	}
	return -1
}

// splitBranches splits a raw value on OrSeparator. Trailing empty segments are
// dropped; an empty value is a single empty branch
func splitBranches(raw string) []string {
	if raw == "" {
		return []string{""}
	}
	parts := strings.Split(raw, OrSeparator)
	end := len(parts)
	for end > 0 && parts[end-1] == "" {
		end--
	}
	return parts[:end]
}
