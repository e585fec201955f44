package filter

import (
	"fmt"
	"strings"
)

// textBackend renders conditions as short strings so tests can compare whole
// trees. Single-element groups collapse to their only child
type textBackend struct{}

func (textBackend) Field(name string) string { return name }
func (textBackend) Upper(f string) string { return "upper(" + f + ")" }

func (textBackend) Equal(f string, v any) string { return fmt.Sprintf("%s = %v", f, v) }
func (textBackend) NotEqual(f string, v any) string { return fmt.Sprintf("%s != %v", f, v) }
func (textBackend) LessThan(f string, v any) string { return fmt.Sprintf("%s < %v", f, v) }
func (textBackend) GreaterThan(f string, v any) string { return fmt.Sprintf("%s > %v", f, v) }
func (textBackend) Between(f string, lo, hi any) string {
	return fmt.Sprintf("%s between %v and %v", f, lo, hi)
}
func (textBackend) IsNull(f string) string { return f + " is null" }
func (textBackend) IsNotNull(f string) string { return f + " is not null" }
func (textBackend) Like(f string, p string) string { return f + " like " + p }
func (textBackend) NotLike(f string, p string) string { return f + " not like " + p }
func (textBackend) And(cs ...string) string { return group("and", cs) }
func (textBackend) Or(cs ...string) string { return group("or", cs) }
func (textBackend) Not(c string) string { return "not(" + c + ")" }

func group(op string, cs []string) string {
	if len(cs) == 1 {
		return cs[0]
	}
	return op + "(" + strings.Join(cs, ", ") + ")"
}

// valueBackend records the Go values handed to the backend
type valueBackend struct {
	textBackend
	values *[]any
}

func (b valueBackend) Equal(f string, v any) string {
	*b.values = append(*b.values, v)
	return b.textBackend.Equal(f, v)
}

func (b valueBackend) Between(f string, lo, hi any) string {
	*b.values = append(*b.values, lo, hi)
	return b.textBackend.Between(f, lo, hi)
}

var _ Backend[string, string] = textBackend{}
var _ Backend[string, string] = valueBackend{}
