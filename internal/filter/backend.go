package filter

// Backend materialises conditions for a concrete query target. F is the
// backend's field reference and C its condition node; both are opaque to the
// engine
type Backend[F, C any] interface {
	Field(name string) F
	// Upper wraps a field in a case fold, used for text comparisons
	Upper(field F) F

	Equal(field F, value any) C
	NotEqual(field F, value any) C
	LessThan(field F, value any) C
	GreaterThan(field F, value any) C
	// Between is inclusive on both bounds
	Between(field F, lower, upper any) C
	IsNull(field F) C
	IsNotNull(field F) C
	Like(field F, pattern string) C
	NotLike(field F, pattern string) C

	And(conditions ...C) C
	Or(conditions ...C) C
	Not(condition C) C
}
