package filter

import "slices"

// Compile builds one condition for req. Each raw string becomes an OR of its
// branches, the strings of one field are ANDed, and the fields are ANDed in
// name order. Fields missing from cat are ignored. The first error aborts
// compilation and no partial condition is returned.
//
// Compile keeps no state between calls and only reads cat
func Compile[F, C any](req Request, cat Catalog, b Backend[F, C]) (C, error) {
	var zero C

	names := make([]string, 0, len(req))
	for name := range req {
		if _, ok := cat[name]; ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	fields := make([]C, 0, len(names))
	for _, name := range names {
		entries := req[name]
		if len(entries) == 0 {
			continue
		}
		c, err := CompileField(name, cat[name], entries, b)
		if err != nil {
			return zero, err
		}
		fields = append(fields, c)
	}
	return b.And(fields...), nil
}

// CompileField builds the AND of every raw string supplied for one field
func CompileField[F, C any](name string, field Field, entries []string, b Backend[F, C]) (C, error) {
	var zero C

	conditions := make([]C, 0, len(entries))
	for _, raw := range entries {
		expr, err := NewExpression(name, field, raw)
		if err != nil {
			return zero, err
		}
		c, err := BuildCondition(b, expr)
		if err != nil {
			return zero, err
		}
		conditions = append(conditions, c)
	}
	return b.And(conditions...), nil
}
