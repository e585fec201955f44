package filter

import (
	"fmt"
	"slices"
	"strings"
)

// FieldType is the scalar kind of a filterable field. The zero value is not a
// valid type and makes compilation fail with KindUnsupportedType
type FieldType int

const (
	Text FieldType = iota + 1
	Boolean
	Integer
	Long
	Float
	Double
	Timestamp
	UUID
)

type typeInfo struct {
	name     string
	aliases  []string
	kind     ErrorKind
	ordering bool
	pattern  bool
	parse    func(raw, layout string) (any, error)
}

var fieldTypes = map[FieldType]typeInfo{
	Text:      {name: "text", aliases: []string{"string", "varchar"}, ordering: true, pattern: true, parse: parseText},
	Boolean:   {name: "boolean", aliases: []string{"bool"}, parse: parseBoolean},
	Integer:   {name: "integer", aliases: []string{"int", "int32"}, kind: KindInteger, ordering: true, parse: parseInteger},
	Long:      {name: "long", aliases: []string{"int64", "bigint"}, kind: KindLong, ordering: true, parse: parseLong},
	Float:     {name: "float", aliases: []string{"float32", "real"}, kind: KindFloat, ordering: true, parse: parseFloat},
	Double:    {name: "double", aliases: []string{"float64"}, kind: KindDouble, ordering: true, parse: parseDouble},
	Timestamp: {name: "timestamp", aliases: []string{"date", "time"}, kind: KindDate, ordering: true, parse: parseTimestamp},
	UUID:      {name: "uuid", kind: KindUUID, parse: parseUUID},
}

func (t FieldType) String() string {
	if info, ok := fieldTypes[t]; ok {
		return info.name
	}
	return fmt.Sprintf("FieldType(%d)", int(t))
}

// Valid reports whether the engine has a parser for t
func (t FieldType) Valid() bool {
	_, ok := fieldTypes[t]
	return ok
}

// SupportsOrdering reports whether lt_, gt_ and _bt_ apply to t
func (t FieldType) SupportsOrdering() bool {
	return fieldTypes[t].ordering
}

// SupportsPattern reports whether lk_ applies to t and comparisons fold case
func (t FieldType) SupportsPattern() bool {
	return fieldTypes[t].pattern
}

// ParseFieldType resolves a type name such as "integer" or "uuid"
func ParseFieldType(name string) (FieldType, bool) {
	for t, info := range fieldTypes {
		if strings.EqualFold(info.name, name) {
			return t, true
		}
		for _, alias := range info.aliases {
			if strings.EqualFold(alias, name) {
				return t, true
			}
		}
	}
	return 0, false
}

// FieldTypes returns every supported type in declaration order
func FieldTypes() []FieldType {
	types := make([]FieldType, 0, len(fieldTypes))
	for t := range fieldTypes {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

func validTypeNames() string {
	names := make([]string, 0, len(fieldTypes))
	for _, t := range FieldTypes() {
		names = append(names, t.String())
	}
	return strings.Join(names, ", ")
}

// Field describes how one filterable field is typed
type Field struct {
	Type FieldType
	// Format is a strftime pattern for Timestamp fields. When empty, values
	// are epoch milliseconds
	Format string
}

// Catalog maps field names to their declared type. A catalog is never
// mutated by the engine and may be shared between concurrent compilations
type Catalog map[string]Field

// Names returns the catalog's field names, sorted
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Request maps field names to raw filter strings. Each string is compiled
// independently and the results are combined with AND
type Request map[string][]string
