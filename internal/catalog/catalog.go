// Package catalog resolves which fields of a table can be filtered and how
// they are typed, from configuration or from database metadata
package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rebeliceyang/lazyfilter/internal/config"
	"github.com/rebeliceyang/lazyfilter/internal/filter"
	"github.com/rebeliceyang/lazyfilter/internal/models"
)

// ErrUnknownTable is returned when no catalog can be found for a table
var ErrUnknownTable = errors.New("unknown table")

// FromConfig converts declared tables into catalogs. Unknown type names fail
// with filter.KindUnsupportedType and unusable formats with
// filter.KindDateFormat, so bad configuration is caught at startup
func FromConfig(tables map[string]map[string]config.FieldConfig) (map[string]filter.Catalog, error) {
	out := make(map[string]filter.Catalog, len(tables))
	for table, fields := range tables {
		cat := make(filter.Catalog, len(fields))
		for name, fc := range fields {
			typ, ok := filter.ParseFieldType(fc.Type)
			if !ok {
				return nil, fmt.Errorf("table %s: %w", table, &filter.Error{
					Kind:     filter.KindUnsupportedType,
					Field:    name,
					TypeName: fc.Type,
				})
			}
			field := filter.Field{Type: typ, Format: fc.Format}
			if err := filter.ValidateField(name, field); err != nil {
				return nil, fmt.Errorf("table %s: %w", table, err)
			}
			cat[name] = field
		}
		out[table] = cat
	}
	return out, nil
}

// FieldTypeForColumn maps a database column to a filter type. Postgres
// columns are matched on their udt name only; columns of array, JSON, binary,
// interval, geometric and other unsupported types are not filterable
func FieldTypeForColumn(col models.ColumnInfo) (filter.FieldType, bool) {
	if col.IsArray {
		return 0, false
	}
	if col.UDTName == "" {
		return declaredType(col.DataType)
	}

	switch strings.ToLower(col.UDTName) {
	case "int2", "int4":
		return filter.Integer, true
	case "int8":
		return filter.Long, true
	case "float4":
		return filter.Float, true
	case "float8", "numeric":
		return filter.Double, true
	case "bool":
		return filter.Boolean, true
	case "uuid":
		return filter.UUID, true
	case "date", "timestamp", "timestamptz":
		return filter.Timestamp, true
	case "text", "varchar", "bpchar", "name", "citext":
		return filter.Text, true
	}
	return 0, false
}

// declaredType maps a sqlite declared column type using its affinity rules.
// INT affinity stores 64-bit values, so it maps to Long
func declaredType(dataType string) (filter.FieldType, bool) {
	dataType = strings.ToLower(dataType)
	switch {
	case strings.Contains(dataType, "int"):
		return filter.Long, true
	case strings.Contains(dataType, "bool"):
		return filter.Boolean, true
	case strings.Contains(dataType, "uuid"):
		return filter.UUID, true
	case strings.Contains(dataType, "char"), strings.Contains(dataType, "text"), strings.Contains(dataType, "clob"):
		return filter.Text, true
	case strings.Contains(dataType, "real"), strings.Contains(dataType, "floa"), strings.Contains(dataType, "doub"),
		strings.Contains(dataType, "numeric"), strings.Contains(dataType, "decimal"):
		return filter.Double, true
	case strings.Contains(dataType, "date"), strings.Contains(dataType, "time"):
		return filter.Timestamp, true
	}
	return 0, false
}

// FromColumns builds a catalog from column metadata, skipping columns that
// cannot be filtered
func FromColumns(columns []models.ColumnInfo) filter.Catalog {
	cat := make(filter.Catalog, len(columns))
	for _, col := range columns {
		if typ, ok := FieldTypeForColumn(col); ok {
			cat[col.Name] = filter.Field{Type: typ}
		}
	}
	return cat
}

// ColumnSource describes tables from a live database
type ColumnSource interface {
	TableColumns(ctx context.Context, table string) ([]models.ColumnInfo, error)
	ListTables(ctx context.Context) ([]string, error)
}

// Registry resolves table catalogs. Declared tables win over database
// metadata; discovered catalogs are cached and never modified afterwards, so
// they can be shared by concurrent compilations
type Registry struct {
	declared map[string]filter.Catalog
	source   ColumnSource

	mu         sync.RWMutex
	discovered map[string]filter.Catalog
}

// NewRegistry creates a registry. source may be nil
func NewRegistry(declared map[string]filter.Catalog, source ColumnSource) *Registry {
	if declared == nil {
		declared = map[string]filter.Catalog{}
	}
	return &Registry{
		declared:   declared,
		source:     source,
		discovered: make(map[string]filter.Catalog),
	}
}

// Catalog returns the catalog for table
func (r *Registry) Catalog(ctx context.Context, table string) (filter.Catalog, error) {
	if cat, ok := r.declared[table]; ok {
		return cat, nil
	}

	r.mu.RLock()
	cat, ok := r.discovered[table]
	r.mu.RUnlock()
	if ok {
		return cat, nil
	}

	if r.source == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	columns, err := r.source.TableColumns(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("describe table %s: %w", table, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	cat = FromColumns(columns)

	r.mu.Lock()
	if existing, ok := r.discovered[table]; ok {
		cat = existing
	} else {
		r.discovered[table] = cat
	}
	r.mu.Unlock()

	return cat, nil
}

// Tables lists declared tables plus those the database reports
func (r *Registry) Tables(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(r.declared))
	for name := range r.declared {
		names = append(names, name)
	}
	if r.source != nil {
		listed, err := r.source.ListTables(ctx)
		if err != nil {
			return nil, err
		}
		for _, name := range listed {
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}
	slices.Sort(names)
	return names, nil
}
