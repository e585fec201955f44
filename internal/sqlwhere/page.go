package sqlwhere

import (
	"fmt"
	"strings"

	"github.com/rebeliceyang/lazyfilter/internal/models"
)

const (
	DefaultPageSize = 10
	MinPageSize     = 1
	MaxPageSize     = 100
)

// Limits bounds the page sizes a caller may request
type Limits struct {
	DefaultSize int
	MaxSize     int
}

// DefaultLimits returns the stock paging limits
func DefaultLimits() Limits {
	return Limits{DefaultSize: DefaultPageSize, MaxSize: MaxPageSize}
}

// Page selects a window of rows and their order.
// Size 0 means the default size; Order names a column
type Page struct {
	Page  int
	Size  int
	Order string
	Sort  string
}

// Number returns the zero-based page, never negative
func (p Page) Number() int {
	return max(p.Page, 0)
}

// PageSize returns the requested size clamped to the limits
func (p Page) PageSize(l Limits) int {
	maxSize := l.MaxSize
	if maxSize < MinPageSize {
		maxSize = MaxPageSize
	}
	size := p.Size
	if size == 0 {
		size = l.DefaultSize
		if size == 0 {
			size = DefaultPageSize
		}
	}
	return min(max(size, MinPageSize), maxSize)
}

// Offset returns the number of rows skipped before the page
func (p Page) Offset(l Limits) int {
	return p.Number() * p.PageSize(l)
}

// Ascending reports whether rows are sorted ascending; anything but "asc" is descending
func (p Page) Ascending() bool {
	return strings.EqualFold(p.Sort, "asc")
}

// Statement is a rendered query plus the count query sharing its arguments
type Statement struct {
	Where    string
	SQL      string
	CountSQL string
	Args     []interface{}
}

// BuildSelect renders a paged SELECT and its COUNT for filter
func (b *Builder) BuildSelect(filter models.Filter, page Page, limits Limits) (Statement, error) {
	where, args, err := b.BuildWhere(filter)
	if err != nil {
		return Statement{}, err
	}

	table := b.table(filter)

	var sb strings.Builder
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(table)
	if where != "" {
		sb.WriteString(" ")
		sb.WriteString(where)
	}
	if page.Order != "" {
		direction := "DESC"
		if page.Ascending() {
			direction = "ASC"
		}
		sb.WriteString(fmt.Sprintf(" ORDER BY %s %s", QuoteIdent(page.Order), direction))
	}
	sb.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", page.PageSize(limits), page.Offset(limits)))

	count := "SELECT COUNT(*) FROM " + table
	if where != "" {
		count += " " + where
	}

	return Statement{
		Where:    where,
		SQL:      sb.String(),
		CountSQL: count,
		Args:     args,
	}, nil
}

func (b *Builder) table(filter models.Filter) string {
	if filter.Schema != "" && b.dialect == models.DialectPostgres {
		return QuoteIdent(filter.Schema, filter.TableName)
	}
	return QuoteIdent(filter.TableName)
}
