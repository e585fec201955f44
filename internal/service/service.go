// Package service compiles filter requests for a table and runs them
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/rebeliceyang/lazyfilter/internal/catalog"
	"github.com/rebeliceyang/lazyfilter/internal/db/query"
	"github.com/rebeliceyang/lazyfilter/internal/filter"
	"github.com/rebeliceyang/lazyfilter/internal/history"
	"github.com/rebeliceyang/lazyfilter/internal/models"
	"github.com/rebeliceyang/lazyfilter/internal/sqlwhere"
)

// Reserved query parameters, never treated as filters
const (
	ParamPage  = "page"
	ParamSize  = "size"
	ParamOrder = "order"
	ParamSort  = "sort"
)

var (
	// ErrNoDatabase is returned by Run when no database is configured
	ErrNoDatabase = errors.New("no database connection")
	// ErrInvalidPaging is returned for non-numeric page or size parameters
	ErrInvalidPaging = errors.New("invalid paging parameter")
)

// Options configures a Service
type Options struct {
	Registry *catalog.Registry
	Dialect  models.Dialect
	Schema   string
	Limits   sqlwhere.Limits
	// Runner executes statements; nil limits the service to Prepare
	Runner query.Runner
	// History records every run when set
	History *history.Store
	Logger  *slog.Logger
}

// Service compiles and runs filters against a table catalog
type Service struct {
	registry *catalog.Registry
	builder  *sqlwhere.Builder
	schema   string
	limits   sqlwhere.Limits
	runner   query.Runner
	history  *history.Store
	logger   *slog.Logger
}

// New creates a service
func New(opts Options) *Service {
	limits := opts.Limits
	if limits.DefaultSize == 0 && limits.MaxSize == 0 {
		limits = sqlwhere.DefaultLimits()
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		registry: opts.Registry,
		builder:  sqlwhere.NewBuilder(opts.Dialect),
		schema:   opts.Schema,
		limits:   limits,
		runner:   opts.Runner,
		history:  opts.History,
		logger:   log,
	}
}

// Prepared is a compiled filter ready to run
type Prepared struct {
	Table     string
	Filter    string
	Statement sqlwhere.Statement
	Page      int
	PageSize  int
}

// SplitParams separates the reserved paging parameters from filter entries
func SplitParams(values url.Values) (filter.Request, sqlwhere.Page, error) {
	req := make(filter.Request, len(values))
	var page sqlwhere.Page
	for key, entries := range values {
		switch key {
		case ParamPage, ParamSize:
			n, err := firstInt(entries)
			if err != nil {
				return nil, sqlwhere.Page{}, fmt.Errorf("%w: %s: %v", ErrInvalidPaging, key, err)
			}
			if key == ParamPage {
				page.Page = n
			} else {
				page.Size = n
			}
		case ParamOrder:
			page.Order = first(entries)
		case ParamSort:
			page.Sort = first(entries)
		default:
			req[key] = entries
		}
	}
	return req, page, nil
}

// ParseQuery parses a query string such as "age=gt_30&name=lk_a*&size=5"
func ParseQuery(raw string) (filter.Request, sqlwhere.Page, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, sqlwhere.Page{}, fmt.Errorf("invalid filter query: %w", err)
	}
	return SplitParams(values)
}

func first(entries []string) string {
	if len(entries) == 0 {
		return ""
	}
	return entries[0]
}

func firstInt(entries []string) (int, error) {
	s := first(entries)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// Tables lists the tables that can be filtered
func (s *Service) Tables(ctx context.Context) ([]string, error) {
	return s.registry.Tables(ctx)
}

// Catalog returns the filterable fields of table
func (s *Service) Catalog(ctx context.Context, table string) (filter.Catalog, error) {
	return s.registry.Catalog(ctx, table)
}

// Prepare compiles req for table into a paged statement. An order column
// outside the catalog is ignored
func (s *Service) Prepare(ctx context.Context, table string, req filter.Request, page sqlwhere.Page) (*Prepared, error) {
	cat, err := s.registry.Catalog(ctx, table)
	if err != nil {
		return nil, err
	}

	cond, err := sqlwhere.Compile(req, cat)
	if err != nil {
		return nil, err
	}

	if _, ok := cat[page.Order]; !ok {
		page.Order = ""
	}

	stmt, err := s.builder.BuildSelect(models.Filter{
		Where:     cond,
		TableName: table,
		Schema:    s.schema,
	}, page, s.limits)
	if err != nil {
		return nil, err
	}

	return &Prepared{
		Table:     table,
		Filter:    url.Values(req).Encode(),
		Statement: stmt,
		Page:      page.Number(),
		PageSize:  page.PageSize(s.limits),
	}, nil
}

// Run compiles and executes req, recording the outcome in history
func (s *Service) Run(ctx context.Context, table string, req filter.Request, page sqlwhere.Page) (models.QueryResult, error) {
	if s.runner == nil {
		return models.QueryResult{}, ErrNoDatabase
	}

	start := time.Now()
	prepared, err := s.Prepare(ctx, table, req, page)
	if err != nil {
		s.record(history.Entry{
			Table:        table,
			Filter:       url.Values(req).Encode(),
			Duration:     time.Since(start),
			ErrorMessage: err.Error(),
		})
		return models.QueryResult{}, err
	}

	result, err := query.Execute(ctx, s.runner, prepared.Statement)
	entry := history.Entry{
		Table:     table,
		Filter:    prepared.Filter,
		Where:     prepared.Statement.Where,
		Duration:  result.Duration,
		TotalRows: result.Total,
		Success:   err == nil,
	}
	if err != nil {
		entry.ErrorMessage = err.Error()
		s.record(entry)
		return models.QueryResult{}, err
	}
	s.record(entry)

	result.Page = prepared.Page
	result.PageSize = prepared.PageSize

	s.logger.DebugContext(ctx, "filter executed",
		"table", table,
		"where", prepared.Statement.Where,
		"total", result.Total,
		"duration", result.Duration,
	)
	return result, nil
}

func (s *Service) record(entry history.Entry) {
	if s.history == nil {
		return
	}
	if err := s.history.Add(entry); err != nil {
		s.logger.Warn("failed to record filter history", "table", entry.Table, "error", err)
	}
}
