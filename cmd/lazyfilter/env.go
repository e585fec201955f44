package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rebeliceyang/lazyfilter/internal/catalog"
	"github.com/rebeliceyang/lazyfilter/internal/config"
	"github.com/rebeliceyang/lazyfilter/internal/db/connection"
	"github.com/rebeliceyang/lazyfilter/internal/db/metadata"
	"github.com/rebeliceyang/lazyfilter/internal/db/query"
	"github.com/rebeliceyang/lazyfilter/internal/filter"
	"github.com/rebeliceyang/lazyfilter/internal/history"
	"github.com/rebeliceyang/lazyfilter/internal/logger"
	"github.com/rebeliceyang/lazyfilter/internal/models"
	"github.com/rebeliceyang/lazyfilter/internal/service"
	"github.com/rebeliceyang/lazyfilter/internal/sqlwhere"
)

// env holds what a command needs, built from configuration
type env struct {
	cfg      *config.Config
	log      *slog.Logger
	declared map[string]filter.Catalog

	source  catalog.ColumnSource
	runner  query.Runner
	history *history.Store
	closers []func()
}

func loadEnv() (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	declared, err := catalog.FromConfig(cfg.Tables)
	if err != nil {
		return nil, fmt.Errorf("invalid table configuration: %w", err)
	}
	return &env{
		cfg:      cfg,
		log:      logger.New(logger.FromConfig(cfg.Log)),
		declared: declared,
	}, nil
}

// connect opens the configured database
func (e *env) connect(ctx context.Context) error {
	db := e.cfg.Database
	switch db.Dialect {
	case models.DialectSQLite:
		conn, err := connection.OpenSQLite(ctx, db.Path)
		if err != nil {
			return err
		}
		e.closers = append(e.closers, func() { _ = conn.Close() })
		e.source = metadata.SQLiteSource{DB: conn}
		e.runner = query.SQLRunner{DB: conn}
	case models.DialectPostgres, "":
		pool, err := connection.NewPool(ctx, db)
		if err != nil {
			return err
		}
		e.closers = append(e.closers, pool.Close)
		e.source = metadata.PostgresSource{Pool: pool, Schema: pool.Schema()}
		e.runner = query.PgRunner{Pool: pool.GetPool()}
	default:
		return fmt.Errorf("unsupported dialect %q", db.Dialect)
	}
	e.log.Debug("connected", "dialect", db.Dialect, "database", db.Database, "path", db.Path)
	return nil
}

// openHistory opens the history store when enabled. Failures are logged and
// leave history disabled
func (e *env) openHistory() {
	if !e.cfg.History.Enabled {
		return
	}
	store, err := history.NewStore(e.cfg.History.Path)
	if err != nil {
		e.log.Warn("filter history disabled", "path", e.cfg.History.Path, "error", err)
		return
	}
	e.history = store
	e.closers = append(e.closers, func() { _ = store.Close() })
}

func (e *env) service() *service.Service {
	schema := ""
	if e.cfg.Database.Dialect != models.DialectSQLite {
		schema = e.cfg.Database.Schema
	}
	return service.New(service.Options{
		Registry: catalog.NewRegistry(e.declared, e.source),
		Dialect:  e.cfg.Database.Dialect,
		Schema:   schema,
		Limits: sqlwhere.Limits{
			DefaultSize: e.cfg.Paging.DefaultSize,
			MaxSize:     e.cfg.Paging.MaxSize,
		},
		Runner:  e.runner,
		History: e.history,
		Logger:  e.log,
	})
}

func (e *env) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}
