package metadata

import (
	"context"
	"database/sql"

	"github.com/rebeliceyang/lazyfilter/internal/models"
)

// Querier runs a query and returns rows keyed by column name.
// *connection.Pool satisfies it
type Querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) ([]map[string]interface{}, error)
}

// PostgresSource describes tables of one PostgreSQL schema
type PostgresSource struct {
	Pool   Querier
	Schema string
}

func (s PostgresSource) TableColumns(ctx context.Context, table string) ([]models.ColumnInfo, error) {
	return GetTableColumns(ctx, s.Pool, s.Schema, table)
}

func (s PostgresSource) ListTables(ctx context.Context) ([]string, error) {
	return ListTables(ctx, s.Pool, s.Schema)
}

// SQLiteSource describes tables of a sqlite database
type SQLiteSource struct {
	DB *sql.DB
}

func (s SQLiteSource) TableColumns(ctx context.Context, table string) ([]models.ColumnInfo, error) {
	return GetSQLiteColumns(ctx, s.DB, table)
}

func (s SQLiteSource) ListTables(ctx context.Context) ([]string, error) {
	return ListSQLiteTables(ctx, s.DB)
}
