package query

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rebeliceyang/lazyfilter/internal/models"
	"github.com/rebeliceyang/lazyfilter/internal/sqlwhere"
)

// Runner runs rendered statements against a database
type Runner interface {
	Rows(ctx context.Context, sql string, args ...interface{}) ([]string, [][]interface{}, error)
	Count(ctx context.Context, sql string, args ...interface{}) (int64, error)
}

// Execute runs the count and page queries of stmt
func Execute(ctx context.Context, r Runner, stmt sqlwhere.Statement) (models.QueryResult, error) {
	start := time.Now()

	total, err := r.Count(ctx, stmt.CountSQL, stmt.Args...)
	if err != nil {
		return models.QueryResult{Duration: time.Since(start)}, fmt.Errorf("failed to count rows: %w", err)
	}

	columns, rows, err := r.Rows(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return models.QueryResult{Duration: time.Since(start)}, fmt.Errorf("failed to query rows: %w", err)
	}

	for _, row := range rows {
		for i, v := range row {
			row[i] = normalizeValue(v)
		}
	}

	return models.QueryResult{
		Columns:  columns,
		Rows:     rows,
		Total:    total,
		Duration: time.Since(start),
	}, nil
}

// PgRunner runs statements on a pgx pool
type PgRunner struct {
	Pool *pgxpool.Pool
}

func (r PgRunner) Rows(ctx context.Context, sql string, args ...interface{}) ([]string, [][]interface{}, error) {
	rows, err := r.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	// Get column names
	fieldDescs := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		columns[i] = string(fd.Name)
	}

	result := [][]interface{}{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, nil, err
		}
		result = append(result, values)
	}

	return columns, result, rows.Err()
}

func (r PgRunner) Count(ctx context.Context, sql string, args ...interface{}) (int64, error) {
	var total int64
	err := r.Pool.QueryRow(ctx, sql, args...).Scan(&total)
	return total, err
}

// SQLRunner runs statements through database/sql, used for sqlite
type SQLRunner struct {
	DB *sql.DB
}

func (r SQLRunner) Rows(ctx context.Context, query string, args ...interface{}) ([]string, [][]interface{}, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	result := [][]interface{}{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		result = append(result, values)
	}

	return columns, result, rows.Err()
}

func (r SQLRunner) Count(ctx context.Context, query string, args ...interface{}) (int64, error) {
	var total int64
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(&total)
	return total, err
}

// normalizeValue converts driver values into JSON friendly ones
func normalizeValue(val interface{}) interface{} {
	switch v := val.(type) {
	case [16]byte:
		return uuid.UUID(v).String()
	case []byte:
		return string(v)
	default:
		return val
	}
}

// FormatValue renders a result value for display, handling NULL and JSON values
func FormatValue(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return "NULL"
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339)
	case map[string]interface{}, []interface{}:
		// Convert to JSON string
		jsonBytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(jsonBytes)
	case [16]byte:
		return uuid.UUID(v).String()
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", val)
	}
}
