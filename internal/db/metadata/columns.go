package metadata

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rebeliceyang/lazyfilter/internal/models"
)

// GetTableColumns retrieves column metadata for a table
func GetTableColumns(ctx context.Context, pool Querier, schema, table string) ([]models.ColumnInfo, error) {
	query := `
		SELECT
			column_name,
			data_type,
			udt_name,
			is_nullable = 'YES' as nullable,
			CASE WHEN data_type = 'ARRAY' THEN true ELSE false END as is_array
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position
	`

	rows, err := pool.Query(ctx, query, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	columns := make([]models.ColumnInfo, 0, len(rows))
	for _, row := range rows {
		col := models.ColumnInfo{
			Name:     toString(row["column_name"]),
			DataType: toString(row["data_type"]),
			UDTName:  toString(row["udt_name"]),
		}
		if nullable, ok := row["nullable"].(bool); ok {
			col.Nullable = nullable
		}
		if isArray, ok := row["is_array"].(bool); ok {
			col.IsArray = isArray
		}
		columns = append(columns, col)
	}

	return columns, nil
}

// GetSQLiteColumns retrieves column metadata for a sqlite table
func GetSQLiteColumns(ctx context.Context, db *sql.DB, table string) ([]models.ColumnInfo, error) {
	rows, err := db.QueryContext(ctx, `SELECT name, type, "notnull" FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []models.ColumnInfo
	for rows.Next() {
		var (
			name, dataType string
			notNull        int
		)
		if err := rows.Scan(&name, &dataType, &notNull); err != nil {
			return nil, err
		}
		columns = append(columns, models.ColumnInfo{
			Name:     name,
			DataType: strings.ToUpper(dataType),
			Nullable: notNull == 0,
		})
	}

	return columns, rows.Err()
}
