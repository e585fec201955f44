package query

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rebeliceyang/lazyfilter/internal/filter"
	"github.com/rebeliceyang/lazyfilter/internal/models"
	"github.com/rebeliceyang/lazyfilter/internal/sqlwhere"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "query.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
		CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT, age INTEGER);
		INSERT INTO users (id, name, age) VALUES
			(1, 'alice', 31),
			(2, 'Bob', 25),
			(3, 'carol', NULL),
			(4, 'alfred', 40),
			(5, 'dave', 19);
	`)
	require.NoError(t, err)
	return db
}

var usersCatalog = filter.Catalog{
	"id":   {Type: filter.Long},
	"name": {Type: filter.Text},
	"age":  {Type: filter.Integer},
}

func run(t *testing.T, db *sql.DB, req filter.Request, page sqlwhere.Page) models.QueryResult {
	t.Helper()
	cond, err := sqlwhere.Compile(req, usersCatalog)
	require.NoError(t, err)

	stmt, err := sqlwhere.NewBuilder(models.DialectSQLite).BuildSelect(
		models.Filter{Where: cond, TableName: "users"}, page, sqlwhere.DefaultLimits())
	require.NoError(t, err)

	result, err := Execute(context.Background(), SQLRunner{DB: db}, stmt)
	require.NoError(t, err)
	return result
}

func ids(result models.QueryResult) []int64 {
	out := make([]int64, 0, len(result.Rows))
	for _, row := range result.Rows {
		out = append(out, row[0].(int64))
	}
	return out
}

func TestExecuteFilters(t *testing.T) {
	db := openTestDB(t)
	asc := sqlwhere.Page{Order: "id", Sort: "asc"}

	tests := []struct {
		name string
		req  filter.Request
		want []int64
	}{
		{"all", filter.Request{}, []int64{1, 2, 3, 4, 5}},
		{"equal text ignores case", filter.Request{"name": {"bob"}}, []int64{2}},
		{"like", filter.Request{"name": {"lk_al*"}}, []int64{1, 4}},
		{"not like", filter.Request{"name": {"not_lk_al*"}}, []int64{2, 3, 5}},
		{"null", filter.Request{"age": {"null"}}, []int64{3}},
		{"not null", filter.Request{"age": {"not_null"}}, []int64{1, 2, 4, 5}},
		{"between inclusive", filter.Request{"age": {"25_bt_31"}}, []int64{1, 2}},
		{"or", filter.Request{"age": {"lt_20|gt_35"}}, []int64{4, 5}},
		{"negated range", filter.Request{"age": {"not_gt_30"}}, []int64{2, 5}},
		{"fields combine", filter.Request{"age": {"gt_20"}, "name": {"lk_a*"}}, []int64{1, 4}},
		{"separators only", filter.Request{"id": {"|"}}, []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := run(t, db, tt.req, asc)
			assert.Equal(t, tt.want, ids(result))
			assert.Equal(t, int64(len(tt.want)), result.Total)
		})
	}
}

func TestExecutePaging(t *testing.T) {
	db := openTestDB(t)

	result := run(t, db, filter.Request{}, sqlwhere.Page{Page: 1, Size: 2, Order: "id", Sort: "asc"})
	assert.Equal(t, []int64{3, 4}, ids(result))
	assert.Equal(t, int64(5), result.Total)
	assert.Equal(t, []string{"id", "name", "age"}, result.Columns)

	result = run(t, db, filter.Request{}, sqlwhere.Page{Size: 2, Order: "id"})
	assert.Equal(t, []int64{5, 4}, ids(result))
}

func TestExecuteNormalizesText(t *testing.T) {
	db := openTestDB(t)
	result := run(t, db, filter.Request{"id": {"2"}}, sqlwhere.Page{})
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "Bob", result.Rows[0][1])
}

func TestExecuteError(t *testing.T) {
	db := openTestDB(t)
	_, err := Execute(context.Background(), SQLRunner{DB: db}, sqlwhere.Statement{
		SQL:      "SELECT * FROM nope",
		CountSQL: "SELECT COUNT(*) FROM nope",
	})
	assert.Error(t, err)
}

func TestFormatValue(t *testing.T) {
	id := uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")

	assert.Equal(t, "NULL", FormatValue(nil))
	assert.Equal(t, "abc", FormatValue("abc"))
	assert.Equal(t, "abc", FormatValue([]byte("abc")))
	assert.Equal(t, "42", FormatValue(int64(42)))
	assert.Equal(t, id.String(), FormatValue([16]byte(id)))
	assert.Equal(t, `{"a":1}`, FormatValue(map[string]interface{}{"a": 1}))
	assert.Equal(t, "2024-01-02T03:04:05Z", FormatValue(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
}
