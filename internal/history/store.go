package history

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Entry records one filter that was compiled and run
type Entry struct {
	ID           int
	Table        string
	Filter       string
	Where        string
	ExecutedAt   time.Time
	Duration     time.Duration
	TotalRows    int64
	Success      bool
	ErrorMessage string
}

// Store manages filter history persistence
type Store struct {
	db *sql.DB
}

// NewStore creates a new history store, creating the parent directory if needed
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// Create schema
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Add adds a new filter to history
func (s *Store) Add(entry Entry) error {
	_, err := s.db.Exec(`
		INSERT INTO filter_history
		(table_name, filter, where_sql, duration_ms, total_rows, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.Table,
		entry.Filter,
		entry.Where,
		entry.Duration.Milliseconds(),
		entry.TotalRows,
		entry.Success,
		entry.ErrorMessage,
	)
	return err
}

// GetRecent retrieves the most recent history entries
func (s *Store) GetRecent(limit int) ([]Entry, error) {
	return s.list(`
		SELECT id, table_name, filter, where_sql, executed_at,
		       duration_ms, total_rows, success, error_message
		FROM filter_history
		ORDER BY executed_at DESC, id DESC
		LIMIT ?`, limit)
}

// Search searches history by table name or filter text
func (s *Store) Search(text string, limit int) ([]Entry, error) {
	pattern := "%" + text + "%"
	return s.list(`
		SELECT id, table_name, filter, where_sql, executed_at,
		       duration_ms, total_rows, success, error_message
		FROM filter_history
		WHERE filter LIKE ? OR table_name LIKE ?
		ORDER BY executed_at DESC, id DESC
		LIMIT ?`, pattern, pattern, limit)
}

func (s *Store) list(query string, args ...interface{}) ([]Entry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var durationMs int64
		var executedAt time.Time

		err := rows.Scan(
			&e.ID,
			&e.Table,
			&e.Filter,
			&e.Where,
			&executedAt,
			&durationMs,
			&e.TotalRows,
			&e.Success,
			&e.ErrorMessage,
		)
		if err != nil {
			return nil, err
		}

		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.ExecutedAt = executedAt

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Clear deletes all history entries
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM filter_history`)
	return err
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
