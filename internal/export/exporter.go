package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rebeliceyang/lazyfilter/internal/db/query"
	"github.com/rebeliceyang/lazyfilter/internal/models"
)

// Format names an output format
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatCSV, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (use table, csv or json)", s)
}

// Write renders result to w in the given format
func Write(w io.Writer, result models.QueryResult, format Format) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, result)
	case FormatJSON:
		return WriteJSON(w, result)
	default:
		return WriteTable(w, result, 40)
	}
}

// WriteCSV writes a header row followed by one record per result row
func WriteCSV(w io.Writer, result models.QueryResult) error {
	writer := csv.NewWriter(w)

	// Write header
	if err := writer.Write(result.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range result.Rows {
		record := make([]string, len(row))
		for i, v := range row {
			if v == nil {
				// Empty cell rather than the NULL marker
				continue
			}
			record[i] = query.FormatValue(v)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

type jsonResult struct {
	Columns []string                 `json:"columns"`
	Rows    []map[string]interface{} `json:"rows"`
	Total   int64                    `json:"total"`
	Page    int                      `json:"page"`
	Size    int                      `json:"size"`
}

// WriteJSON writes result as an indented JSON document with rows keyed by column
func WriteJSON(w io.Writer, result models.QueryResult) error {
	data, err := json.MarshalIndent(jsonResult{
		Columns: result.Columns,
		Rows:    result.RowMaps(),
		Total:   result.Total,
		Page:    result.Page,
		Size:    result.PageSize,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result to JSON: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteTable writes an aligned plain-text table, truncating cells wider than maxCell
func WriteTable(w io.Writer, result models.QueryResult, maxCell int) error {
	cells := make([][]string, 0, len(result.Rows)+1)
	cells = append(cells, result.Columns)
	for _, row := range result.Rows {
		line := make([]string, len(row))
		for i, v := range row {
			line[i] = runewidth.Truncate(query.FormatValue(v), maxCell, "…")
		}
		cells = append(cells, line)
	}

	widths := make([]int, len(result.Columns))
	for _, line := range cells {
		for i, c := range line {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(c))
			}
		}
	}

	var sb strings.Builder
	for n, line := range cells {
		for i, c := range line {
			if i >= len(widths) {
				break
			}
			if i > 0 {
				sb.WriteString(" | ")
			}
			if i == len(widths)-1 {
				sb.WriteString(c)
			} else {
				sb.WriteString(runewidth.FillRight(c, widths[i]))
			}
		}
		sb.WriteString("\n")
		if n == 0 {
			for i, wd := range widths {
				if i > 0 {
					sb.WriteString("-+-")
				}
				sb.WriteString(strings.Repeat("-", wd))
			}
			sb.WriteString("\n")
		}
	}
	fmt.Fprintf(&sb, "(%d of %d rows)\n", len(result.Rows), result.Total)

	_, err := io.WriteString(w, sb.String())
	return err
}

// ExportToCSV exports result to a CSV file
func ExportToCSV(result models.QueryResult, path string) error {
	return exportToFile(path, func(w io.Writer) error { return WriteCSV(w, result) })
}

// ExportToJSON exports result to a JSON file
func ExportToJSON(result models.QueryResult, path string) error {
	return exportToFile(path, func(w io.Writer) error { return WriteJSON(w, result) })
}

func exportToFile(path string, write func(io.Writer) error) error {
	// Create the file
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
