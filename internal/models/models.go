package models

import "time"

// ColumnInfo describes a table column as reported by the database
type ColumnInfo struct {
	Name     string
	DataType string
	UDTName  string
	Nullable bool
	IsArray  bool
}

// QueryResult holds the rows returned for a filtered query
type QueryResult struct {
	Columns  []string        `json:"columns"`
	Rows     [][]interface{} `json:"rows"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Duration time.Duration   `json:"duration"`
}

// RowMaps returns the rows keyed by column name
func (r QueryResult) RowMaps() []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(r.Rows))
	for _, row := range r.Rows {
		m := make(map[string]interface{}, len(r.Columns))
		for i, col := range r.Columns {
			if i < len(row) {
				m[col] = row[i]
			}
		}
		out = append(out, m)
	}
	return out
}
