package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rebeliceyang/lazyfilter/internal/catalog"
	"github.com/rebeliceyang/lazyfilter/internal/filter"
	"github.com/rebeliceyang/lazyfilter/internal/service"
)

// Handler serves the table filtering API
type Handler struct {
	svc    *service.Service
	logger *slog.Logger
}

// NewHandler creates a handler backed by svc
func NewHandler(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes mounts the API under /api/tables
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/tables", func(r chi.Router) {
		r.Get("/", h.ListTables)
		r.Route("/{table}", func(r chi.Router) {
			r.Get("/fields", h.ListFields)
			r.Get("/rows", h.QueryRows)
			r.Get("/where", h.ExplainWhere)
		})
	})
}

// TablesResponse lists the tables that can be filtered
type TablesResponse struct {
	Tables []string `json:"tables"`
}

// FieldResponse describes one filterable field
type FieldResponse struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Format string `json:"format,omitempty"`
}

// RowsResponse is one page of filtered rows
type RowsResponse struct {
	Columns    []string                 `json:"columns"`
	Data       []map[string]interface{} `json:"data"`
	Total      int64                    `json:"total"`
	Page       int                      `json:"page"`
	Size       int                      `json:"size"`
	DurationMs int64                    `json:"duration_ms"`
}

// WhereResponse is a compiled filter that was not executed
type WhereResponse struct {
	Where    string        `json:"where"`
	Args     []interface{} `json:"args"`
	SQL      string        `json:"sql"`
	CountSQL string        `json:"count_sql"`
}

// ErrorResponse is returned for failed requests. Filter errors carry their kind, field and value
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Field string `json:"field,omitempty"`
	Value string `json:"value,omitempty"`
}

// ListTables handles GET /api/tables
func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.svc.Tables(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if tables == nil {
		tables = []string{}
	}
	writeJSON(w, http.StatusOK, TablesResponse{Tables: tables})
}

// ListFields handles GET /api/tables/{table}/fields
func (h *Handler) ListFields(w http.ResponseWriter, r *http.Request) {
	cat, err := h.svc.Catalog(r.Context(), chi.URLParam(r, "table"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	fields := make([]FieldResponse, 0, len(cat))
	for _, name := range cat.Names() {
		f := cat[name]
		fields = append(fields, FieldResponse{Name: name, Type: f.Type.String(), Format: f.Format})
	}
	writeJSON(w, http.StatusOK, fields)
}

// QueryRows handles GET /api/tables/{table}/rows
func (h *Handler) QueryRows(w http.ResponseWriter, r *http.Request) {
	req, page, err := service.SplitParams(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.svc.Run(r.Context(), chi.URLParam(r, "table"), req, page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, RowsResponse{
		Columns:    result.Columns,
		Data:       result.RowMaps(),
		Total:      result.Total,
		Page:       result.Page,
		Size:       result.PageSize,
		DurationMs: result.Duration.Milliseconds(),
	})
}

// ExplainWhere handles GET /api/tables/{table}/where
func (h *Handler) ExplainWhere(w http.ResponseWriter, r *http.Request) {
	req, page, err := service.SplitParams(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	prepared, err := h.svc.Prepare(r.Context(), chi.URLParam(r, "table"), req, page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	args := prepared.Statement.Args
	if args == nil {
		args = []interface{}{}
	}
	writeJSON(w, http.StatusOK, WhereResponse{
		Where:    prepared.Statement.Where,
		Args:     args,
		SQL:      prepared.Statement.SQL,
		CountSQL: prepared.Statement.CountSQL,
	})
}

// writeError maps err to a status code
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var fe *filter.Error
	switch {
	case errors.As(err, &fe):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: fe.Error(),
			Kind:  string(fe.Kind),
			Field: fe.Field,
			Value: fe.Value,
		})
	case errors.Is(err, service.ErrInvalidPaging):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, catalog.ErrUnknownTable):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrNoDatabase):
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
	default:
		h.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}
