// Package logger builds the slog logger used by the server, CLI and console
package logger

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/rebeliceyang/lazyfilter/internal/config"
)

// Config holds the logger configuration
type Config struct {
	Level     slog.Level
	Format    string // "json" or "text"
	AddSource bool
	Writer    io.Writer
}

// FromConfig converts the application log settings, writing to stderr
func FromConfig(c config.LogConfig) Config {
	return Config{
		Level:  ParseLevel(c.Level),
		Format: c.Format,
		Writer: os.Stderr,
	}
}

// ParseLevel maps a level name or number to a slog level, defaulting to info
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO", "":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	}
	// Try to parse as integer level
	if levelInt, err := strconv.Atoi(s); err == nil {
		return slog.Level(levelInt)
	}
	return slog.LevelInfo
}

// New creates a logger with the given configuration
func New(c Config) *slog.Logger {
	w := c.Writer
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:     c.Level,
		AddSource: c.AddSource,
	}

	var handler slog.Handler
	if c.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops everything, for tests and quiet commands
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
