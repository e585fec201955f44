package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/rebeliceyang/lazyfilter/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("ERROR"))
	assert.Equal(t, slog.Level(-8), ParseLevel("-8"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	log.Debug("hidden")
	log.Info("compiled", "table", "users")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "compiled", entry["msg"])
	assert.Equal(t, "users", entry["table"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	c := FromConfig(config.LogConfig{Level: "debug", Format: "text"})
	c.Writer = &buf

	New(c).Debug("shown", "field", "age")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "field=age")
}
