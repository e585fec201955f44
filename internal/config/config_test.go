package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rebeliceyang/lazyfilter/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
database:
  dialect: sqlite
  path: /tmp/app.db
server:
  addr: ":9090"
  read_timeout: 5s
paging:
  max_size: 50
tables:
  users:
    id:
      type: long
    name:
      type: text
    created:
      type: timestamp
      format: "%Y-%m-%d"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, models.DialectSQLite, cfg.Database.Dialect)
	assert.Equal(t, "/tmp/app.db", cfg.Database.Path)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 50, cfg.Paging.MaxSize)
	assert.Equal(t, 10, cfg.Paging.DefaultSize)

	require.Contains(t, cfg.Tables, "users")
	users := cfg.Tables["users"]
	assert.Equal(t, FieldConfig{Type: "long"}, users["id"])
	assert.Equal(t, FieldConfig{Type: "timestamp", Format: "%Y-%m-%d"}, users["created"])
	assert.NotEmpty(t, cfg.History.Path)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	d := GetDefaults()
	assert.Equal(t, d.Database.Dialect, cfg.Database.Dialect)
	assert.Equal(t, d.Database.Port, cfg.Database.Port)
	assert.Equal(t, d.Server.Addr, cfg.Server.Addr)
	assert.Equal(t, d.Log.Level, cfg.Log.Level)
	assert.True(t, cfg.History.Enabled)
}

func TestLoadEnvironmentOverride(t *testing.T) {
	t.Setenv("LAZYFILTER_SERVER_ADDR", ":7070")
	t.Setenv("LAZYFILTER_LOG_LEVEL", "debug")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
