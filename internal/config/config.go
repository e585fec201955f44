package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rebeliceyang/lazyfilter/internal/models"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Database models.ConnectionConfig `mapstructure:"database"`
	Server   ServerConfig            `mapstructure:"server"`
	Paging   PagingConfig            `mapstructure:"paging"`
	History  HistoryConfig           `mapstructure:"history"`
	Log      LogConfig               `mapstructure:"log"`
	UI       UIConfig                `mapstructure:"ui"`
	// Tables declares filterable fields per table. Tables not listed here
	// are described from database metadata when a connection is available
	Tables map[string]map[string]FieldConfig `mapstructure:"tables"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type PagingConfig struct {
	DefaultSize int `mapstructure:"default_size"`
	MaxSize     int `mapstructure:"max_size"`
}

type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type UIConfig struct {
	Theme string `mapstructure:"theme"`
}

// FieldConfig declares the filter type of one column
type FieldConfig struct {
	Type   string `mapstructure:"type"`
	Format string `mapstructure:"format"`
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		Database: models.ConnectionConfig{
			Dialect:  models.DialectPostgres,
			Host:     "localhost",
			Port:     5432,
			Database: "postgres",
			User:     "postgres",
			SSLMode:  "prefer",
			Schema:   "public",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Paging: PagingConfig{
			DefaultSize: 10,
			MaxSize:     100,
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		UI: UIConfig{
			Theme: "default",
		},
		Tables: map[string]map[string]FieldConfig{},
	}
}

// Load loads configuration from files and LAZYFILTER_* environment variables.
// An explicit path replaces the search paths
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		// Set config name and type
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Add config paths in priority order
		// 1. User config directory
		if configDir, err := GetConfigPath(); err == nil {
			v.AddConfigPath(configDir)
		}

		// 2. Current directory
		v.AddConfigPath(".")

		// 3. Default config directory
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("lazyfilter")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, GetDefaults())

	// Read config (it's okay if file doesn't exist, we have defaults)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	// Unmarshal into struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if cfg.History.Path == "" {
		cfg.History.Path = defaultHistoryPath()
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("database.dialect", string(d.Database.Dialect))
	v.SetDefault("database.host", d.Database.Host)
	v.SetDefault("database.port", d.Database.Port)
	v.SetDefault("database.database", d.Database.Database)
	v.SetDefault("database.user", d.Database.User)
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", d.Database.SSLMode)
	v.SetDefault("database.schema", d.Database.Schema)
	v.SetDefault("database.path", "")
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("paging.default_size", d.Paging.DefaultSize)
	v.SetDefault("paging.max_size", d.Paging.MaxSize)
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.path", "")
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("ui.theme", d.UI.Theme)
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "lazyfilter"), nil
}

func defaultHistoryPath() string {
	dir, err := GetConfigPath()
	if err != nil {
		return "lazyfilter-history.db"
	}
	return filepath.Join(dir, "history.db")
}
