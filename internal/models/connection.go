package models

// Dialect selects the SQL flavour queries are rendered for
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// ConnectionConfig represents a database connection configuration
type ConnectionConfig struct {
	Name     string  `mapstructure:"name"`
	Dialect  Dialect `mapstructure:"dialect"`
	Host     string  `mapstructure:"host"`
	Port     int     `mapstructure:"port"`
	Database string  `mapstructure:"database"`
	User     string  `mapstructure:"user"`
	Password string  `mapstructure:"password"`
	SSLMode  string  `mapstructure:"ssl_mode"`
	Schema   string  `mapstructure:"schema"`
	// Path is the database file for the sqlite dialect
	Path string `mapstructure:"path"`
}

// KeyringUser identifies the connection's password entry in the OS keyring
func (c ConnectionConfig) KeyringUser() string {
	return c.User + "@" + c.Host + "/" + c.Database
}
