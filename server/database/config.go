package database

import (
	"fmt"
	"strings"
)

type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

type Config struct {
	Driver   Driver `toml:"driver" env:"DATABASE_DRIVER"`
	Host     string `toml:"host" env:"DATABASE_HOST"`
	Port     int    `toml:"port" env:"DATABASE_PORT"`
	Username string `toml:"username" env:"DATABASE_USERNAME"`
	Password string `toml:"password" env:"DATABASE_PASSWORD"`
	Database string `toml:"database" env:"DATABASE_NAME"`
	SSLMode  string `toml:"ssl_mode" env:"DATABASE_SSL_MODE"`
	// Path is the SQLite database file, ":memory:" keeps everything in memory.
	Path string `toml:"path" env:"DATABASE_PATH"`
}

func (c Config) String() string {
	return fmt.Sprintf("\n  Driver: %s\n  Host: %s\n  Port: %d\n  Username: %s\n  Password: %s\n  Database: %s\n  SSLMode: %s\n  Path: %s",
		c.Driver,
		c.Host,
		c.Port,
		c.Username,
		strings.Repeat("*", len(c.Password)),
		c.Database,
		c.SSLMode,
		c.Path,
	)
}

func (c Config) driverName() (string, error) {
	switch c.Driver {
	case DriverPostgres:
		return "pgx", nil
	case DriverSQLite:
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unknown database driver %q", c.Driver)
	}
}

func (c Config) DataSourceName() string {
	if c.Driver == DriverSQLite {
		return c.Path
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.Username,
		c.Password,
		c.Database,
		c.SSLMode,
	)
}
