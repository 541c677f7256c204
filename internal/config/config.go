// Package config loads paddock configuration.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config represents the paddock configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Store    StoreConfig    `mapstructure:"store"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	HTTP     HTTPConfig     `mapstructure:"http"`
}

// Validate ensures the selected driver has what it needs.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return errors.New("store.sqlite_path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Postgres.User == "" || c.Postgres.Password == "" || c.Postgres.DBName == "" {
			return errors.New("postgres credentials are required")
		}
		if c.Postgres.Host == "" {
			return errors.New("postgres.host is required")
		}
		if c.Postgres.MinConns > c.Postgres.MaxConns {
			return errors.New("postgres.min_conns exceeds postgres.max_conns")
		}
	default:
		return fmt.Errorf("unknown store.driver %q (want %s or %s)", c.Store.Driver, DriverSQLite, DriverPostgres)
	}

	if c.Store.QueryTimeout < 0 {
		return errors.New("store.query_timeout must not be negative")
	}
	if c.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}
	return nil
}

// LoggingConfig contains logger preferences.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// StoreConfig selects and tunes the relational store.
type StoreConfig struct {
	Driver       string        `mapstructure:"driver"`
	SQLitePath   string        `mapstructure:"sqlite_path"`
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
	// AtomicWrites runs each penalty write plan in one transaction when the
	// store supports it.
	AtomicWrites bool `mapstructure:"atomic_writes"`
}

// PostgresConfig describes database connection parameters.
type PostgresConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	DBName         string        `mapstructure:"db_name"`
	SSLMode        string        `mapstructure:"ssl_mode"`
	MigrateTimeout time.Duration `mapstructure:"migrate_timeout"`
	MaxConns       int32         `mapstructure:"max_conns"`
	MinConns       int32         `mapstructure:"min_conns"`
}

// DSN returns a Postgres connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode,
	)
}

// HTTPConfig contains the serve command's transport settings.
type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}
