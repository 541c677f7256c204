package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	dirName    = ".paddock"
	fileName   = "config.yaml"
	envFile    = ".env"
	envPrefix  = "PADDOCK"
	configType = "yaml"
)

// keys lists every configuration key so that environment overrides bind
// even when the key is absent from the config file.
var keys = []string{
	"logging.level",
	"store.driver",
	"store.sqlite_path",
	"store.query_timeout",
	"store.atomic_writes",
	"postgres.host",
	"postgres.port",
	"postgres.user",
	"postgres.password",
	"postgres.db_name",
	"postgres.ssl_mode",
	"postgres.migrate_timeout",
	"postgres.max_conns",
	"postgres.min_conns",
	"http.addr",
	"http.request_timeout",
	"http.shutdown_timeout",
}

// Path returns the config file location inside dir.
func Path(dir string) string {
	return filepath.Join(dir, dirName, fileName)
}

// Load resolves configuration for the working directory dir.
// Resolution order: defaults, then .paddock/config.yaml, then dir/.env,
// then PADDOCK_* environment variables. A missing file is not an error.
func Load(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(Path(dir))
	v.SetConfigType(configType)
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if envMap, err := godotenv.Read(filepath.Join(dir, envFile)); err == nil {
		for k, val := range envMap {
			if _, exists := os.LookupEnv(k); !exists {
				_ = os.Setenv(k, val)
			}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when nothing is overridden.
func Default() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal defaults: %w", err)
	}
	return &cfg, nil
}

// SaveConfig writes cfg to dir/.paddock/config.yaml.
func SaveConfig(dir string, cfg *Config) error {
	paddockDir := filepath.Join(dir, dirName)
	if err := os.MkdirAll(paddockDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s dir: %w", dirName, err)
	}

	v := viper.New()
	v.Set("logging.level", cfg.Logging.Level)
	v.Set("store.driver", cfg.Store.Driver)
	v.Set("store.sqlite_path", cfg.Store.SQLitePath)
	v.Set("store.query_timeout", cfg.Store.QueryTimeout.String())
	v.Set("store.atomic_writes", cfg.Store.AtomicWrites)
	v.Set("postgres.host", cfg.Postgres.Host)
	v.Set("postgres.port", cfg.Postgres.Port)
	v.Set("postgres.user", cfg.Postgres.User)
	v.Set("postgres.password", cfg.Postgres.Password)
	v.Set("postgres.db_name", cfg.Postgres.DBName)
	v.Set("postgres.ssl_mode", cfg.Postgres.SSLMode)
	v.Set("postgres.migrate_timeout", cfg.Postgres.MigrateTimeout.String())
	v.Set("postgres.max_conns", cfg.Postgres.MaxConns)
	v.Set("postgres.min_conns", cfg.Postgres.MinConns)
	v.Set("http.addr", cfg.HTTP.Addr)
	v.Set("http.request_timeout", cfg.HTTP.RequestTimeout.String())
	v.Set("http.shutdown_timeout", cfg.HTTP.ShutdownTimeout.String())

	if err := v.WriteConfigAs(Path(dir)); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")

	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.sqlite_path", defaultSQLitePath())
	v.SetDefault("store.query_timeout", 5*time.Second)
	v.SetDefault("store.atomic_writes", true)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "postgres")
	v.SetDefault("postgres.db_name", "paddock")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.migrate_timeout", 10*time.Second)
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 2)

	v.SetDefault("http.addr", "127.0.0.1:8080")
	v.SetDefault("http.request_timeout", 3*time.Second)
	v.SetDefault("http.shutdown_timeout", 5*time.Second)
}

// defaultSQLitePath places the database under ~/.paddock, or under .paddock
// in the working directory when the home directory is unknown.
func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(dirName, "paddock.db")
	}
	return filepath.Join(home, dirName, "paddock.db")
}
