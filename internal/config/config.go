// Package config loads portal configuration from defaults, an optional
// config file, and VD_-prefixed environment variables, in ascending
// precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/voltdesk/voltdesk/internal/store"
)

// Config is the full runtime configuration.
type Config struct {
	// Backend selects the storage engine: "sqlite" (default) or
	// "postgresql". The choice is fixed for the process lifetime.
	Backend string `mapstructure:"backend"`

	// SQLitePath is the database file path for the sqlite backend.
	SQLitePath string `mapstructure:"sqlite_path"`

	// PostgresDSN is the connection string for the postgresql backend.
	PostgresDSN string `mapstructure:"postgres_dsn"`

	// BcryptCost is the hashing cost for seeded and reset passwords.
	BcryptCost int `mapstructure:"bcrypt_cost"`

	// SeedDemo enables first-run demo account seeding.
	SeedDemo bool `mapstructure:"seed_demo"`

	// DashboardPort is the WebSocket dashboard listen port.
	DashboardPort int `mapstructure:"dashboard_port"`

	// StatsInterval is the dashboard stats backstop interval.
	StatsInterval time.Duration `mapstructure:"stats_interval"`

	// LogFile, when set, routes logs to a rotating file instead of
	// stderr.
	LogFile string `mapstructure:"log_file"`
}

// Load reads configuration. path may name a config file; when empty,
// voltdesk.yaml is looked up in the working directory and silently
// skipped if absent.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("backend", "sqlite")
	v.SetDefault("sqlite_path", "voltdesk.db")
	v.SetDefault("postgres_dsn", "")
	v.SetDefault("bcrypt_cost", 10)
	v.SetDefault("seed_demo", true)
	v.SetDefault("dashboard_port", 8090)
	v.SetDefault("stats_interval", 30*time.Second)
	v.SetDefault("log_file", "")

	v.SetEnvPrefix("VD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("voltdesk")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the store would fail on at startup.
func (c *Config) Validate() error {
	switch c.Backend {
	case "", "sqlite", "sqlite3":
		if c.SQLitePath == "" {
			return fmt.Errorf("sqlite backend requires sqlite_path")
		}
	case "postgres", "postgresql", "pg":
		if c.PostgresDSN == "" {
			return fmt.Errorf("postgresql backend requires postgres_dsn")
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}

	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("bcrypt_cost must be between 4 and 31 (got %d)", c.BcryptCost)
	}
	return nil
}

// StoreConfig maps the relevant fields onto the store's configuration.
func (c *Config) StoreConfig() store.Config {
	return store.Config{
		Backend: c.Backend,
		Path:    c.SQLitePath,
		DSN:     c.PostgresDSN,
	}
}
