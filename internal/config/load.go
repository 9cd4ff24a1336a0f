package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "TASKS"

// legacyEnv lists the unprefixed variable names accepted for each key, so
// deployments configured with PORT/DB_* keep working.
var legacyEnv = map[string]string{
	"server.port":         "PORT",
	"database.host":       "DB_HOST",
	"database.port":       "DB_PORT",
	"database.name":       "DB_NAME",
	"database.user":       "DB_USER",
	"database.password":   "DB_PASSWORD",
	"database.ssl":        "DB_SSL",
	"database.ssl_verify": "DB_SSL_VERIFY",
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// A .env file in the working directory is read first if present; it never
// overrides variables that are already set.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct tags and the cross-field rules tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	db := c.Database
	switch db.Driver {
	case DriverPostgres:
		if db.URL == "" && db.Host == "" {
			return fmt.Errorf("config validation failed: database.host or database.url is required for the postgres driver")
		}
	case DriverSQLite:
		if db.SQLitePath == "" {
			return fmt.Errorf("config validation failed: database.sqlite_path is required for the sqlite driver")
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.strict_not_found", false)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.url", "")
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl", true)
	v.SetDefault("database.ssl_verify", false)
	v.SetDefault("database.sqlite_path", "tasks.db")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.idle_timeout", 30*time.Second)
	v.SetDefault("database.acquire_timeout", 2*time.Second)
	v.SetDefault("database.pool_mode", PoolModeQueue)
	v.SetDefault("database.bootstrap", false)

	v.SetDefault("metrics.service_name", "tasks-api")
}
