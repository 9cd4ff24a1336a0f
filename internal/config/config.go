package config

import "time"

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Connection pool behaviour when every connection is in use.
const (
	// PoolModeQueue waits up to AcquireTimeout for a connection to free up.
	PoolModeQueue = "queue"
	// PoolModeFailFast returns an error immediately.
	PoolModeFailFast = "fail_fast"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`

	// StrictNotFound makes PUT on a missing task answer 404 instead of 200 null.
	StrictNotFound bool `mapstructure:"strict_not_found"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`

	// URL overrides the discrete connection fields when set.
	URL        string `mapstructure:"url" validate:"omitempty,url"`
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port" validate:"gt=0,lt=65536"`
	Name       string `mapstructure:"name"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password"`
	SSL        bool   `mapstructure:"ssl"`
	SSLVerify  bool   `mapstructure:"ssl_verify"`
	SQLitePath string `mapstructure:"sqlite_path"`

	MaxConns       int           `mapstructure:"max_conns" validate:"gt=0"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout" validate:"gte=0"`
	AcquireTimeout time.Duration `mapstructure:"acquire_timeout" validate:"gt=0"`
	PoolMode       string        `mapstructure:"pool_mode" validate:"required,oneof=queue fail_fast"`

	// Bootstrap creates the tasks table on startup if it does not exist.
	Bootstrap bool `mapstructure:"bootstrap"`
}

// MetricsConfig contains Prometheus exporter settings.
type MetricsConfig struct {
	ServiceName string `mapstructure:"service_name" validate:"required"`
}
