package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/url"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/store"
)

// DriverName is the database/sql driver registered by pgx.
const DriverName = "pgx"

// pingTimeout bounds the startup connectivity check.
const pingTimeout = 5 * time.Second

// SSLMode derives the libpq sslmode from the TLS settings: no TLS, TLS
// without certificate verification, or fully verified TLS.
func SSLMode(cfg config.DatabaseConfig) string {
	switch {
	case !cfg.SSL:
		return "disable"
	case cfg.SSLVerify:
		return "verify-full"
	default:
		return "require"
	}
}

// DSN builds the connection URL. An explicit cfg.URL wins.
func DSN(cfg config.DatabaseConfig) string {
	if cfg.URL != "" {
		return cfg.URL
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/" + cfg.Name,
	}
	if cfg.Password != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	} else if cfg.User != "" {
		u.User = url.User(cfg.User)
	}

	q := url.Values{}
	q.Set("sslmode", SSLMode(cfg))
	q.Set("connect_timeout", strconv.Itoa(connectTimeoutSeconds(cfg.AcquireTimeout)))
	u.RawQuery = q.Encode()

	return u.String()
}

// connectTimeoutSeconds rounds up to whole seconds, minimum one, as libpq
// only accepts integer seconds.
func connectTimeoutSeconds(d time.Duration) int {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

// ConfigurePool applies the pool limits to db. MaxOpenConns matches the gate
// capacity so database/sql never queues behind the gate.
func ConfigurePool(db *sql.DB, cfg config.DatabaseConfig) {
	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxConns)
	db.SetConnMaxIdleTime(cfg.IdleTimeout)
}

// Open creates the pooled handle and checks connectivity. A failed ping is
// returned alongside the usable handle so the caller can decide whether to
// start anyway.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open(DriverName, DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	ConfigurePool(db, cfg)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		return db, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		"driver", config.DriverPostgres,
		"sslmode", SSLMode(cfg),
		"max_conns", cfg.MaxConns)
	return db, nil
}

// HasTasksTable reports whether the tasks table exists. An empty table
// counts as present.
func HasTasksTable(ctx context.Context, db store.DBTX) (bool, error) {
	var one int
	err := db.QueryRowContext(ctx, "SELECT 1 FROM tasks LIMIT 1").Scan(&one)
	switch {
	case err == nil, errors.Is(err, sql.ErrNoRows):
		return true, nil
	case IsUndefinedTable(err):
		return false, nil
	default:
		return false, err
	}
}
