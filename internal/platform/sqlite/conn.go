package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/migrations"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// MaxOpenConns is the size of the connection pool. SQLite serialises
// writers, so the handle keeps a single connection.
const MaxOpenConns = 1

// DSN builds the modernc connection string. The busy timeout follows the
// pool acquire timeout so writers wait about as long as HTTP callers do.
func DSN(cfg config.DatabaseConfig) string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", cfg.AcquireTimeout.Milliseconds()))
	if cfg.SQLitePath != MemoryPath {
		q.Add("_pragma", "journal_mode(WAL)")
	}

	path := cfg.SQLitePath
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	return path + "?" + q.Encode()
}

// Open opens the database file and creates the tasks table if needed.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open(DriverName, DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(MaxOpenConns)
	db.SetMaxIdleConns(MaxOpenConns)
	db.SetConnMaxIdleTime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := migrations.Up(ctx, db, config.DriverSQLite, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("database connection established",
		"driver", config.DriverSQLite,
		"path", cfg.SQLitePath)
	return db, nil
}
