package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/migrations"
	"github.com/phrazzld/tasks-api/internal/platform/pool"
	"github.com/phrazzld/tasks-api/internal/platform/postgres"
	"github.com/phrazzld/tasks-api/internal/platform/sqlite"
	"github.com/phrazzld/tasks-api/internal/redact"
	"github.com/phrazzld/tasks-api/internal/store"
)

// setupAppDatabase opens the configured database. An unreachable PostgreSQL
// is logged and tolerated so the server can start before the database does,
// unless bootstrap was requested, which needs a live connection.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		return sqlite.Open(ctx, cfg.Database, logger)

	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.Database, logger)
		if err != nil {
			if db == nil || cfg.Database.Bootstrap {
				if db != nil {
					_ = db.Close()
				}
				return nil, err
			}
			logger.Warn("database not reachable at startup, continuing",
				"error", redact.Error(err))
		}

		if cfg.Database.Bootstrap {
			if err := migrations.Up(ctx, db, config.DriverPostgres, logger); err != nil {
				_ = db.Close()
				return nil, err
			}
			return db, nil
		}
		if err == nil {
			checkSchema(ctx, db, logger)
		}
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// checkSchema warns when the tasks table has not been created.
func checkSchema(ctx context.Context, db store.DBTX, logger *slog.Logger) {
	ok, err := postgres.HasTasksTable(ctx, db)
	switch {
	case err != nil:
		logger.Warn("could not check for tasks table", "error", redact.Error(err))
	case !ok:
		logger.Warn("tasks table does not exist, run with -migrate up or set database.bootstrap")
	}
}

// newStoreGate sizes the pool gate to the connections the driver really
// opens, so that acquire_timeout bounds every wait.
func newStoreGate(cfg config.DatabaseConfig) *pool.Gate {
	if cfg.Driver == config.DriverSQLite {
		return pool.NewGate(sqlite.MaxOpenConns, cfg.PoolMode, cfg.AcquireTimeout)
	}
	return pool.NewGateFromConfig(cfg)
}

// newTaskStore builds the driver-specific task store behind a pool gate.
func newTaskStore(cfg config.DatabaseConfig, db *sql.DB) (store.TaskStore, error) {
	gate := newStoreGate(cfg)
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.NewTaskStore(db, gate), nil
	case config.DriverPostgres:
		return postgres.NewPostgresTaskStore(db, gate), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
