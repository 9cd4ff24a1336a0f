package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/migrations"
)

// handleMigrations runs a schema command against db: "up" creates the tasks
// table if needed, "status" logs the applied version.
func handleMigrations(
	ctx context.Context,
	db *sql.DB,
	cfg *config.Config,
	command string,
	logger *slog.Logger,
) error {
	switch command {
	case "up":
		if err := migrations.Up(ctx, db, cfg.Database.Driver, logger); err != nil {
			return err
		}
		logger.Info("schema up to date", "driver", cfg.Database.Driver)
		return nil

	case "status":
		version, err := migrations.Version(ctx, db, cfg.Database.Driver)
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		logger.Info("schema status", "driver", cfg.Database.Driver, "version", version)
		return nil

	default:
		return fmt.Errorf("unknown migrate command %q (want up or status)", command)
	}
}
