package main

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/phrazzld/rest-template/internal/platform/postgres"
)

// handleMigrations runs a goose command against db. It's called from run()
// when the -migrate flag is set.
func handleMigrations(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	if err := postgres.ValidateMigrationCommand(command); err != nil {
		return err
	}

	start := time.Now()
	logger.Info("Executing migrations", "command", command)
	if err := postgres.Migrate(ctx, db, command, logger); err != nil {
		return err
	}
	logger.Info("Migration command completed",
		"command", command,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}
