// Package main implements the entry point for the REST API server, which
// serves the user and product catalog over HTTP and can also apply the
// embedded database migrations.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/rest-template/internal/config"
	"github.com/phrazzld/rest-template/internal/platform/logger"
	"github.com/phrazzld/rest-template/internal/redact"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"Run a database migration command (up, up-by-one, down, redo, reset, status, version) and exit")
	envFile := flag.String("env-file", ".env", "Path to a .env file loaded before configuration")
	configFile := flag.String("config", "config.yaml", "Path to an optional configuration file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *migrateCmd, config.LoadOptions{EnvFile: *envFile, ConfigFile: *configFile}); err != nil {
		slog.Error("application failed", "error", redact.Error(err))
		os.Exit(1)
	}
}

// run loads configuration, sets up logging and the database, then either
// runs a migration command or serves HTTP until ctx is canceled.
func run(ctx context.Context, migrateCmd string, opts config.LoadOptions) error {
	cfg, err := config.LoadWithOptions(opts)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"log_format", cfg.Logging.Format)
	if cfg.Auth.JWTSecret != "" {
		log.Debug("Auth configuration", "jwt_secret_present", true)
	}

	db, err := setupAppDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer closeDB(db, log)
		return handleMigrations(ctx, db, migrateCmd, log)
	}

	app, err := newApplication(cfg, log, db, nil)
	if err != nil {
		closeDB(db, log)
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}
