package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/rest-template/internal/api/middleware"
	"github.com/phrazzld/rest-template/internal/config"
	"github.com/phrazzld/rest-template/internal/events"
	"github.com/phrazzld/rest-template/internal/platform/postgres"
	"github.com/phrazzld/rest-template/internal/redact"
	"github.com/phrazzld/rest-template/internal/service"
	"github.com/phrazzld/rest-template/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger   *slog.Logger
	db       *sql.DB
	registry *prometheus.Registry

	// Stores (using interfaces for proper abstraction)
	userStore    store.UserStore
	productStore store.ProductStore

	// Service interfaces
	userService    service.UserService
	productService service.ProductService

	// Event system
	eventEmitter *events.AsyncEmitter

	// HTTP pipeline components with state
	metrics     *middleware.Metrics
	rateLimiter *middleware.RateLimiter
	writeGuard  *middleware.WriteGuard
}

// newApplication creates a new application instance with all dependencies initialized.
// It accepts core dependencies like configuration, logger, and database connection that
// must be established before application initialization. A nil registry gets a
// fresh one with the Go and process collectors.
func newApplication(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	registry *prometheus.Registry,
) (*application, error) {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	app := &application{
		config:   cfg,
		logger:   logger,
		db:       db,
		registry: registry,
	}

	// Event pipeline: async queue in front of the synchronous fan-out
	dispatcher := events.NewInMemoryEventEmitter(logger)
	dispatcher.RegisterHandler(events.NewAuditHandler(logger))

	var err error
	app.eventEmitter, err = events.NewAsyncEmitter(dispatcher, events.AsyncConfig{
		WorkerCount: cfg.Events.WorkerCount,
		QueueSize:   cfg.Events.QueueSize,
	}, logger, registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create event emitter: %w", err)
	}

	// Initialize stores
	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.productStore = postgres.NewPostgresProductStore(db, logger)

	// Initialize services
	app.userService = service.NewUserService(app.userStore, db, app.eventEmitter, logger)
	app.productService = service.NewProductService(
		app.productStore,
		db,
		app.eventEmitter,
		cfg.Inventory.LowStockThreshold,
		logger,
	)

	// HTTP pipeline
	app.metrics, err = middleware.NewMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register HTTP metrics: %w", err)
	}
	if cfg.RateLimit.Enabled {
		app.rateLimiter = middleware.NewRateLimiter(cfg.RateLimit)
	}
	app.writeGuard = middleware.NewWriteGuard(cfg.Auth)
	if !app.writeGuard.Enabled() {
		logger.Warn("auth.jwt_secret is empty, write endpoints are not protected")
	}

	logger.Info("Application initialized successfully",
		"rate_limit_enabled", cfg.RateLimit.Enabled,
		"write_guard_enabled", app.writeGuard.Enabled(),
		"low_stock_threshold", cfg.Inventory.LowStockThreshold)
	return app, nil
}

// Run starts background workers and the HTTP server, and blocks until ctx is
// canceled or the server fails. Resources are released before it returns.
func (app *application) Run(ctx context.Context) error {
	app.eventEmitter.Start()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if app.rateLimiter != nil {
		go app.rateLimiter.Run(runCtx)
	}

	err := app.startHTTPServer(runCtx, app.setupRouter())
	app.cleanup()
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
	defer cancel()

	if err := app.eventEmitter.Stop(ctx); err != nil {
		app.logger.Error("Event queue not drained before shutdown",
			"error", err,
			"pending", app.eventEmitter.Pending())
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", redact.Error(err))
		}
	}

	app.logger.Info("Application shutdown completed")
}
