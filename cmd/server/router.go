package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/rest-template/internal/api"
	"github.com/phrazzld/rest-template/internal/api/middleware"
	"github.com/phrazzld/rest-template/internal/api/shared"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRouter creates and configures the application router with all routes and middleware.
// It accepts the application dependencies to create handlers and register routes.
// Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Outermost first: trace IDs must exist before anything logs, and the
	// audit record must see the status written by the recoverer.
	if app.config.Server.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Trace(app.logger))
	r.Use(app.metrics.Handler)
	r.Use(middleware.Audit(middleware.AuditConfig{
		Bodies:       app.config.Logging.AuditBodies,
		MaxBodyBytes: app.config.Logging.MaxBodyBytes,
		QuietPaths:   middleware.DefaultQuietPaths,
	}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.CORS(app.config.CORS))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusNotFound, "Resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	healthHandler := api.NewHealthHandler(app.db, 0)
	r.Get("/health", healthHandler.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))

	userHandler := api.NewUserHandler(app.userService, app.logger)
	productHandler := api.NewProductHandler(app.productService, app.logger)

	r.Route("/api/v1", func(r chi.Router) {
		if app.rateLimiter != nil {
			r.Use(app.rateLimiter.Handler)
		}
		r.Use(app.writeGuard.Handler)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.ListUsers)
			r.Post("/", userHandler.CreateUser)
			r.Get("/{id}", userHandler.GetUser)
			r.Put("/{id}", userHandler.UpdateUser)
			r.Delete("/{id}", userHandler.DeleteUser)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.ListProducts)
			r.Post("/", productHandler.CreateProduct)
			r.Get("/{id}", productHandler.GetProduct)
			r.Put("/{id}", productHandler.UpdateProduct)
			r.Delete("/{id}", productHandler.DeleteProduct)
			r.Post("/{id}/stock", productHandler.AdjustStock)
		})
	})

	return r
}
