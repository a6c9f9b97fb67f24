package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/rest-template/internal/api/shared"
	"github.com/phrazzld/rest-template/internal/platform/logger"
	"github.com/phrazzld/rest-template/internal/redact"
)

// DefaultHealthTimeout bounds the database ping of a health check.
const DefaultHealthTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports service and database health.
type HealthHandler struct {
	db      Pinger
	timeout time.Duration
}

// NewHealthHandler creates a HealthHandler. A non-positive timeout uses
// DefaultHealthTimeout.
func NewHealthHandler(db Pinger, timeout time.Duration) *HealthHandler {
	if timeout <= 0 {
		timeout = DefaultHealthTimeout
	}
	return &HealthHandler{db: db, timeout: timeout}
}

// Health handles GET /health requests. It answers 503 when the database
// cannot be reached.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		logger.FromContext(r.Context()).ErrorContext(r.Context(), "health check failed",
			slog.String("error", redact.Error(err)))
		shared.RespondWithJSON(w, r, http.StatusServiceUnavailable, shared.Envelope{
			Success: false,
			Data:    HealthResponse{Status: "unavailable", Database: "down"},
			Message: "Database unavailable",
			TraceID: shared.GetTraceID(r.Context()),
		})
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, HealthResponse{Status: "ok", Database: "up"}, "")
}
