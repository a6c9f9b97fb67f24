package events

import (
	"context"
	"log/slog"

	"github.com/phrazzld/rest-template/internal/platform/logger"
	"github.com/phrazzld/rest-template/internal/redact"
)

// AuditHandler writes every event to the log at info level. Payloads are
// sanitized before they are logged.
type AuditHandler struct {
	logger *slog.Logger
}

// NewAuditHandler creates an AuditHandler. A nil logger uses the default.
func NewAuditHandler(log *slog.Logger) *AuditHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuditHandler{logger: log.With("component", "event_audit")}
}

// HandleEvent implements EventHandler.
func (h *AuditHandler) HandleEvent(ctx context.Context, event *Event) error {
	logger.FromContextOrDefault(ctx, h.logger).InfoContext(ctx, "domain event",
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type),
		slog.String("payload", redact.JSON(event.Payload, false)),
		slog.Time("created_at", event.CreatedAt))
	return nil
}
