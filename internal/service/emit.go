package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/rest-template/internal/events"
	"github.com/phrazzld/rest-template/internal/platform/logger"
)

// publish emits an event after a committed write. Failures are logged and
// never reported to the caller; the write has already succeeded.
func publish(ctx context.Context, emitter events.EventEmitter, base *slog.Logger, eventType string, payload any) {
	if emitter == nil {
		return
	}
	log := logger.FromContextOrDefault(ctx, base)

	event, err := events.NewEvent(ctx, eventType, payload)
	if err != nil {
		log.ErrorContext(ctx, "failed to build event",
			"event_type", eventType,
			"error", err)
		return
	}

	if err := emitter.EmitEvent(ctx, event); err != nil {
		level := slog.LevelError
		if errors.Is(err, events.ErrQueueFull) || errors.Is(err, events.ErrEmitterStopped) {
			level = slog.LevelWarn
		}
		log.Log(ctx, level, "event dropped",
			"event_id", event.ID,
			"event_type", eventType,
			"error", err)
	}
}
