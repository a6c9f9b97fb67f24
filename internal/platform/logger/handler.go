package logger

import (
	"context"
	"log/slog"
)

// ContextHandler wraps another slog.Handler and adds the trace ID found in the
// record's context. Loggers that already bind a trace_id attribute are left alone,
// so a record never carries the key twice.
type ContextHandler struct {
	next     slog.Handler
	hasTrace bool
	inGroup  bool
}

// NewContextHandler wraps next.
func NewContextHandler(next slog.Handler) *ContextHandler {
	return &ContextHandler{next: next}
}

// Enabled implements slog.Handler.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *ContextHandler) Handle(ctx context.Context, record slog.Record) error {
	if !h.hasTrace && !h.inGroup {
		if traceID := TraceIDFromContext(ctx); traceID != "" && !recordHasTrace(record) {
			record = record.Clone()
			record.AddAttrs(slog.String(TraceIDAttr, traceID))
		}
	}
	return h.next.Handle(ctx, record)
}

// WithAttrs implements slog.Handler.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	hasTrace := h.hasTrace
	if !h.inGroup {
		for _, a := range attrs {
			if a.Key == TraceIDAttr {
				hasTrace = true
				break
			}
		}
	}
	return &ContextHandler{next: h.next.WithAttrs(attrs), hasTrace: hasTrace, inGroup: h.inGroup}
}

// WithGroup implements slog.Handler.
// Inside a group the trace ID would be nested, so it is not added.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &ContextHandler{next: h.next.WithGroup(name), hasTrace: h.hasTrace, inGroup: true}
}

func recordHasTrace(record slog.Record) bool {
	found := false
	record.Attrs(func(a slog.Attr) bool {
		if a.Key == TraceIDAttr {
			found = true
			return false
		}
		return true
	})
	return found
}
