package logger

import (
	"context"
	"log/slog"
)

type contextKey string

const (
	loggerKey  contextKey = "logger"
	traceIDKey contextKey = "trace_id"
)

// TraceIDAttr is the attribute key used for trace IDs in every log record.
const TraceIDAttr = "trace_id"

// WithLogger returns a copy of ctx carrying the given logger.
// It panics if logger is nil.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		// ALLOW-PANIC: a nil logger in context is a programming error
		panic("logger cannot be nil")
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or slog.Default() if there is none.
func FromContext(ctx context.Context) *slog.Logger {
	return FromContextOrDefault(ctx, slog.Default())
}

// FromContextOrDefault returns the logger stored in ctx, or defaultLogger if ctx
// is nil or carries no logger.
func FromContextOrDefault(ctx context.Context, defaultLogger *slog.Logger) *slog.Logger {
	if ctx == nil {
		return defaultLogger
	}
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return defaultLogger
}

// WithTraceID returns a copy of ctx carrying the trace ID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// TraceIDFromContext returns the trace ID stored in ctx, or "" if there is none.
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	traceID, ok := ctx.Value(traceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// Detach returns a context that is never canceled but still carries the trace
// ID and logger of ctx. Use it for work that must outlive the request.
func Detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

// Restore builds a fresh context for traceID, binding a logger derived from
// base. Asynchronous consumers use it to resume a trace on another goroutine.
func Restore(parent context.Context, base *slog.Logger, traceID string) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	if base == nil {
		base = slog.Default()
	}
	if traceID == "" {
		return WithLogger(parent, base)
	}
	ctx := WithTraceID(parent, traceID)
	return WithLogger(ctx, base.With(slog.String(TraceIDAttr, traceID)))
}
