package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/rest-template/internal/api/shared"
	"github.com/phrazzld/rest-template/internal/platform/logger"
)

// RequestIDHeader is accepted as an alternative inbound trace header.
const RequestIDHeader = "X-Request-ID"

// Trace assigns every request a trace ID. A well-formed inbound X-Trace-ID
// (or X-Request-ID) is reused, anything else is replaced with a fresh ID.
// The ID is stored in the request context together with a logger that binds
// it, and echoed in the X-Trace-ID response header.
//
// This middleware should be applied early in the middleware chain to ensure
// that all subsequent handlers have access to the trace ID.
func Trace(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := inboundTraceID(r)
			if traceID == "" {
				traceID = shared.NewTraceID()
			}

			log := base.With(slog.String(logger.TraceIDAttr, traceID))
			ctx := logger.WithLogger(shared.SetTraceID(r.Context(), traceID), log)

			w.Header().Set(shared.TraceIDHeader, traceID)

			log.DebugContext(ctx, "request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func inboundTraceID(r *http.Request) string {
	for _, header := range []string{shared.TraceIDHeader, RequestIDHeader} {
		if id := r.Header.Get(header); shared.IsValidTraceID(id) {
			return id
		}
	}
	return ""
}
