package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/phrazzld/rest-template/internal/api/shared"
	"github.com/phrazzld/rest-template/internal/platform/logger"
	"github.com/phrazzld/rest-template/internal/redact"
)

const maxPanicFrames = 32

// Recoverer turns a panicking handler into a 500 response carrying the trace
// ID. The panic value and the call stack are logged; the client sees neither.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				// ALLOW-PANIC: net/http relies on this sentinel to abort the connection
				panic(rvr)
			}

			ctx := r.Context()
			logger.FromContext(ctx).ErrorContext(ctx, "panic recovered",
				slog.String("panic", redact.String(fmt.Sprint(rvr))),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Any("stack", callers()))

			shared.RespondWithError(w, r, http.StatusInternalServerError, "An unexpected error occurred")
		}()

		next.ServeHTTP(w, r)
	})
}

// callers lists the function names on the panicking goroutine. File paths
// and arguments are left out so nothing sensitive reaches the log.
func callers() []string {
	pcs := make([]uintptr, maxPanicFrames)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	out := make([]string, 0, n)
	for {
		frame, more := frames.Next()
		out = append(out, fmt.Sprintf("%s:%d", frame.Function, frame.Line))
		if !more {
			break
		}
	}
	return out
}
