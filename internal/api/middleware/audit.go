package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/rest-template/internal/platform/logger"
	"github.com/phrazzld/rest-template/internal/redact"
)

// AuditConfig controls what the audit log captures.
type AuditConfig struct {
	// Bodies enables capture of JSON request and response bodies.
	Bodies bool
	// MaxBodyBytes caps each captured body.
	MaxBodyBytes int
	// QuietPaths are logged at DEBUG instead of INFO.
	QuietPaths []string
}

// DefaultQuietPaths are probed by infrastructure often enough to drown out
// real traffic.
var DefaultQuietPaths = []string{"/health", "/metrics"}

// Audit logs one "http request" record per request once the response is
// complete. Bodies, headers and query strings are sanitized before logging.
func Audit(cfg AuditConfig) func(http.Handler) http.Handler {
	quiet := make(map[string]bool, len(cfg.QuietPaths))
	for _, path := range cfg.QuietPaths {
		quiet[path] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			captureBodies := cfg.Bodies && cfg.MaxBodyBytes > 0

			var requestBody []byte
			var requestTruncated bool
			if captureBodies && r.Body != nil && isJSON(r.Header.Get("Content-Type")) {
				requestBody, requestTruncated = peekBody(r, cfg.MaxBodyBytes)
			}

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			var responseBody *limitedBuffer
			if captureBodies {
				responseBody = &limitedBuffer{max: cfg.MaxBodyBytes}
				ww.Tee(responseBody)
			}

			next.ServeHTTP(ww, r)

			status := statusOf(ww.Status())
			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("route", routePattern(r)),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000),
				slog.Int("bytes", ww.BytesWritten()),
				slog.String("remote_ip", clientIP(r)),
				slog.String("user_agent", redact.String(r.UserAgent())),
			}
			if r.URL.RawQuery != "" {
				attrs = append(attrs, slog.String("query", redact.Query(r.URL.RawQuery)))
			}
			if captureBodies {
				attrs = append(attrs, slog.Any("headers", redact.Headers(r.Header)))
				if len(requestBody) > 0 {
					attrs = append(attrs, slog.String("request_body", redact.JSON(requestBody, requestTruncated)))
				}
				if isJSON(ww.Header().Get("Content-Type")) && len(responseBody.Bytes()) > 0 {
					attrs = append(attrs, slog.String("response_body",
						redact.JSON(responseBody.Bytes(), responseBody.truncated)))
				}
			}

			ctx := r.Context()
			logger.FromContext(ctx).LogAttrs(ctx, auditLevel(status, quiet[r.URL.Path]), "http request", attrs...)
		})
	}
}

// peekBody reads up to max bytes of the request body for logging and puts
// them back in front of the remaining stream.
func peekBody(r *http.Request, max int) ([]byte, bool) {
	captured, err := io.ReadAll(io.LimitReader(r.Body, int64(max)+1))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(captured), r.Body), r.Body}
	if err != nil {
		return nil, false
	}
	if len(captured) > max {
		return captured[:max], true
	}
	return captured, false
}

func auditLevel(status int, quiet bool) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	case quiet:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
