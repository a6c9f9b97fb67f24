package shared

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/phrazzld/rest-template/internal/domain"
	"github.com/phrazzld/rest-template/internal/platform/logger"
	"github.com/phrazzld/rest-template/internal/redact"
)

// TraceIDHeader carries the trace ID on requests and responses.
const TraceIDHeader = "X-Trace-ID"

// Envelope is the body of every JSON response.
type Envelope struct {
	Success bool         `json:"success"`
	Data    interface{}  `json:"data,omitempty"`
	Message string       `json:"message,omitempty"`
	Meta    *Meta        `json:"meta,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
	TraceID string       `json:"trace_id,omitempty"`
}

// Meta describes the page returned by a list endpoint.
type Meta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// FieldError reports one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ResponseOption defines a function to customize response behavior.
type ResponseOption func(*responseOptions)

type responseOptions struct {
	elevateLogLevel bool
	fieldErrors     []FieldError
}

// WithElevatedLogLevel returns a ResponseOption that raises 4xx errors to WARN level
// instead of the default DEBUG level. Use for important operational issues like
// repeated auth failures.
func WithElevatedLogLevel() ResponseOption {
	return func(opts *responseOptions) {
		opts.elevateLogLevel = true
	}
}

// WithFieldErrors attaches per-field validation errors to the envelope.
func WithFieldErrors(fields []FieldError) ResponseOption {
	return func(opts *responseOptions) {
		opts.fieldErrors = fields
	}
}

// RespondWithJSON writes data as a JSON response with the given status code.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		logger.FromContext(r.Context()).ErrorContext(r.Context(), "failed to encode JSON response",
			"error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"message":"An unexpected error occurred"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// RespondWithData writes a success envelope around data.
func RespondWithData(w http.ResponseWriter, r *http.Request, status int, data interface{}, message string) {
	RespondWithJSON(w, r, status, Envelope{Success: true, Data: data, Message: message})
}

// RespondWithList writes a success envelope with pagination metadata.
func RespondWithList(w http.ResponseWriter, r *http.Request, data interface{}, meta Meta) {
	RespondWithJSON(w, r, http.StatusOK, Envelope{Success: true, Data: data, Meta: &meta})
}

// RespondWithError writes an error envelope with the given status code and message.
// The trace ID from the request context is echoed in the body.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	RespondWithErrorAndLog(w, r, status, message, nil)
}

// RespondWithErrorAndLog writes an error envelope and logs the detailed error.
// The client only sees userMessage; err is redacted and logged.
//
// Log level strategy:
//   - 5xx errors: ERROR
//   - 429 Too Many Requests: WARN
//   - other 4xx errors: DEBUG, or WARN with WithElevatedLogLevel
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
	opts ...ResponseOption,
) {
	ctx := r.Context()
	traceID := GetTraceID(ctx)

	responseOpts := responseOptions{}
	for _, opt := range opts {
		opt(&responseOpts)
	}

	logAttrs := []slog.Attr{
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}
	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	logger.FromContext(ctx).LogAttrs(ctx, ErrorLogLevel(status, responseOpts.elevateLogLevel),
		"API error response", logAttrs...)

	RespondWithJSON(w, r, status, Envelope{
		Success: false,
		Message: userMessage,
		Errors:  responseOpts.fieldErrors,
		TraceID: traceID,
	})
}

// ErrorLogLevel returns the level an error response with status is logged at.
func ErrorLogLevel(status int, elevated bool) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status == http.StatusTooManyRequests:
		return slog.LevelWarn
	case elevated && status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelDebug
	}
}

// FieldErrorsFrom extracts per-field validation errors from err, or nil.
func FieldErrorsFrom(err error) []FieldError {
	var many domain.ValidationErrors
	if errors.As(err, &many) {
		out := make([]FieldError, 0, len(many))
		for _, ve := range many {
			out = append(out, FieldError{Field: ve.Field, Message: ve.Message})
		}
		return out
	}

	var one *domain.ValidationError
	if errors.As(err, &one) && one.Field != "" {
		return []FieldError{{Field: one.Field, Message: one.Message}}
	}
	return nil
}
