package shared

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/phrazzld/rest-template/internal/platform/logger"
)

// ContextKey is the type of context keys owned by this package.
type ContextKey string

const (
	// SubjectContextKey is the context key for the authenticated token subject.
	SubjectContextKey ContextKey = "subject"

	// TraceIDLength is the number of bytes used to generate the trace ID
	TraceIDLength = 16 // 32 hex characters

	// MinTraceIDLength and MaxTraceIDLength bound accepted inbound trace IDs.
	MinTraceIDLength = 8
	MaxTraceIDLength = 128
)

var fallbackCounter atomic.Uint32

// SetTraceID stores traceID in the context.
func SetTraceID(ctx context.Context, traceID string) context.Context {
	return logger.WithTraceID(ctx, traceID)
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	return logger.TraceIDFromContext(ctx)
}

// WithSubject stores the authenticated subject in the context.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, SubjectContextKey, subject)
}

// GetSubject returns the authenticated subject, or "" for anonymous requests.
func GetSubject(ctx context.Context) string {
	subject, _ := ctx.Value(SubjectContextKey).(string)
	return subject
}

// IsValidTraceID reports whether an inbound trace ID can be reused: 8 to 128
// characters from [A-Za-z0-9._-].
func IsValidTraceID(id string) bool {
	if len(id) < MinTraceIDLength || len(id) > MaxTraceIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '.', c == '_', c == '-':
		default:
			return false
		}
	}
	return true
}

// NewTraceID creates a random 32-character hex trace ID.
// If crypto/rand fails it falls back to a time-based ID, never a static value.
func NewTraceID() string {
	b := make([]byte, TraceIDLength)
	n, err := rand.Read(b)

	if err != nil || n != TraceIDLength {
		slog.Error("failed to generate secure random trace ID",
			"error", err,
			"bytes_read", n,
			"fallback", "time-based generation")
		return fallbackTraceID()
	}

	return hex.EncodeToString(b)
}

// fallbackTraceID combines the current time with a process-wide counter so
// two IDs generated in the same nanosecond still differ.
func fallbackTraceID() string {
	b := make([]byte, TraceIDLength)
	now := time.Now()
	binary.BigEndian.PutUint64(b[:8], uint64(now.UnixNano()))
	binary.BigEndian.PutUint32(b[8:12], fallbackCounter.Add(1))
	binary.BigEndian.PutUint32(b[12:16], uint32(now.Unix()))
	return hex.EncodeToString(b)
}
