package middleware

import (
	"bytes"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// limitedBuffer keeps the first max bytes written to it and remembers
// whether anything was dropped.
type limitedBuffer struct {
	buf       bytes.Buffer
	max       int
	truncated bool
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	room := b.max - b.buf.Len()
	if room <= 0 {
		if len(p) > 0 {
			b.truncated = true
		}
		return len(p), nil
	}
	if len(p) > room {
		b.buf.Write(p[:room])
		b.truncated = true
		return len(p), nil
	}
	b.buf.Write(p)
	return len(p), nil
}

func (b *limitedBuffer) Bytes() []byte {
	return b.buf.Bytes()
}

// routePattern returns the chi route pattern matched by r, or "unmatched".
// It is only complete once the router has served the request.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

// clientIP strips the port from RemoteAddr. RemoteAddr is the socket peer
// unless the router trusts a proxy and mounts chi's RealIP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func isJSON(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "json")
}

// statusOf treats a handler that never wrote anything as 200 OK, which is
// what net/http sends in that case.
func statusOf(status int) int {
	if status == 0 {
		return http.StatusOK
	}
	return status
}
