package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/rest-template/internal/config"
	"github.com/stretchr/testify/assert"
)

func newTestLimiter(rps float64, burst int) (*RateLimiter, *time.Time) {
	rl := NewRateLimiter(config.RateLimitConfig{
		Enabled:           true,
		RequestsPerSecond: rps,
		Burst:             burst,
		IdleTTL:           time.Minute,
	})
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	return rl, &now
}

func request(handler http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_Handler(t *testing.T) {
	rl, now := newTestLimiter(0.5, 2)
	handler := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	assert.Equal(t, http.StatusOK, request(handler, "198.51.100.1:1000").Code)
	assert.Equal(t, http.StatusOK, request(handler, "198.51.100.1:1001").Code)

	rec := request(handler, "198.51.100.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), `"message":"Rate limit exceeded"`)

	// Other clients have their own bucket.
	assert.Equal(t, http.StatusOK, request(handler, "198.51.100.2:1000").Code)

	*now = now.Add(2 * time.Second)
	assert.Equal(t, http.StatusOK, request(handler, "198.51.100.1:1003").Code)
}

func TestRateLimiter_ZeroRate(t *testing.T) {
	rl, _ := newTestLimiter(0, 1)

	allowed, _ := rl.allow("10.0.0.1")
	assert.True(t, allowed)
	allowed, retryAfter := rl.allow("10.0.0.1")
	assert.False(t, allowed)
	assert.Equal(t, 1, retryAfter)
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl, now := newTestLimiter(10, 10)

	rl.allow("10.0.0.1")
	*now = now.Add(45 * time.Second)
	rl.allow("10.0.0.2")
	assert.Equal(t, 2, rl.Len())

	*now = now.Add(30 * time.Second)
	assert.Equal(t, 1, rl.Cleanup())
	assert.Equal(t, 1, rl.Len())

	*now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, rl.Cleanup())
	assert.Equal(t, 0, rl.Len())
}

func TestNewRateLimiterDefaults(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{RequestsPerSecond: 1})
	assert.Equal(t, DefaultIdleTTL, rl.idleTTL)
	assert.Equal(t, 1, rl.burst)
}

func TestRateLimiter_KeysOnSocketPeer(t *testing.T) {
	rl, _ := newTestLimiter(0.001, 1)
	handler := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	allowed := 0
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		req.RemoteAddr = "198.51.100.9:4000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("10.0.1.%d", i))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code == http.StatusOK {
			allowed++
		}
	}

	assert.Equal(t, 1, allowed)
	assert.Equal(t, 1, rl.Len())
}
