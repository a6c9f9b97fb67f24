package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name         string
		ping         pingerFunc
		wantStatus   int
		wantSuccess  bool
		wantDatabase string
	}{
		{
			name:         "database up",
			ping:         func(context.Context) error { return nil },
			wantStatus:   http.StatusOK,
			wantSuccess:  true,
			wantDatabase: "up",
		},
		{
			name:         "database down",
			ping:         func(context.Context) error { return errors.New("dial tcp 10.0.0.5:5432: connection refused") },
			wantStatus:   http.StatusServiceUnavailable,
			wantSuccess:  false,
			wantDatabase: "down",
		},
		{
			name: "ping times out",
			ping: func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
			wantStatus:   http.StatusServiceUnavailable,
			wantSuccess:  false,
			wantDatabase: "down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.ping, 20*time.Millisecond)
			rec := httptest.NewRecorder()

			h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var env struct {
				Success bool           `json:"success"`
				Data    HealthResponse `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.Equal(t, tt.wantSuccess, env.Success)
			assert.Equal(t, tt.wantDatabase, env.Data.Database)
			assert.NotContains(t, rec.Body.String(), "10.0.0.5")
		})
	}
}

func TestNewHealthHandlerDefaultTimeout(t *testing.T) {
	h := NewHealthHandler(pingerFunc(func(context.Context) error { return nil }), 0)
	assert.Equal(t, DefaultHealthTimeout, h.timeout)
}
