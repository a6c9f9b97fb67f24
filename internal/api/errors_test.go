package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/rest-template/internal/api/shared"
	"github.com/phrazzld/rest-template/internal/domain"
	"github.com/phrazzld/rest-template/internal/platform/logger"
	"github.com/phrazzld/rest-template/internal/service"
	"github.com/phrazzld/rest-template/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"nil error", nil, http.StatusInternalServerError},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"product not found", store.ErrProductNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", store.ErrNotFound), http.StatusNotFound},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"insufficient stock", domain.ErrInsufficientStock, http.StatusConflict},
		{"validation", domain.NewValidationError("name", "is required", nil), http.StatusBadRequest},
		{"invalid id", domain.ErrInvalidID, http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"rate limited", domain.ErrRateLimited, http.StatusTooManyRequests},
		{"service error", service.NewServiceError("op", "failed", errors.New("boom")), http.StatusInternalServerError},
		{"unknown error", errors.New("something else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedStatus, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, "An unexpected error occurred"},
		{"user not found", store.ErrUserNotFound, "User not found"},
		{"product not found", store.ErrProductNotFound, "Product not found"},
		{"generic not found", domain.ErrNotFound, "Resource not found"},
		{"email exists", store.ErrEmailExists, "Email already exists"},
		{"insufficient stock", domain.ErrInsufficientStock, "Insufficient stock"},
		{"invalid id", domain.NewValidationError("id", "has invalid format", domain.ErrInvalidID), "Invalid ID format"},
		{"validation", domain.ValidationErrors{domain.NewValidationError("a", "b", nil)}, "Validation failed"},
		{"invalid entity", store.ErrInvalidEntity, "Invalid entity data"},
		{"bare bad request", fmt.Errorf("%w: invalid JSON", domain.ErrBadRequest), "Invalid request"},
		{"database error", errors.New("pq: password authentication failed for user admin"), "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetSafeErrorMessage(tt.err))
		})
	}
}

func TestHandleAPIError(t *testing.T) {
	sensitive := errors.New("query failed: postgres://app:hunter2@db:5432/app")

	tests := []struct {
		name        string
		err         error
		fallback    string
		wantStatus  int
		wantMessage string
		wantLevel   string
	}{
		{"internal uses fallback", sensitive, "Failed to load widget", http.StatusInternalServerError, "Failed to load widget", "ERROR"},
		{"internal without fallback", sensitive, "", http.StatusInternalServerError, "An unexpected error occurred", "ERROR"},
		{"specific message wins", store.ErrUserNotFound, "Failed to get user", http.StatusNotFound, "User not found", "DEBUG"},
		{"forbidden is elevated", domain.ErrForbidden, "", http.StatusForbidden, "Forbidden", "WARN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, buf := logger.GetTestLogger(t)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/widgets", nil)
			ctx := logger.WithLogger(shared.SetTraceID(req.Context(), "trace-handle-01"), log)
			req = req.WithContext(ctx)
			rec := httptest.NewRecorder()

			HandleAPIError(rec, req, tt.err, tt.fallback)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), `"message":"`+tt.wantMessage+`"`)
			assert.Contains(t, rec.Body.String(), `"trace_id":"trace-handle-01"`)
			assert.NotContains(t, rec.Body.String(), "hunter2")

			entry := buf.FindEntry("API error response")
			require.NotNil(t, entry)
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.NotContains(t, buf.String(), "hunter2")
		})
	}
}
