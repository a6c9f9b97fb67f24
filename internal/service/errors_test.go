package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/rest-template/internal/domain"
	"github.com/phrazzld/rest-template/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestServiceError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewServiceError("get_user", "failed to retrieve user", cause)

	assert.Equal(t, "get_user: failed to retrieve user: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "get_user: no cause", NewServiceError("get_user", "no cause", nil).Error())
}

func TestWrapUnexpected(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wrapped bool
	}{
		{"nil", nil, false},
		{"store not found", store.ErrUserNotFound, false},
		{"wrapped conflict", fmt.Errorf("tx: %w", store.ErrEmailExists), false},
		{"validation", domain.NewValidationError("name", "cannot be empty", nil), false},
		{"insufficient stock", domain.ErrInsufficientStock, false},
		{"driver failure", errors.New("connection reset"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapUnexpected("op", "failed", tt.err)
			if tt.err == nil {
				assert.NoError(t, got)
				return
			}
			var svcErr *ServiceError
			assert.Equal(t, tt.wrapped, errors.As(got, &svcErr))
			assert.ErrorIs(t, got, tt.err)
		})
	}

	already := NewServiceError("inner", "failed", errors.New("x"))
	assert.Same(t, already, wrapUnexpected("outer", "failed", already))
}
