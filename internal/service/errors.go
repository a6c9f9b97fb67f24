package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/rest-template/internal/domain"
)

// ServiceError wraps an unexpected failure with the operation that hit it.
// Expected conditions (not found, conflict, validation) are returned as the
// original sentinel errors instead.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// expectedKinds are the error kinds a caller can act on.
var expectedKinds = []error{
	domain.ErrNotFound,
	domain.ErrConflict,
	domain.ErrBadRequest,
	domain.ErrUnauthorized,
	domain.ErrForbidden,
	domain.ErrRateLimited,
}

// IsExpected reports whether err belongs to one of the domain error kinds.
func IsExpected(err error) bool {
	for _, kind := range expectedKinds {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// wrapUnexpected passes expected errors through and wraps everything else.
func wrapUnexpected(operation, message string, err error) error {
	if err == nil || IsExpected(err) {
		return err
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return err
	}
	return NewServiceError(operation, message, err)
}
