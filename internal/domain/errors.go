package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error the application surfaces to clients wraps one of
// these; the API layer maps them to HTTP status codes.
var (
	// ErrNotFound is returned when a requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an operation conflicts with current state,
	// such as a duplicate unique value.
	ErrConflict = errors.New("conflict")

	// ErrBadRequest is returned when the request itself is malformed.
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized is returned when credentials are missing or invalid.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when valid credentials lack the required permission.
	ErrForbidden = errors.New("forbidden")

	// ErrRateLimited is returned when a client exceeds its request budget.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity or request fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = fmt.Errorf("%w: validation failed", ErrBadRequest)

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = fmt.Errorf("%w: invalid ID", ErrBadRequest)

	// ErrInsufficientStock is returned when a stock adjustment would make
	// the stock negative.
	ErrInsufficientStock = fmt.Errorf("%w: insufficient stock", ErrConflict)
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for field. If err is nil the
// error wraps ErrValidation.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{Field: field, Message: message, Err: err}
}

// ValidationErrors collects several field errors. It unwraps to ErrValidation.
type ValidationErrors []*ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ErrValidation.Error()
	}
	msg := e[0].Error()
	if len(e) > 1 {
		msg = fmt.Sprintf("%s (and %d more)", msg, len(e)-1)
	}
	return msg
}

// Unwrap returns ErrValidation.
func (e ValidationErrors) Unwrap() error {
	return ErrValidation
}
