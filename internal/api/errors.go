package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/rest-template/internal/api/shared"
	"github.com/phrazzld/rest-template/internal/domain"
	"github.com/phrazzld/rest-template/internal/store"
)

const (
	genericErrorMessage      = "An unexpected error occurred"
	genericBadRequestMessage = "Invalid request"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error kind. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusInternalServerError

	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict

	case errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return genericErrorMessage
	}

	switch {
	// Not found errors
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrProductNotFound):
		return "Product not found"
	case errors.Is(err, domain.ErrNotFound):
		return "Resource not found"

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "Insufficient stock"
	case errors.Is(err, domain.ErrConflict):
		return "Resource conflict"

	// Bad request errors
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID format"
	case errors.Is(err, domain.ErrValidation):
		return "Validation failed"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"
	case errors.Is(err, domain.ErrBadRequest):
		return genericBadRequestMessage

	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return "Forbidden"
	case errors.Is(err, domain.ErrRateLimited):
		return "Rate limit exceeded"

	default:
		return genericErrorMessage
	}
}

// HandleAPIError is the single error exit of every handler. It picks the
// status and client message from the error kind, attaches per-field
// validation errors, and logs the full (redacted) error.
//
// defaultMessage replaces the generic message for internal errors and for
// malformed requests, so the client learns which operation failed.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMessage string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)

	if defaultMessage != "" && (message == genericErrorMessage || message == genericBadRequestMessage) {
		message = defaultMessage
	}

	var opts []shared.ResponseOption
	if fields := shared.FieldErrorsFrom(err); len(fields) > 0 {
		opts = append(opts, shared.WithFieldErrors(fields))
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
