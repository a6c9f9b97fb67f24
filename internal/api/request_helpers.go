package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/rest-template/internal/api/shared"
	"github.com/phrazzld/rest-template/internal/domain"
)

// getPathUUID extracts a UUID from the URL path parameters.
// It parses and validates the UUID, handling common error cases.
//
// Parameters:
//   - r: The HTTP request
//   - paramName: The name of the path parameter to extract
//
// Returns:
//   - (uuid.UUID, nil): The parsed UUID if valid
//   - (uuid.UUID{}, error): A zero UUID and appropriate error if parameter is missing or invalid
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// getPage reads the page and limit query parameters. Absent parameters take
// their defaults; present but malformed or out-of-range ones are errors.
func getPage(r *http.Request) (domain.Page, error) {
	page := domain.DefaultPageRequest()
	query := r.URL.Query()

	var errs domain.ValidationErrors
	if values, ok := query["page"]; ok {
		n, err := strconv.Atoi(values[0])
		if err != nil {
			errs = append(errs, domain.NewValidationError("page", "must be an integer", nil))
		}
		page.Page = n
	}
	if values, ok := query["limit"]; ok {
		n, err := strconv.Atoi(values[0])
		if err != nil {
			errs = append(errs, domain.NewValidationError("limit", "must be an integer", nil))
		}
		page.Limit = n
	}
	if len(errs) > 0 {
		return domain.Page{}, errs
	}

	return domain.NewPage(page.Page, page.Limit)
}

// metaFor builds the envelope metadata of a list response.
func metaFor(page domain.Page, total int) shared.Meta {
	return shared.Meta{Page: page.Page, Limit: page.Limit, Total: total}
}
