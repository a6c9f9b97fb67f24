package shared

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/phrazzld/rest-template/internal/domain"
)

// MaxRequestBodyBytes caps the size of decoded request bodies.
const MaxRequestBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report json field names in validation errors.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// DecodeJSON decodes the request body into v. Unknown fields, trailing data
// and oversized bodies are rejected. All failures wrap domain.ErrBadRequest.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return fmt.Errorf("%w: request body is required", domain.ErrBadRequest)
	}

	body := http.MaxBytesReader(w, r.Body, MaxRequestBodyBytes)
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: request body is required", domain.ErrBadRequest)
		case errors.As(err, &maxErr):
			return fmt.Errorf("%w: request body too large", domain.ErrBadRequest)
		default:
			return fmt.Errorf("%w: invalid JSON: %v", domain.ErrBadRequest, err)
		}
	}

	if decoder.More() {
		return fmt.Errorf("%w: request body must contain a single JSON object", domain.ErrBadRequest)
	}
	return nil
}

// ValidateRequest validates v with its struct tags. Failures are returned as
// domain.ValidationErrors, one entry per invalid field.
func ValidateRequest(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	out := make(domain.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, domain.NewValidationError(fe.Field(), describe(fe), nil))
	}
	return out
}

// DecodeAndValidate decodes the body into v and validates it.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if err := DecodeJSON(w, r, v); err != nil {
		return err
	}
	return ValidateRequest(v)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "ne":
		return fmt.Sprintf("must not be %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
