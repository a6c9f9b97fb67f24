package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// MaxUserNameLength is the longest name a user may have, in characters.
const MaxUserNameLength = 100

var fieldValidator = validator.New()

// User represents a registered user.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given email and name.
// It generates a new UUID for the user ID and sets the creation/update timestamps.
// The email is trimmed and lower-cased. Returns an error if validation fails.
func NewUser(email, name string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Email:     NormalizeEmail(email),
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// NormalizeEmail returns the canonical form used for uniqueness checks.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks if the User has valid data.
// Returns a *ValidationError for the first invalid field.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}

	if u.Email == "" {
		return NewValidationError("email", "cannot be empty", nil)
	}

	if !IsValidEmail(u.Email) {
		return NewValidationError("email", "has invalid format", nil)
	}

	if strings.TrimSpace(u.Name) == "" {
		return NewValidationError("name", "cannot be empty", nil)
	}

	if utf8.RuneCountInString(u.Name) > MaxUserNameLength {
		return NewValidationError("name", "is too long", nil)
	}

	return nil
}

// IsValidEmail reports whether email is a syntactically valid address.
func IsValidEmail(email string) bool {
	return fieldValidator.Var(email, "required,email") == nil
}

// ApplyUpdate changes the non-nil fields and bumps UpdatedAt.
// The result is validated; on error the user is left unchanged.
func (u *User) ApplyUpdate(email, name *string) error {
	updated := *u
	if email != nil {
		updated.Email = NormalizeEmail(*email)
	}
	if name != nil {
		updated.Name = strings.TrimSpace(*name)
	}
	if err := updated.Validate(); err != nil {
		return err
	}
	updated.UpdatedAt = time.Now().UTC()
	*u = updated
	return nil
}
