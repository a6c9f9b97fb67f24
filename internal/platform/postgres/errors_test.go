package postgres_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/rest-template/internal/domain"
	"github.com/phrazzld/rest-template/internal/platform/postgres"
	"github.com/phrazzld/rest-template/internal/store"
	"github.com/stretchr/testify/assert"
)

func newPgError(code string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		TableName:      "users",
		ColumnName:     "email",
		ConstraintName: "users_email_key",
	}
}

type mockResult struct {
	rowsAffected int64
	err          error
}

func (m mockResult) LastInsertId() (int64, error) { return 0, nil }

func (m mockResult) RowsAffected() (int64, error) { return m.rowsAffected, m.err }

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		errIs  error
		errMsg string
	}{
		{"sql.ErrNoRows", sql.ErrNoRows, domain.ErrNotFound, "entity not found"},
		{"unique violation", newPgError("23505"), domain.ErrConflict, "entity already exists"},
		{"foreign key violation", newPgError("23503"), store.ErrInvalidEntity, "foreign key violation"},
		{"check constraint violation", newPgError("23514"), domain.ErrBadRequest, "check constraint violation (users_email_key)"},
		{"not null violation", newPgError("23502"), store.ErrInvalidEntity, "not null violation (email)"},
		{"numeric value out of range", newPgError("22003"), domain.ErrBadRequest, "numeric value out of range"},
		{"other postgres error", newPgError("42P01"), nil, ""},
		{"generic error", errors.New("generic error"), nil, ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := postgres.MapError(tt.err)
			if tt.errIs == nil {
				assert.Equal(t, tt.err, result)
				return
			}
			assert.ErrorIs(t, result, tt.errIs)
			assert.Contains(t, result.Error(), tt.errMsg)
		})
	}

	assert.Nil(t, postgres.MapError(nil))
}

func TestViolationPredicates(t *testing.T) {
	t.Parallel()

	assert.True(t, postgres.IsUniqueViolation(newPgError("23505")))
	assert.True(t, postgres.IsUniqueViolation(fmt.Errorf("wrapped: %w", newPgError("23505"))))
	assert.False(t, postgres.IsUniqueViolation(newPgError("23514")))
	assert.False(t, postgres.IsUniqueViolation(nil))

	assert.True(t, postgres.IsCheckConstraintViolation(newPgError("23514")))
	assert.False(t, postgres.IsCheckConstraintViolation(errors.New("check")))

	assert.True(t, postgres.IsNotFoundError(sql.ErrNoRows))
	assert.True(t, postgres.IsNotFoundError(store.ErrProductNotFound))
	assert.False(t, postgres.IsNotFoundError(errors.New("missing")))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	assert.Error(t, postgres.CheckRowsAffected(nil, nil))
	assert.NoError(t, postgres.CheckRowsAffected(mockResult{rowsAffected: 1}, store.ErrUserNotFound))
	assert.ErrorIs(t, postgres.CheckRowsAffected(mockResult{}, nil), store.ErrNotFound)
	assert.ErrorIs(t, postgres.CheckRowsAffected(mockResult{}, store.ErrUserNotFound), store.ErrUserNotFound)

	err := postgres.CheckRowsAffected(mockResult{err: errors.New("driver")}, nil)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrNotFound)
}

func TestMapUniqueViolation(t *testing.T) {
	t.Parallel()

	err := postgres.MapUniqueViolation(newPgError("23505"), store.ErrEmailExists)
	assert.ErrorIs(t, err, store.ErrEmailExists)

	err = postgres.MapUniqueViolation(newPgError("23505"), nil)
	assert.ErrorIs(t, err, store.ErrDuplicate)

	err = postgres.MapUniqueViolation(sql.ErrNoRows, store.ErrEmailExists)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NotErrorIs(t, err, store.ErrEmailExists)
}
