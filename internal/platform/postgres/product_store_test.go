package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/rest-template/internal/domain"
	"github.com/phrazzld/rest-template/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productRowColumns = []string{"id", "name", "description", "price", "stock", "created_at", "updated_at"}

func newProductStoreWithMock(t *testing.T) (*PostgresProductStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPostgresProductStore(db, nil), mock
}

func TestPostgresProductStore_Create(t *testing.T) {
	s, mock := newProductStoreWithMock(t)
	product, err := domain.NewProduct("Widget", "Blue", decimal.RequireFromString("9.99"), 3)
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO products")).
		WithArgs(product.ID, "Widget", "Blue", product.Price, 3, product.CreatedAt, product.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, s.Create(context.Background(), product))
}

func TestPostgresProductStore_CreateCheckViolation(t *testing.T) {
	s, mock := newProductStoreWithMock(t)
	product, err := domain.NewProduct("Widget", "", decimal.NewFromInt(1), 0)
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO products")).
		WillReturnError(&pgconn.PgError{Code: checkViolationCode, ConstraintName: "products_stock_check"})

	err = s.Create(context.Background(), product)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func TestPostgresProductStore_Get(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		s, mock := newProductStoreWithMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM products WHERE id = $1")).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(productRowColumns).
				AddRow(id.String(), "Widget", "", "12.50", 7, now, now))

		product, err := s.GetByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, product.Price.Equal(decimal.RequireFromString("12.5")))
		assert.Equal(t, 7, product.Stock)
	})

	t.Run("for update locks row", func(t *testing.T) {
		s, mock := newProductStoreWithMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 FOR UPDATE")).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(productRowColumns).
				AddRow(id.String(), "Widget", "", "1.00", 1, now, now))

		_, err := s.GetByIDForUpdate(ctx, id)
		assert.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		s, mock := newProductStoreWithMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM products WHERE id = $1")).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(productRowColumns))

		_, err := s.GetByID(ctx, id)
		assert.ErrorIs(t, err, store.ErrProductNotFound)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestPostgresProductStore_List(t *testing.T) {
	s, mock := newProductStoreWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $1 OFFSET $2")).
		WithArgs(domain.DefaultLimit, 0).
		WillReturnRows(sqlmock.NewRows(productRowColumns))

	products, total, err := s.List(context.Background(), domain.DefaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestPostgresProductStore_UpdateWithinTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	product, err := domain.NewProduct("Widget", "", decimal.NewFromInt(2), 5)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products")).
		WithArgs("Widget", "", product.Price, 5, sqlmock.AnyArg(), product.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	s := NewPostgresProductStore(db, nil).WithTx(tx)
	require.NoError(t, s.Update(context.Background(), product))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProductStore_Delete(t *testing.T) {
	s, mock := newProductStoreWithMock(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products WHERE id = $1")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.Delete(context.Background(), id), store.ErrProductNotFound)
}
