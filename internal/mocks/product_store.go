package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/rest-template/internal/domain"
	"github.com/phrazzld/rest-template/internal/store"
	"github.com/stretchr/testify/mock"
)

// ProductStore is a testify mock of store.ProductStore.
type ProductStore struct {
	mock.Mock
}

var _ store.ProductStore = (*ProductStore)(nil)

func (m *ProductStore) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *ProductStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*domain.Product); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProductStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*domain.Product); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProductStore) List(ctx context.Context, page domain.Page) ([]*domain.Product, int, error) {
	args := m.Called(ctx, page)
	products, _ := args.Get(0).([]*domain.Product)
	return products, args.Int(1), args.Error(2)
}

func (m *ProductStore) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *ProductStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// WithTx returns the mock itself.
func (m *ProductStore) WithTx(*sql.Tx) store.ProductStore {
	return m
}
