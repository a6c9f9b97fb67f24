package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/rest-template/internal/domain"
)

// ProductStore defines the interface for product data persistence.
type ProductStore interface {
	// Create saves a new product to the store.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its unique ID.
	// Returns ErrProductNotFound if the product does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)

	// GetByIDForUpdate retrieves a product and locks its row until the
	// surrounding transaction ends. Only meaningful on a store bound with WithTx.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Product, error)

	// List returns one page of products ordered by creation time, newest first,
	// together with the total number of products.
	List(ctx context.Context, page domain.Page) ([]*domain.Product, int, error)

	// Update modifies an existing product.
	// Returns ErrProductNotFound if the product does not exist.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product by its ID.
	// Returns ErrProductNotFound if the product does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new ProductStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ProductStore
}
