package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/rest-template/internal/domain"
	"github.com/phrazzld/rest-template/internal/events"
	"github.com/phrazzld/rest-template/internal/platform/logger"
	"github.com/phrazzld/rest-template/internal/store"
	"github.com/shopspring/decimal"
)

// ProductInput holds the fields for a new product.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
}

// ProductService provides product catalog and inventory operations.
type ProductService interface {
	CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListProducts(ctx context.Context, page domain.Page) ([]*domain.Product, int, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, update domain.ProductUpdate) (*domain.Product, error)

	// AdjustStock adds delta to the stock under a row lock. Returns
	// domain.ErrInsufficientStock when the stock would go negative.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*domain.Product, error)

	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// ProductServiceImpl implements ProductService.
type ProductServiceImpl struct {
	productStore      store.ProductStore
	db                *sql.DB
	emitter           events.EventEmitter
	lowStockThreshold int
	logger            *slog.Logger
}

// NewProductService creates a ProductService. Products whose stock drops to
// lowStockThreshold or below raise a product.stock_low event.
func NewProductService(
	productStore store.ProductStore,
	db *sql.DB,
	emitter events.EventEmitter,
	lowStockThreshold int,
	logger *slog.Logger,
) *ProductServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	return &ProductServiceImpl{
		productStore:      productStore,
		db:                db,
		emitter:           emitter,
		lowStockThreshold: lowStockThreshold,
		logger:            logger.With("component", "product_service"),
	}
}

var _ ProductService = (*ProductServiceImpl)(nil)

type productEventPayload struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name,omitempty"`
	Stock     *int      `json:"stock,omitempty"`
}

type stockLowPayload struct {
	ProductID uuid.UUID `json:"product_id"`
	Stock     int       `json:"stock"`
	Threshold int       `json:"threshold"`
}

// CreateProduct validates and stores a new product.
func (s *ProductServiceImpl) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	product, err := domain.NewProduct(input.Name, input.Description, input.Price, input.Stock)
	if err != nil {
		return nil, err
	}

	if err := s.productStore.Create(ctx, product); err != nil {
		return nil, wrapUnexpected("create_product", "failed to create product", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).InfoContext(ctx, "product created", "product_id", product.ID)
	publish(ctx, s.emitter, s.logger, events.TypeProductCreated, productEventPayload{
		ProductID: product.ID,
		Name:      product.Name,
		Stock:     &product.Stock,
	})
	return product, nil
}

// GetProduct retrieves a product by ID.
func (s *ProductServiceImpl) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.productStore.GetByID(ctx, id)
	if err != nil {
		return nil, wrapUnexpected("get_product", "failed to retrieve product", err)
	}
	return product, nil
}

// ListProducts returns one page of products and the total count.
func (s *ProductServiceImpl) ListProducts(ctx context.Context, page domain.Page) ([]*domain.Product, int, error) {
	products, total, err := s.productStore.List(ctx, page)
	if err != nil {
		return nil, 0, wrapUnexpected("list_products", "failed to list products", err)
	}
	return products, total, nil
}

// UpdateProduct applies a partial update inside a transaction.
func (s *ProductServiceImpl) UpdateProduct(
	ctx context.Context,
	id uuid.UUID,
	update domain.ProductUpdate,
) (*domain.Product, error) {
	var updated *domain.Product
	var previousStock int

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.productStore.WithTx(tx)

		product, err := txStore.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		previousStock = product.Stock

		if err := product.ApplyUpdate(update); err != nil {
			return err
		}
		if err := txStore.Update(ctx, product); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, wrapUnexpected("update_product", "failed to update product", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).InfoContext(ctx, "product updated", "product_id", id)
	publish(ctx, s.emitter, s.logger, events.TypeProductUpdated, productEventPayload{
		ProductID: updated.ID,
		Name:      updated.Name,
		Stock:     &updated.Stock,
	})
	s.checkLowStock(ctx, updated, previousStock)
	return updated, nil
}

// AdjustStock implements ProductService.AdjustStock
func (s *ProductServiceImpl) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*domain.Product, error) {
	if delta == 0 {
		return nil, domain.NewValidationError("delta", "must not be zero", nil)
	}

	var adjusted *domain.Product
	var previousStock int

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.productStore.WithTx(tx)

		product, err := txStore.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		previousStock = product.Stock

		if err := product.AdjustStock(delta); err != nil {
			return err
		}
		if err := txStore.Update(ctx, product); err != nil {
			return err
		}
		adjusted = product
		return nil
	})
	if err != nil {
		return nil, wrapUnexpected("adjust_stock", "failed to adjust stock", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).InfoContext(ctx, "stock adjusted",
		"product_id", id,
		"delta", delta,
		"stock", adjusted.Stock)
	publish(ctx, s.emitter, s.logger, events.TypeProductUpdated, productEventPayload{
		ProductID: adjusted.ID,
		Stock:     &adjusted.Stock,
	})
	s.checkLowStock(ctx, adjusted, previousStock)
	return adjusted, nil
}

// DeleteProduct deletes a product by ID.
func (s *ProductServiceImpl) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.productStore.Delete(ctx, id); err != nil {
		return wrapUnexpected("delete_product", "failed to delete product", err)
	}
	publish(ctx, s.emitter, s.logger, events.TypeProductDeleted, productEventPayload{ProductID: id})
	return nil
}

// checkLowStock raises product.stock_low when stock decreased to the threshold or below.
func (s *ProductServiceImpl) checkLowStock(ctx context.Context, product *domain.Product, previousStock int) {
	if product.Stock >= previousStock || !product.IsLowStock(s.lowStockThreshold) {
		return
	}
	publish(ctx, s.emitter, s.logger, events.TypeProductStockLow, stockLowPayload{
		ProductID: product.ID,
		Stock:     product.Stock,
		Threshold: s.lowStockThreshold,
	})
}
