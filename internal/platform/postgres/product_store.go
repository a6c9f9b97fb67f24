package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/rest-template/internal/domain"
	"github.com/phrazzld/rest-template/internal/platform/logger"
	"github.com/phrazzld/rest-template/internal/redact"
	"github.com/phrazzld/rest-template/internal/store"
)

const productColumns = `id, name, description, price, stock, created_at, updated_at`

// PostgresProductStore implements store.ProductStore on PostgreSQL.
type PostgresProductStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProductStore creates a product store over db.
// If logger is nil, the default logger is used.
func NewPostgresProductStore(db store.DBTX, logger *slog.Logger) *PostgresProductStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProductStore{
		db:     db,
		logger: logger.With(slog.String("component", "product_store")),
	}
}

var _ store.ProductStore = (*PostgresProductStore)(nil)

// WithTx implements store.ProductStore.WithTx
func (s *PostgresProductStore) WithTx(tx *sql.Tx) store.ProductStore {
	return &PostgresProductStore{db: tx, logger: s.logger}
}

// Create implements store.ProductStore.Create
func (s *PostgresProductStore) Create(ctx context.Context, product *domain.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create product",
			slog.String("error", redact.Error(err)),
			slog.String("product_id", product.ID.String()))
		return MapError(err)
	}
	return nil
}

// GetByID implements store.ProductStore.GetByID
func (s *PostgresProductStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.get(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetByIDForUpdate implements store.ProductStore.GetByIDForUpdate
func (s *PostgresProductStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.get(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

func (s *PostgresProductStore) get(ctx context.Context, query string, id uuid.UUID) (*domain.Product, error) {
	product, err := scanProduct(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProductNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get product",
			slog.String("error", redact.Error(err)),
			slog.String("product_id", id.String()))
		return nil, MapError(err)
	}
	return product, nil
}

// List implements store.ProductStore.List
func (s *PostgresProductStore) List(ctx context.Context, page domain.Page) ([]*domain.Product, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", MapError(err))
	}

	query := `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`
	rows, err := s.db.QueryContext(ctx, query, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	products := make([]*domain.Product, 0, page.Limit)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, total, nil
}

// Update implements store.ProductStore.Update
func (s *PostgresProductStore) Update(ctx context.Context, product *domain.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, stock = $4, updated_at = $5
		WHERE id = $6
	`
	result, err := s.db.ExecContext(ctx, query,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
		product.UpdatedAt,
		product.ID,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update product",
			slog.String("error", redact.Error(err)),
			slog.String("product_id", product.ID.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrProductNotFound)
}

// Delete implements store.ProductStore.Delete
func (s *PostgresProductStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrProductNotFound)
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
