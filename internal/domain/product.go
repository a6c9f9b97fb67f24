package domain

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product field limits.
const (
	MaxProductNameLength        = 200
	MaxProductDescriptionLength = 2000
	PriceScale                  = 2

	// MaxStock is the largest stock level the products table can hold.
	MaxStock = math.MaxInt32
)

// MaxPrice is the exclusive upper bound of a price, from NUMERIC(12,2).
var MaxPrice = decimal.New(1, 10)

// Product represents an item for sale with its current stock level.
type Product struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewProduct creates a new Product with a fresh ID and timestamps.
// Returns an error if validation fails.
func NewProduct(name, description string, price decimal.Decimal, stock int) (*Product, error) {
	now := time.Now().UTC()
	product := &Product{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Price:       price,
		Stock:       stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	return product, nil
}

// Validate checks if the Product has valid data.
func (p *Product) Validate() error {
	if p.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}

	if strings.TrimSpace(p.Name) == "" {
		return NewValidationError("name", "cannot be empty", nil)
	}

	if utf8.RuneCountInString(p.Name) > MaxProductNameLength {
		return NewValidationError("name", "is too long", nil)
	}

	if utf8.RuneCountInString(p.Description) > MaxProductDescriptionLength {
		return NewValidationError("description", "is too long", nil)
	}

	if p.Price.IsNegative() {
		return NewValidationError("price", "must not be negative", nil)
	}

	if p.Price.GreaterThanOrEqual(MaxPrice) {
		return NewValidationError("price", "must be less than 10000000000", nil)
	}

	if !p.Price.Equal(p.Price.Truncate(PriceScale)) {
		return NewValidationError("price", "must have at most 2 decimal places", nil)
	}

	if p.Stock < 0 {
		return NewValidationError("stock", "must not be negative", nil)
	}

	if p.Stock > MaxStock {
		return NewValidationError("stock", "is too large", nil)
	}

	return nil
}

// ProductUpdate lists the fields of a partial product update; nil fields are kept.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
}

// ApplyUpdate changes the non-nil fields and bumps UpdatedAt.
// The result is validated; on error the product is left unchanged.
func (p *Product) ApplyUpdate(update ProductUpdate) error {
	updated := *p
	if update.Name != nil {
		updated.Name = strings.TrimSpace(*update.Name)
	}
	if update.Description != nil {
		updated.Description = strings.TrimSpace(*update.Description)
	}
	if update.Price != nil {
		updated.Price = *update.Price
	}
	if update.Stock != nil {
		updated.Stock = *update.Stock
	}
	if err := updated.Validate(); err != nil {
		return err
	}
	updated.UpdatedAt = time.Now().UTC()
	*p = updated
	return nil
}

// AdjustStock adds delta (which may be negative) to the stock level.
// Returns ErrInsufficientStock, leaving the product unchanged, when the
// result would be negative, and a stock validation error when it would
// exceed MaxStock.
func (p *Product) AdjustStock(delta int) error {
	if delta > MaxStock-p.Stock {
		return NewValidationError("delta", "would raise stock above the maximum", nil)
	}
	if delta < -p.Stock {
		return ErrInsufficientStock
	}
	p.Stock += delta
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// IsLowStock reports whether stock is at or below threshold.
func (p *Product) IsLowStock(threshold int) bool {
	return p.Stock <= threshold
}
