package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/rest-template/internal/domain"
	"github.com/shopspring/decimal"
)

// CreateUserRequest defines the payload for POST /api/v1/users.
type CreateUserRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
	Name  string `json:"name"  validate:"required,max=100"`
}

// UpdateUserRequest defines the payload for PUT /api/v1/users/{id}.
// Omitted fields are left unchanged.
type UpdateUserRequest struct {
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Name  *string `json:"name,omitempty"  validate:"omitempty,max=100"`
}

// UserResponse is the public representation of a user.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateProductRequest defines the payload for POST /api/v1/products.
// Price accepts a JSON number or a decimal string.
type CreateProductRequest struct {
	Name        string           `json:"name"                  validate:"required,max=200"`
	Description string           `json:"description,omitempty" validate:"max=2000"`
	Price       *decimal.Decimal `json:"price"                 validate:"required"`
	Stock       *int             `json:"stock,omitempty"       validate:"omitempty,gte=0"`
}

// UpdateProductRequest defines the payload for PUT /api/v1/products/{id}.
// Omitted fields are left unchanged.
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"        validate:"omitempty,max=200"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int             `json:"stock,omitempty"       validate:"omitempty,gte=0"`
}

// AdjustStockRequest defines the payload for POST /api/v1/products/{id}/stock.
// A positive delta restocks, a negative one sells.
type AdjustStockRequest struct {
	Delta *int `json:"delta" validate:"required"`
}

// ProductResponse is the public representation of a product. Price is
// rendered as a decimal string so no precision is lost.
type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// HealthResponse is the data of GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func usersToResponse(users []*domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, userToResponse(user))
	}
	return out
}

func productToResponse(product *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func productsToResponse(products []*domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, product := range products {
		out = append(out, productToResponse(product))
	}
	return out
}
