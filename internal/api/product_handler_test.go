package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/phrazzld/rest-template/internal/domain"
	"github.com/phrazzld/rest-template/internal/service"
	"github.com/phrazzld/rest-template/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testProduct() *domain.Product {
	now := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	return &domain.Product{
		ID:          uuid.MustParse("3b241101-e2bb-4255-8caf-4136c566a962"),
		Name:        "Widget",
		Description: "A small widget",
		Price:       decimal.RequireFromString("19.99"),
		Stock:       12,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestProductHandler_CreateProduct(t *testing.T) {
	t.Run("price as string", func(t *testing.T) {
		svc := new(mockProductService)
		svc.On("CreateProduct", mock.Anything, mock.MatchedBy(func(in service.ProductInput) bool {
			return in.Name == "Widget" && in.Price.Equal(decimal.RequireFromString("19.99")) && in.Stock == 12
		})).Return(testProduct(), nil)

		rec, env := serve(t, productRouter(svc), http.MethodPost, "/products",
			`{"name":"Widget","description":"A small widget","price":"19.99","stock":12}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "Product created", env.Message)

		var data map[string]interface{}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, "19.99", data["price"])
		assert.Equal(t, float64(12), data["stock"])
		svc.AssertExpectations(t)
	})

	t.Run("price as number and default stock", func(t *testing.T) {
		svc := new(mockProductService)
		svc.On("CreateProduct", mock.Anything, mock.MatchedBy(func(in service.ProductInput) bool {
			return in.Price.Equal(decimal.RequireFromString("5.5")) && in.Stock == 0
		})).Return(testProduct(), nil)

		rec, _ := serve(t, productRouter(svc), http.MethodPost, "/products", `{"name":"Widget","price":5.5}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("missing price and negative stock", func(t *testing.T) {
		svc := new(mockProductService)

		rec, env := serve(t, productRouter(svc), http.MethodPost, "/products", `{"name":"Widget","stock":-1}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		fields := map[string]string{}
		for _, fe := range env.Errors {
			fields[fe.Field] = fe.Message
		}
		assert.Equal(t, "is required", fields["price"])
		assert.Equal(t, "must be greater than or equal to 0", fields["stock"])
	})

	t.Run("domain rejects price precision", func(t *testing.T) {
		svc := new(mockProductService)
		svc.On("CreateProduct", mock.Anything, mock.Anything).
			Return(nil, domain.NewValidationError("price", "must have at most 2 decimal places", nil))

		rec, env := serve(t, productRouter(svc), http.MethodPost, "/products", `{"name":"Widget","price":"1.999"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		require.Len(t, env.Errors, 1)
		assert.Equal(t, "price", env.Errors[0].Field)
	})
}

func TestProductHandler_AdjustStock(t *testing.T) {
	product := testProduct()
	path := "/products/" + product.ID.String() + "/stock"

	tests := []struct {
		name       string
		body       string
		setup      func(*mockProductService)
		wantStatus int
		wantMsg    string
	}{
		{
			name: "sell",
			body: `{"delta":-2}`,
			setup: func(m *mockProductService) {
				adjusted := *product
				adjusted.Stock = 10
				m.On("AdjustStock", mock.Anything, product.ID, -2).Return(&adjusted, nil)
			},
			wantStatus: http.StatusOK,
			wantMsg:    "Stock adjusted",
		},
		{
			name: "insufficient stock",
			body: `{"delta":-50}`,
			setup: func(m *mockProductService) {
				m.On("AdjustStock", mock.Anything, product.ID, -50).Return(nil, domain.ErrInsufficientStock)
			},
			wantStatus: http.StatusConflict,
			wantMsg:    "Insufficient stock",
		},
		{
			name: "zero delta",
			body: `{"delta":0}`,
			setup: func(m *mockProductService) {
				m.On("AdjustStock", mock.Anything, product.ID, 0).
					Return(nil, domain.NewValidationError("delta", "must not be zero", nil))
			},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Validation failed",
		},
		{
			name:       "missing delta",
			body:       `{}`,
			setup:      func(*mockProductService) {},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Validation failed",
		},
		{
			name: "unknown product",
			body: `{"delta":1}`,
			setup: func(m *mockProductService) {
				m.On("AdjustStock", mock.Anything, product.ID, 1).Return(nil, store.ErrProductNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantMsg:    "Product not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockProductService)
			tt.setup(svc)

			rec, env := serve(t, productRouter(svc), http.MethodPost, path, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, env.Message)
			svc.AssertExpectations(t)
		})
	}
}

func TestProductHandler_UpdateProduct(t *testing.T) {
	product := testProduct()

	svc := new(mockProductService)
	svc.On("UpdateProduct", mock.Anything, product.ID, mock.MatchedBy(func(u domain.ProductUpdate) bool {
		return u.Name == nil && u.Price != nil && u.Price.Equal(decimal.RequireFromString("24.50")) && u.Stock == nil
	})).Return(product, nil)

	rec, env := serve(t, productRouter(svc), http.MethodPut, "/products/"+product.ID.String(), `{"price":"24.50"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Product updated", env.Message)
	svc.AssertExpectations(t)
}

func TestProductHandler_ListGetDelete(t *testing.T) {
	product := testProduct()

	svc := new(mockProductService)
	svc.On("ListProducts", mock.Anything, domain.Page{Page: 2, Limit: 1}).Return([]*domain.Product{product}, 3, nil)
	svc.On("GetProduct", mock.Anything, product.ID).Return(product, nil)
	svc.On("DeleteProduct", mock.Anything, product.ID).Return(nil)
	router := productRouter(svc)

	rec, env := serve(t, router, http.MethodGet, "/products?page=2&limit=1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 3, env.Meta.Total)

	rec, _ = serve(t, router, http.MethodGet, "/products/"+product.ID.String(), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = serve(t, router, http.MethodDelete, "/products/"+product.ID.String(), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Product deleted", env.Message)

	svc.AssertExpectations(t)
}
