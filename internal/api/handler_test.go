package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/phrazzld/rest-template/internal/domain"
	"github.com/phrazzld/rest-template/internal/service"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) CreateUser(ctx context.Context, email, name string) (*domain.User, error) {
	args := m.Called(ctx, email, name)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserService) ListUsers(ctx context.Context, page domain.Page) ([]*domain.User, int, error) {
	args := m.Called(ctx, page)
	users, _ := args.Get(0).([]*domain.User)
	return users, args.Int(1), args.Error(2)
}

func (m *mockUserService) UpdateUser(
	ctx context.Context,
	userID uuid.UUID,
	update service.UserUpdate,
) (*domain.User, error) {
	args := m.Called(ctx, userID, update)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

type mockProductService struct {
	mock.Mock
}

func (m *mockProductService) CreateProduct(ctx context.Context, input service.ProductInput) (*domain.Product, error) {
	args := m.Called(ctx, input)
	product, _ := args.Get(0).(*domain.Product)
	return product, args.Error(1)
}

func (m *mockProductService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*domain.Product)
	return product, args.Error(1)
}

func (m *mockProductService) ListProducts(ctx context.Context, page domain.Page) ([]*domain.Product, int, error) {
	args := m.Called(ctx, page)
	products, _ := args.Get(0).([]*domain.Product)
	return products, args.Int(1), args.Error(2)
}

func (m *mockProductService) UpdateProduct(
	ctx context.Context,
	id uuid.UUID,
	update domain.ProductUpdate,
) (*domain.Product, error) {
	args := m.Called(ctx, id, update)
	product, _ := args.Get(0).(*domain.Product)
	return product, args.Error(1)
}

func (m *mockProductService) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*domain.Product, error) {
	args := m.Called(ctx, id, delta)
	product, _ := args.Get(0).(*domain.Product)
	return product, args.Error(1)
}

func (m *mockProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// response is the decoded envelope of a handler response.
type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Meta    *struct {
		Page  int `json:"page"`
		Limit int `json:"limit"`
		Total int `json:"total"`
	} `json:"meta"`
	Errors []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
	TraceID string `json:"trace_id"`
}

func serve(t *testing.T, router http.Handler, method, target, body string) (*httptest.ResponseRecorder, response) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return rec, env
}

func userRouter(svc service.UserService) http.Handler {
	h := NewUserHandler(svc, testLogger())
	r := chi.NewRouter()
	r.Get("/users", h.ListUsers)
	r.Post("/users", h.CreateUser)
	r.Get("/users/{id}", h.GetUser)
	r.Put("/users/{id}", h.UpdateUser)
	r.Delete("/users/{id}", h.DeleteUser)
	return r
}

func productRouter(svc service.ProductService) http.Handler {
	h := NewProductHandler(svc, testLogger())
	r := chi.NewRouter()
	r.Get("/products", h.ListProducts)
	r.Post("/products", h.CreateProduct)
	r.Get("/products/{id}", h.GetProduct)
	r.Put("/products/{id}", h.UpdateProduct)
	r.Post("/products/{id}/stock", h.AdjustStock)
	r.Delete("/products/{id}", h.DeleteProduct)
	return r
}
