package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/rest-template/internal/api/shared"
	"github.com/phrazzld/rest-template/internal/domain"
	"github.com/phrazzld/rest-template/internal/platform/logger"
	"github.com/phrazzld/rest-template/internal/service"
)

// ProductHandler handles product and inventory HTTP requests
type ProductHandler struct {
	productService service.ProductService
	logger         *slog.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *slog.Logger) *ProductHandler {
	if productService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("productService cannot be nil for ProductHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProductHandler")
	}

	return &ProductHandler{
		productService: productService,
		logger:         logger.With(slog.String("component", "product_handler")),
	}
}

// ListProducts handles GET /api/v1/products requests
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, err := getPage(r)
	if err != nil {
		HandleAPIError(w, r, err, "Invalid pagination parameters")
		return
	}

	products, total, err := h.productService.ListProducts(r.Context(), page)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list products")
		return
	}

	shared.RespondWithList(w, r, productsToResponse(products), metaFor(page, total))
}

// GetProduct handles GET /api/v1/products/{id} requests
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	product, err := h.productService.GetProduct(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get product")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, productToResponse(product), "")
}

// CreateProduct handles POST /api/v1/products requests
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := shared.DecodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "Invalid request body")
		return
	}

	input := service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
	}
	if req.Stock != nil {
		input.Stock = *req.Stock
	}

	product, err := h.productService.CreateProduct(r.Context(), input)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create product")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("product created via API",
		slog.String("product_id", product.ID.String()))
	shared.RespondWithData(w, r, http.StatusCreated, productToResponse(product), "Product created")
}

// UpdateProduct handles PUT /api/v1/products/{id} requests
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateProductRequest
	if err := shared.DecodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "Invalid request body")
		return
	}
	if req.Name == nil && req.Description == nil && req.Price == nil && req.Stock == nil {
		HandleAPIError(w, r, errEmptyUpdate, "")
		return
	}

	product, err := h.productService.UpdateProduct(r.Context(), id, domain.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update product")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, productToResponse(product), "Product updated")
}

// AdjustStock handles POST /api/v1/products/{id}/stock requests
func (h *ProductHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req AdjustStockRequest
	if err := shared.DecodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "Invalid request body")
		return
	}

	product, err := h.productService.AdjustStock(r.Context(), id, *req.Delta)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to adjust stock")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, productToResponse(product), "Stock adjusted")
}

// DeleteProduct handles DELETE /api/v1/products/{id} requests
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.productService.DeleteProduct(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete product")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, nil, "Product deleted")
}
