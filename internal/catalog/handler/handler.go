// Package handler exposes the catalog read API for the admin dashboard.
package handler

import (
	"net/http"

	"storebot_backend/internal/catalog/repository"
	"storebot_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler handles catalog HTTP requests.
type Handler struct {
	repo repository.Repository
}

// New creates a new catalog handler.
func New(repo repository.Repository) *Handler {
	return &Handler{repo: repo}
}

// VariantResponse is one priced option of a product.
type VariantResponse struct {
	Code  string `json:"code"`
	Price int    `json:"price"`
	Info  string `json:"info"`
}

// ProductResponse is one catalog product.
type ProductResponse struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Variants    []VariantResponse `json:"variants"`
}

// ListProducts returns the full catalog in insertion order.
// GET /api/v1/catalog/products
func (h *Handler) ListProducts(c *gin.Context) {
	products := h.repo.Products()
	result := make([]ProductResponse, len(products))
	for i, p := range products {
		result[i] = toProductResponse(p)
	}
	httpkit.OK(c, result)
}

// GetProductByName returns one product by (case-insensitive) name.
// GET /api/v1/catalog/products/:name
func (h *Handler) GetProductByName(c *gin.Context) {
	product, ok := h.repo.FindProduct(c.Param("name"))
	if !ok {
		httpkit.Error(c, http.StatusNotFound, "product not found", nil)
		return
	}
	httpkit.OK(c, toProductResponse(product))
}

func toProductResponse(p repository.Product) ProductResponse {
	variants := make([]VariantResponse, len(p.Variants))
	for i, v := range p.Variants {
		variants[i] = VariantResponse{Code: v.Code, Price: v.Price, Info: v.Info}
	}
	return ProductResponse{
		Name:        p.Name,
		Description: p.Description,
		Variants:    variants,
	}
}
