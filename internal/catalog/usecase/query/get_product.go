package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/velostore/storefront/internal/catalog/domain"
)

// ErrProductNotFound is returned when the requested product does not exist
var ErrProductNotFound = errors.New("product not found")

// GetProductQuery represents the query for a single product
type GetProductQuery struct {
	ProductID string
}

// GetProductHandler handles single product queries
type GetProductHandler struct {
	products domain.ProductRepository
}

// NewGetProductHandler creates a new get product handler
func NewGetProductHandler(products domain.ProductRepository) *GetProductHandler {
	return &GetProductHandler{products: products}
}

// Handle executes the get product query
func (h *GetProductHandler) Handle(ctx context.Context, q GetProductQuery) (*domain.Product, error) {
	if q.ProductID == "" {
		return nil, fmt.Errorf("product id is required")
	}
	product, err := h.products.FindByID(ctx, q.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}
