package query

import (
	"context"
	"fmt"

	"github.com/velostore/storefront/internal/catalog/domain"
)

// ListProductsQuery represents the query for the product grid, optionally
// narrowed to one category
type ListProductsQuery struct {
	Category string
}

// ListProductsHandler handles product listing queries
type ListProductsHandler struct {
	products domain.ProductRepository
}

// NewListProductsHandler creates a new list products handler
func NewListProductsHandler(products domain.ProductRepository) *ListProductsHandler {
	return &ListProductsHandler{products: products}
}

// Handle executes the list products query
func (h *ListProductsHandler) Handle(ctx context.Context, q ListProductsQuery) ([]domain.Product, error) {
	products, err := h.products.FindByCategory(ctx, q.Category)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}
