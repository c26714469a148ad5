package query

import (
	"context"

	"github.com/velostore/storefront/internal/cart"
)

// GetSummaryQuery represents the query for the cart badge counters
type GetSummaryQuery struct {
	UserID  string
	Preview bool
}

// CartSummary holds the aggregate counters shown in the header badge
type CartSummary struct {
	ItemCount int     `json:"item_count"`
	CartTotal float64 `json:"cart_total"`
}

// GetSummaryHandler handles cart summary queries
type GetSummaryHandler struct {
	carts *cart.Service
}

// NewGetSummaryHandler creates a new get summary handler
func NewGetSummaryHandler(carts *cart.Service) *GetSummaryHandler {
	return &GetSummaryHandler{carts: carts}
}

// Handle executes the summary query against the freshly loaded cart
func (h *GetSummaryHandler) Handle(ctx context.Context, q GetSummaryQuery) (*CartSummary, error) {
	store := h.carts.Session(q.Preview, q.UserID)
	if err := store.Load(ctx); err != nil {
		return &CartSummary{}, nil
	}
	return &CartSummary{
		ItemCount: store.ItemCount(),
		CartTotal: store.Total(),
	}, nil
}
