package query

import (
	"context"

	"github.com/velostore/storefront/internal/cart"
	"github.com/velostore/storefront/internal/cart/domain"
)

// GetCartQuery represents the query to fetch a user's cart
type GetCartQuery struct {
	UserID  string
	Preview bool
}

// CartView is the read model returned to the delivery layer
type CartView struct {
	Items     []domain.CartItem `json:"items"`
	ItemCount int               `json:"item_count"`
	CartTotal float64           `json:"cart_total"`
	IsOpen    bool              `json:"is_open"`
	Error     string            `json:"error,omitempty"`
}

// GetCartHandler handles cart read queries
type GetCartHandler struct {
	carts *cart.Service
}

// NewGetCartHandler creates a new get cart handler
func NewGetCartHandler(carts *cart.Service) *GetCartHandler {
	return &GetCartHandler{carts: carts}
}

// Handle executes the get cart query. A backend failure degrades to an empty
// cart with the error surfaced in the view, so the storefront keeps rendering.
func (h *GetCartHandler) Handle(ctx context.Context, q GetCartQuery) (*CartView, error) {
	store := h.carts.Session(q.Preview, q.UserID)
	loadErr := store.Load(ctx)

	view := &CartView{
		Items:     store.Items(),
		ItemCount: store.ItemCount(),
		CartTotal: store.Total(),
		IsOpen:    store.IsOpen(),
	}
	if view.Items == nil {
		view.Items = []domain.CartItem{}
	}
	if loadErr != nil {
		view.Error = loadErr.Error()
	}
	return view, nil
}
