package domain

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNoUser is returned when a cart operation requires an authenticated user
	ErrNoUser = errors.New("no authenticated user")

	// ErrItemNotFound is returned when a line item id does not exist
	ErrItemNotFound = errors.New("cart item not found")

	// ErrInvalidQuantity is returned when a quantity is not a positive integer
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
)

// ProductSnapshot is the denormalized copy of product fields attached to a
// line item for display. It is distinct from the authoritative catalog row.
type ProductSnapshot struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
}

// CartItem is one row representing a single product and its quantity within
// one user's cart. At most one CartItem exists per (UserID, ProductID) pair.
type CartItem struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	AddedAt   time.Time       `json:"added_at"`
	Product   ProductSnapshot `json:"product"`
}

// ItemCount returns the sum of quantities across all line items
func ItemCount(items []CartItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

// CartTotal returns the sum of price * quantity over all line items
func CartTotal(items []CartItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

// CartRepository is the gateway contract against the persisted cart table.
// FindByUser returns line items denormalized with their product snapshot,
// newest first. FindByUserAndProduct returns (nil, nil) when no row exists.
type CartRepository interface {
	FindByUser(ctx context.Context, userID string) ([]CartItem, error)
	FindByUserAndProduct(ctx context.Context, userID, productID string) (*CartItem, error)
	Insert(ctx context.Context, item *CartItem) error
	UpdateQuantity(ctx context.Context, lineID string, quantity int) error
	Delete(ctx context.Context, lineID string) error
	DeleteByUser(ctx context.Context, userID string) error
}
