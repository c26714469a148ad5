package command

import (
	"context"
	"fmt"

	"github.com/velostore/storefront/internal/cart"
	"github.com/velostore/storefront/kafka"
)

// ClearCartCommand represents the command to empty a user's cart
type ClearCartCommand struct {
	UserID  string
	Preview bool
}

// ClearCartHandler handles clear cart commands
type ClearCartHandler struct {
	carts     *cart.Service
	publisher *kafka.Publisher
}

// NewClearCartHandler creates a new clear cart handler
func NewClearCartHandler(carts *cart.Service, publisher *kafka.Publisher) *ClearCartHandler {
	return &ClearCartHandler{carts: carts, publisher: publisher}
}

// Handle executes the clear cart command
func (h *ClearCartHandler) Handle(ctx context.Context, cmd ClearCartCommand) error {
	store := h.carts.Session(cmd.Preview, cmd.UserID)
	if err := store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	if h.publisher != nil && !cmd.Preview {
		_ = h.publisher.PublishCartEvent(ctx, kafka.CartEvent{
			EventType: kafka.EventTypeCartCleared,
			UserID:    cmd.UserID,
		})
	}

	return nil
}
