package command

import (
	"context"
	"fmt"

	"github.com/velostore/storefront/internal/cart"
	"github.com/velostore/storefront/internal/cart/domain"
	"github.com/velostore/storefront/kafka"
)

// RemoveItemCommand represents the command to delete a line item
type RemoveItemCommand struct {
	UserID     string
	Preview    bool
	LineItemID string
}

// RemoveItemHandler handles line item removal commands
type RemoveItemHandler struct {
	carts     *cart.Service
	publisher *kafka.Publisher
}

// NewRemoveItemHandler creates a new remove item handler
func NewRemoveItemHandler(carts *cart.Service, publisher *kafka.Publisher) *RemoveItemHandler {
	return &RemoveItemHandler{carts: carts, publisher: publisher}
}

// Handle executes the remove item command
func (h *RemoveItemHandler) Handle(ctx context.Context, cmd RemoveItemCommand) ([]domain.CartItem, error) {
	if cmd.LineItemID == "" {
		return nil, fmt.Errorf("line item id is required")
	}

	store := h.carts.Session(cmd.Preview, cmd.UserID)
	if err := store.Remove(ctx, cmd.LineItemID); err != nil {
		return nil, fmt.Errorf("failed to remove from cart: %w", err)
	}

	if h.publisher != nil && !cmd.Preview {
		_ = h.publisher.PublishCartEvent(ctx, kafka.CartEvent{
			EventType:  kafka.EventTypeCartItemRemoved,
			UserID:     cmd.UserID,
			LineItemID: cmd.LineItemID,
			ItemCount:  store.ItemCount(),
			CartTotal:  store.Total(),
		})
	}

	return store.Items(), nil
}
