package command

import (
	"context"
	"fmt"

	"github.com/velostore/storefront/internal/cart"
	"github.com/velostore/storefront/internal/cart/domain"
	"github.com/velostore/storefront/kafka"
)

// UpdateQuantityCommand represents the command to change a line item's quantity.
// A quantity of zero or below removes the line.
type UpdateQuantityCommand struct {
	UserID     string
	Preview    bool
	LineItemID string
	Quantity   int
}

// UpdateQuantityHandler handles quantity update commands
type UpdateQuantityHandler struct {
	carts     *cart.Service
	publisher *kafka.Publisher
}

// NewUpdateQuantityHandler creates a new update quantity handler
func NewUpdateQuantityHandler(carts *cart.Service, publisher *kafka.Publisher) *UpdateQuantityHandler {
	return &UpdateQuantityHandler{carts: carts, publisher: publisher}
}

// Handle executes the update quantity command
func (h *UpdateQuantityHandler) Handle(ctx context.Context, cmd UpdateQuantityCommand) ([]domain.CartItem, error) {
	if cmd.LineItemID == "" {
		return nil, fmt.Errorf("line item id is required")
	}

	store := h.carts.Session(cmd.Preview, cmd.UserID)
	if err := store.UpdateQuantity(ctx, cmd.LineItemID, cmd.Quantity); err != nil {
		return nil, fmt.Errorf("failed to update quantity: %w", err)
	}

	if h.publisher != nil && !cmd.Preview {
		eventType := kafka.EventTypeCartQuantityChanged
		if cmd.Quantity <= 0 {
			eventType = kafka.EventTypeCartItemRemoved
		}
		_ = h.publisher.PublishCartEvent(ctx, kafka.CartEvent{
			EventType:  eventType,
			UserID:     cmd.UserID,
			LineItemID: cmd.LineItemID,
			Quantity:   cmd.Quantity,
			ItemCount:  store.ItemCount(),
			CartTotal:  store.Total(),
		})
	}

	return store.Items(), nil
}
