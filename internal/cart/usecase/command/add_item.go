package command

import (
	"context"
	"fmt"

	"github.com/velostore/storefront/internal/cart"
	"github.com/velostore/storefront/internal/cart/domain"
	"github.com/velostore/storefront/kafka"
)

// AddItemCommand represents the command to put a product in the cart
type AddItemCommand struct {
	UserID    string
	Preview   bool
	ProductID string
	Quantity  int
}

// AddItemHandler handles add-to-cart commands
type AddItemHandler struct {
	carts     *cart.Service
	publisher *kafka.Publisher
}

// NewAddItemHandler creates a new add item handler
func NewAddItemHandler(carts *cart.Service, publisher *kafka.Publisher) *AddItemHandler {
	return &AddItemHandler{carts: carts, publisher: publisher}
}

// Handle executes the add item command. A zero quantity means "one", matching
// the storefront's default add-to-cart button.
func (h *AddItemHandler) Handle(ctx context.Context, cmd AddItemCommand) ([]domain.CartItem, error) {
	if cmd.ProductID == "" {
		return nil, fmt.Errorf("product id is required")
	}
	if cmd.Quantity == 0 {
		cmd.Quantity = 1
	}
	if cmd.Quantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}

	store := h.carts.Session(cmd.Preview, cmd.UserID)
	if err := store.Add(ctx, cmd.ProductID, cmd.Quantity); err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}

	// Best-effort analytics event; editor sessions never reach Kafka.
	if h.publisher != nil && !cmd.Preview {
		_ = h.publisher.PublishCartEvent(ctx, kafka.CartEvent{
			EventType: kafka.EventTypeCartItemAdded,
			UserID:    cmd.UserID,
			ProductID: cmd.ProductID,
			Quantity:  cmd.Quantity,
			ItemCount: store.ItemCount(),
			CartTotal: store.Total(),
		})
	}

	return store.Items(), nil
}
