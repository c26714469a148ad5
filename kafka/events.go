package kafka

import "time"

// CartEvent represents a change to a user's cart
type CartEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	UserID     string    `json:"user_id"`
	LineItemID string    `json:"line_item_id,omitempty"`
	ProductID  string    `json:"product_id,omitempty"`
	Quantity   int       `json:"quantity,omitempty"`
	ItemCount  int       `json:"item_count"`
	CartTotal  float64   `json:"cart_total"`
	Timestamp  time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeCartItemAdded       = "cart.item_added"
	EventTypeCartQuantityChanged = "cart.quantity_changed"
	EventTypeCartItemRemoved     = "cart.item_removed"
	EventTypeCartCleared         = "cart.cleared"
)

// Kafka topics
const (
	TopicCartEvents = "cart-events"
)
