package cart

import (
	"context"

	"github.com/velostore/storefront/internal/cart/domain"
)

// Backend is the persistence strategy behind a cart Store. Exactly one
// implementation is selected when the Store is created: MockBackend when the
// page is hosted inside the visual editor, RemoteBackend everywhere else.
//
// Mutation methods return the authoritative post-mutation line-item list so
// the Store never has to guess how a write settled: the remote backend
// re-reads the persisted rows after every write, the mock backend returns its
// in-memory working list.
type Backend interface {
	Load(ctx context.Context, userID string) ([]domain.CartItem, error)
	Add(ctx context.Context, userID, productID string, quantity int) ([]domain.CartItem, error)
	SetQuantity(ctx context.Context, userID, lineID string, quantity int) ([]domain.CartItem, error)
	Remove(ctx context.Context, userID, lineID string) ([]domain.CartItem, error)
	Clear(ctx context.Context, userID string) ([]domain.CartItem, error)
}
