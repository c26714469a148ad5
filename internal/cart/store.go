package cart

import (
	"context"
	"sync"

	"github.com/velostore/storefront/internal/cart/domain"
)

// PreviewUserID is the fixed deterministic user the storefront assumes while
// the page is hosted inside the visual editor.
const PreviewUserID = "preview-user"

// Store holds one user's in-memory line items and reconciles them with its
// backend. All mutations are serialized through the store, so two rapid adds
// for the same user fold into one increment instead of racing into duplicate
// rows.
//
// Failure policy: a failed reload leaves an empty list plus a recorded error
// (never stale data); a failed mutation leaves the list untouched; any
// successful operation clears the recorded error.
type Store struct {
	backend Backend
	userID  string

	opMu sync.Mutex // serializes operations against the backend

	mu      sync.RWMutex // guards the fields below
	items   []domain.CartItem
	open    bool
	lastErr error
}

func NewStore(backend Backend, userID string) *Store {
	return &Store{backend: backend, userID: userID}
}

// UserID returns the user this store is scoped to, empty when anonymous
func (s *Store) UserID() string {
	return s.userID
}

// Load replaces the line-item list with the backend's authoritative state.
// With no user it is a no-op and the current list is kept as-is.
func (s *Store) Load(ctx context.Context) error {
	if s.userID == "" {
		return nil
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	items, err := s.backend.Load(ctx, s.userID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		// Never keep stale data behind a failed reload.
		s.items = nil
		s.lastErr = err
		return err
	}
	if ctx.Err() != nil {
		// The response outlived its request; keep whatever newer state is here.
		return ctx.Err()
	}

	s.items = items
	s.lastErr = nil
	return nil
}

// Add puts quantity units of a product in the cart. Adding a product that is
// already present increments its existing line instead of creating a new one.
func (s *Store) Add(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	if s.userID == "" {
		return s.recordErr(domain.ErrNoUser)
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	items, err := s.backend.Add(ctx, s.userID, productID, quantity)
	return s.commit(ctx, items, err)
}

// UpdateQuantity sets a line item's quantity. Anything below one means the
// line is removed.
func (s *Store) UpdateQuantity(ctx context.Context, lineID string, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, lineID)
	}
	if s.userID == "" {
		return s.recordErr(domain.ErrNoUser)
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	items, err := s.backend.SetQuantity(ctx, s.userID, lineID, quantity)
	return s.commit(ctx, items, err)
}

// Remove deletes a line item from the cart
func (s *Store) Remove(ctx context.Context, lineID string) error {
	if s.userID == "" {
		return s.recordErr(domain.ErrNoUser)
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	items, err := s.backend.Remove(ctx, s.userID, lineID)
	return s.commit(ctx, items, err)
}

// Clear removes every line item belonging to this store's user
func (s *Store) Clear(ctx context.Context) error {
	if s.userID == "" {
		return s.recordErr(domain.ErrNoUser)
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	items, err := s.backend.Clear(ctx, s.userID)
	return s.commit(ctx, items, err)
}

// Reset drops the local line-item cache without touching the backend.
// Used on logout: the persisted rows stay, the local copy goes.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.lastErr = nil
}

// ToggleVisibility flips the UI-open flag and returns the new value
func (s *Store) ToggleVisibility() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = !s.open
	return s.open
}

// IsOpen reports whether the cart UI is open
func (s *Store) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.open
}

// Items returns a copy of the current line-item list
func (s *Store) Items() []domain.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// ItemCount returns the sum of quantities across all line items
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.ItemCount(s.items)
}

// Total returns the sum of price * quantity over all line items
func (s *Store) Total() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CartTotal(s.items)
}

// Err returns the error recorded by the most recent failed operation, or nil
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Store) commit(ctx context.Context, items []domain.CartItem, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		// Failed mutation: the list stays as it was.
		s.lastErr = err
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.items = items
	s.lastErr = nil
	return nil
}

func (s *Store) recordErr(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
	return err
}
