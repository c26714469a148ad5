package cart

import (
	"sync"

	"github.com/velostore/storefront/internal/cart/domain"
)

// Service hands out cart stores. The backend is chosen once per store: the
// shared preview store runs on the mock backend, every real user gets a
// remote-backed store of their own, cached so repeated requests for the same
// user serialize through the same store.
type Service struct {
	remote  Backend
	preview *Store

	mu     sync.Mutex
	stores map[string]*Store
}

func NewService(repo domain.CartRepository) *Service {
	return &Service{
		remote:  NewRemoteBackend(repo),
		preview: NewStore(NewMockBackend(), PreviewUserID),
		stores:  make(map[string]*Store),
	}
}

// Session resolves the store for a request. Preview always wins regardless of
// authentication state; an empty userID yields an anonymous store whose
// mutations fail with ErrNoUser.
func (s *Service) Session(preview bool, userID string) *Store {
	if preview {
		return s.preview
	}
	if userID == "" {
		return NewStore(s.remote, "")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	store, ok := s.stores[userID]
	if !ok {
		store = NewStore(s.remote, userID)
		s.stores[userID] = store
	}
	return store
}

// Evict drops a user's cached store, releasing its local line-item cache.
// Called on logout.
func (s *Service) Evict(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if store, ok := s.stores[userID]; ok {
		store.Reset()
		delete(s.stores, userID)
	}
}
