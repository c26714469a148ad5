package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/velostore/storefront/internal/cart/domain"
)

// RemoteBackend serves the cart from the persisted cart table. Every write is
// followed by a full re-read of the user's rows, so read-after-write
// consistency comes from reloading, not from patching local state.
type RemoteBackend struct {
	repo domain.CartRepository
}

func NewRemoteBackend(repo domain.CartRepository) *RemoteBackend {
	return &RemoteBackend{repo: repo}
}

func (b *RemoteBackend) Load(ctx context.Context, userID string) ([]domain.CartItem, error) {
	return b.repo.FindByUser(ctx, userID)
}

func (b *RemoteBackend) Add(ctx context.Context, userID, productID string, quantity int) ([]domain.CartItem, error) {
	existing, err := b.repo.FindByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up existing line: %w", err)
	}

	if existing != nil {
		if err := b.repo.UpdateQuantity(ctx, existing.ID, existing.Quantity+quantity); err != nil {
			return nil, fmt.Errorf("failed to increment quantity: %w", err)
		}
	} else {
		item := &domain.CartItem{
			ID:        uuid.NewString(),
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
			AddedAt:   time.Now(),
		}
		if err := b.repo.Insert(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to insert line: %w", err)
		}
	}

	return b.repo.FindByUser(ctx, userID)
}

func (b *RemoteBackend) SetQuantity(ctx context.Context, userID, lineID string, quantity int) ([]domain.CartItem, error) {
	if err := b.repo.UpdateQuantity(ctx, lineID, quantity); err != nil {
		return nil, err
	}

	return b.repo.FindByUser(ctx, userID)
}

func (b *RemoteBackend) Remove(ctx context.Context, userID, lineID string) ([]domain.CartItem, error) {
	if err := b.repo.Delete(ctx, lineID); err != nil {
		return nil, err
	}

	return b.repo.FindByUser(ctx, userID)
}

func (b *RemoteBackend) Clear(ctx context.Context, userID string) ([]domain.CartItem, error) {
	if err := b.repo.DeleteByUser(ctx, userID); err != nil {
		return nil, err
	}

	// A successful clear needs no re-read; the result is empty by definition.
	return []domain.CartItem{}, nil
}
