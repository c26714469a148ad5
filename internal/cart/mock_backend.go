package cart

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/velostore/storefront/internal/cart/domain"
)

// PreviewDataset returns the canonical two line items shown inside the visual
// editor. Load always resets the mock cart to exactly these.
func PreviewDataset() []domain.CartItem {
	added := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	return []domain.CartItem{
		{
			ID:        "preview-line-1",
			UserID:    PreviewUserID,
			ProductID: "preview-product-1",
			Quantity:  1,
			AddedAt:   added,
			Product: domain.ProductSnapshot{
				ID:          "preview-product-1",
				Name:        "Aurora Desk Lamp",
				Description: "Warm-light desk lamp with a walnut base",
				Price:       49.90,
				Image:       "/images/preview/aurora-desk-lamp.jpg",
				Category:    "Lighting",
			},
		},
		{
			ID:        "preview-line-2",
			UserID:    PreviewUserID,
			ProductID: "preview-product-2",
			Quantity:  2,
			AddedAt:   added.Add(-time.Hour),
			Product: domain.ProductSnapshot{
				ID:          "preview-product-2",
				Name:        "Linen Throw Pillow",
				Description: "Stonewashed linen pillow, 45x45cm",
				Price:       24.50,
				Image:       "/images/preview/linen-throw-pillow.jpg",
				Category:    "Textiles",
			},
		},
	}
}

// MockBackend serves the cart while the page is rendered inside the visual
// editor. Mutations apply to an in-memory working list and always succeed;
// Load discards the working list and restores the canonical dataset.
type MockBackend struct {
	mu    sync.Mutex
	items []domain.CartItem
}

func NewMockBackend() *MockBackend {
	return &MockBackend{items: PreviewDataset()}
}

func (b *MockBackend) Load(ctx context.Context, userID string) ([]domain.CartItem, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items = PreviewDataset()
	return b.snapshotLocked(), nil
}

func (b *MockBackend) Add(ctx context.Context, userID, productID string, quantity int) ([]domain.CartItem, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.items {
		if b.items[i].ProductID == productID {
			b.items[i].Quantity += quantity
			return b.snapshotLocked(), nil
		}
	}

	// Unknown product inside the editor: synthesize a line with placeholder
	// product fields rather than touching the real catalog.
	b.items = append(b.items, domain.CartItem{
		ID:        uuid.NewString(),
		UserID:    PreviewUserID,
		ProductID: productID,
		Quantity:  quantity,
		AddedAt:   time.Now(),
		Product: domain.ProductSnapshot{
			ID:       productID,
			Name:     "Sample Product",
			Price:    19.99,
			Category: "Preview",
		},
	})

	return b.snapshotLocked(), nil
}

func (b *MockBackend) SetQuantity(ctx context.Context, userID, lineID string, quantity int) ([]domain.CartItem, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.items {
		if b.items[i].ID == lineID {
			b.items[i].Quantity = quantity
			break
		}
	}

	return b.snapshotLocked(), nil
}

func (b *MockBackend) Remove(ctx context.Context, userID, lineID string) ([]domain.CartItem, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	kept := b.items[:0]
	for _, item := range b.items {
		if item.ID != lineID {
			kept = append(kept, item)
		}
	}
	b.items = kept

	return b.snapshotLocked(), nil
}

func (b *MockBackend) Clear(ctx context.Context, userID string) ([]domain.CartItem, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items = nil
	return b.snapshotLocked(), nil
}

func (b *MockBackend) snapshotLocked() []domain.CartItem {
	out := make([]domain.CartItem, len(b.items))
	copy(out, b.items)
	return out
}
