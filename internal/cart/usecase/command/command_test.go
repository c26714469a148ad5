package command_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velostore/storefront/internal/cart"
	"github.com/velostore/storefront/internal/cart/domain"
	"github.com/velostore/storefront/internal/cart/usecase/command"
)

// memoryCartRepo mimics the persisted cart table, including the
// one-row-per-(user, product) conflict-increment behavior.
type memoryCartRepo struct {
	mu   sync.Mutex
	rows []domain.CartItem
}

func (r *memoryCartRepo) FindByUser(ctx context.Context, userID string) ([]domain.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := []domain.CartItem{}
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].UserID == userID {
			items = append(items, r.rows[i])
		}
	}
	return items, nil
}

func (r *memoryCartRepo) FindByUserAndProduct(ctx context.Context, userID, productID string) (*domain.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.rows {
		if row.UserID == userID && row.ProductID == productID {
			copied := row
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memoryCartRepo) Insert(ctx context.Context, item *domain.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.rows {
		if r.rows[i].UserID == item.UserID && r.rows[i].ProductID == item.ProductID {
			r.rows[i].Quantity += item.Quantity
			return nil
		}
	}
	r.rows = append(r.rows, *item)
	return nil
}

func (r *memoryCartRepo) UpdateQuantity(ctx context.Context, lineID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.rows {
		if r.rows[i].ID == lineID {
			r.rows[i].Quantity = quantity
			return nil
		}
	}
	return domain.ErrItemNotFound
}

func (r *memoryCartRepo) Delete(ctx context.Context, lineID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.rows {
		if r.rows[i].ID == lineID {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrItemNotFound
}

func (r *memoryCartRepo) DeleteByUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.UserID != userID {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

func newService() (*cart.Service, *memoryCartRepo) {
	repo := &memoryCartRepo{}
	return cart.NewService(repo), repo
}

func TestAddItemDefaultsToOne(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	handler := command.NewAddItemHandler(svc, nil)

	items, err := handler.Handle(ctx, command.AddItemCommand{
		UserID:    "user-1",
		ProductID: "product-1",
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestAddItemRequiresProductID(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	handler := command.NewAddItemHandler(svc, nil)

	_, err := handler.Handle(ctx, command.AddItemCommand{UserID: "user-1"})
	require.Error(t, err)
}

func TestAddItemRejectsNegativeQuantity(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService()
	handler := command.NewAddItemHandler(svc, nil)

	_, err := handler.Handle(ctx, command.AddItemCommand{
		UserID:    "user-1",
		ProductID: "product-1",
		Quantity:  -2,
	})
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Empty(t, repo.rows)
}

func TestAddItemIncrementsExistingLine(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	handler := command.NewAddItemHandler(svc, nil)

	cmd := command.AddItemCommand{UserID: "user-1", ProductID: "product-1", Quantity: 2}
	_, err := handler.Handle(ctx, cmd)
	require.NoError(t, err)

	items, err := handler.Handle(ctx, cmd)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)
}

func TestAddItemAnonymousFails(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	handler := command.NewAddItemHandler(svc, nil)

	_, err := handler.Handle(ctx, command.AddItemCommand{ProductID: "product-1"})
	require.ErrorIs(t, err, domain.ErrNoUser)
}

func TestAddItemPreviewNeverTouchesRepository(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService()
	handler := command.NewAddItemHandler(svc, nil)

	items, err := handler.Handle(ctx, command.AddItemCommand{
		Preview:   true,
		ProductID: "preview-product-1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, items)
	assert.Empty(t, repo.rows)
}

func TestUpdateQuantitySetsValue(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	add := command.NewAddItemHandler(svc, nil)
	update := command.NewUpdateQuantityHandler(svc, nil)

	items, err := add.Handle(ctx, command.AddItemCommand{UserID: "user-1", ProductID: "product-1", Quantity: 1})
	require.NoError(t, err)
	require.Len(t, items, 1)

	items, err = update.Handle(ctx, command.UpdateQuantityCommand{
		UserID:     "user-1",
		LineItemID: items[0].ID,
		Quantity:   5,
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	add := command.NewAddItemHandler(svc, nil)
	update := command.NewUpdateQuantityHandler(svc, nil)

	items, err := add.Handle(ctx, command.AddItemCommand{UserID: "user-1", ProductID: "product-1", Quantity: 1})
	require.NoError(t, err)

	items, err = update.Handle(ctx, command.UpdateQuantityCommand{
		UserID:     "user-1",
		LineItemID: items[0].ID,
		Quantity:   0,
	})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestUpdateQuantityUnknownLine(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	update := command.NewUpdateQuantityHandler(svc, nil)

	_, err := update.Handle(ctx, command.UpdateQuantityCommand{
		UserID:     "user-1",
		LineItemID: "missing",
		Quantity:   2,
	})
	require.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestUpdateQuantityRequiresLineItemID(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	update := command.NewUpdateQuantityHandler(svc, nil)

	_, err := update.Handle(ctx, command.UpdateQuantityCommand{UserID: "user-1", Quantity: 2})
	require.Error(t, err)
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	add := command.NewAddItemHandler(svc, nil)
	remove := command.NewRemoveItemHandler(svc, nil)

	items, err := add.Handle(ctx, command.AddItemCommand{UserID: "user-1", ProductID: "product-1", Quantity: 1})
	require.NoError(t, err)
	_, err = add.Handle(ctx, command.AddItemCommand{UserID: "user-1", ProductID: "product-2", Quantity: 1})
	require.NoError(t, err)

	remaining, err := remove.Handle(ctx, command.RemoveItemCommand{
		UserID:     "user-1",
		LineItemID: items[0].ID,
	})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "product-2", remaining[0].ProductID)
}

func TestRemoveItemUnknownLine(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	remove := command.NewRemoveItemHandler(svc, nil)

	_, err := remove.Handle(ctx, command.RemoveItemCommand{UserID: "user-1", LineItemID: "missing"})
	require.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestClearCart(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService()
	add := command.NewAddItemHandler(svc, nil)
	clear := command.NewClearCartHandler(svc, nil)

	_, err := add.Handle(ctx, command.AddItemCommand{UserID: "user-1", ProductID: "product-1", Quantity: 1})
	require.NoError(t, err)
	_, err = add.Handle(ctx, command.AddItemCommand{UserID: "user-2", ProductID: "product-1", Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, clear.Handle(ctx, command.ClearCartCommand{UserID: "user-1"}))

	assert.Empty(t, svc.Session(false, "user-1").Items())
	require.Len(t, repo.rows, 1, "other users' carts stay intact")
	assert.Equal(t, "user-2", repo.rows[0].UserID)
}
