package cart_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/velostore/storefront/internal/cart"
	"github.com/velostore/storefront/internal/cart/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// flakyBackend wraps a mock backend and fails every call while tripped
type flakyBackend struct {
	mu      sync.Mutex
	inner   *cart.MockBackend
	tripped bool
	err     error
}

func newFlakyBackend() *flakyBackend {
	return &flakyBackend{
		inner: cart.NewMockBackend(),
		err:   errors.New("backend unavailable"),
	}
}

func (b *flakyBackend) trip(tripped bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tripped = tripped
}

func (b *flakyBackend) failing() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tripped
}

func (b *flakyBackend) Load(ctx context.Context, userID string) ([]domain.CartItem, error) {
	if b.failing() {
		return nil, b.err
	}
	return b.inner.Load(ctx, userID)
}

func (b *flakyBackend) Add(ctx context.Context, userID, productID string, quantity int) ([]domain.CartItem, error) {
	if b.failing() {
		return nil, b.err
	}
	return b.inner.Add(ctx, userID, productID, quantity)
}

func (b *flakyBackend) SetQuantity(ctx context.Context, userID, lineID string, quantity int) ([]domain.CartItem, error) {
	if b.failing() {
		return nil, b.err
	}
	return b.inner.SetQuantity(ctx, userID, lineID, quantity)
}

func (b *flakyBackend) Remove(ctx context.Context, userID, lineID string) ([]domain.CartItem, error) {
	if b.failing() {
		return nil, b.err
	}
	return b.inner.Remove(ctx, userID, lineID)
}

func (b *flakyBackend) Clear(ctx context.Context, userID string) ([]domain.CartItem, error) {
	if b.failing() {
		return nil, b.err
	}
	return b.inner.Clear(ctx, userID)
}

func TestStoreLoadPreviewDataset(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(cart.NewMockBackend(), cart.PreviewUserID)

	require.NoError(t, store.Load(ctx))
	assert.Len(t, store.Items(), 2)
	assert.Equal(t, 3, store.ItemCount())
	assert.InDelta(t, 49.90+2*24.50, store.Total(), 0.001)
}

func TestStoreLoadResetsPreviewMutations(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(cart.NewMockBackend(), cart.PreviewUserID)
	require.NoError(t, store.Load(ctx))

	require.NoError(t, store.Clear(ctx))
	assert.Empty(t, store.Items())

	// Reload restores the canonical dataset no matter what happened before
	require.NoError(t, store.Load(ctx))
	assert.Len(t, store.Items(), 2)
}

func TestStoreAddIncrementsExistingLine(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(cart.NewMockBackend(), cart.PreviewUserID)
	require.NoError(t, store.Load(ctx))

	before := store.ItemCount()
	require.NoError(t, store.Add(ctx, "preview-product-1", 2))

	assert.Len(t, store.Items(), 2, "no new line for an already-carted product")
	assert.Equal(t, before+2, store.ItemCount())
}

func TestStoreAddNewProduct(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(cart.NewMockBackend(), cart.PreviewUserID)
	require.NoError(t, store.Load(ctx))

	require.NoError(t, store.Add(ctx, "new-product", 1))
	assert.Len(t, store.Items(), 3)
}

func TestStoreAddRejectsInvalidQuantity(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(cart.NewMockBackend(), cart.PreviewUserID)

	require.ErrorIs(t, store.Add(ctx, "p", 0), domain.ErrInvalidQuantity)
	require.ErrorIs(t, store.Add(ctx, "p", -3), domain.ErrInvalidQuantity)
}

func TestStoreMutationsRequireUser(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(newFlakyBackend(), "")

	require.ErrorIs(t, store.Add(ctx, "p", 1), domain.ErrNoUser)
	require.ErrorIs(t, store.Remove(ctx, "line"), domain.ErrNoUser)
	require.ErrorIs(t, store.Clear(ctx), domain.ErrNoUser)
	require.ErrorIs(t, store.Err(), domain.ErrNoUser)

	// Load without a user is a harmless no-op
	require.NoError(t, store.Load(ctx))
}

func TestStoreUpdateQuantityZeroRemoves(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(cart.NewMockBackend(), cart.PreviewUserID)
	require.NoError(t, store.Load(ctx))

	require.NoError(t, store.UpdateQuantity(ctx, "preview-line-1", 0))
	for _, item := range store.Items() {
		assert.NotEqual(t, "preview-line-1", item.ID)
	}

	require.NoError(t, store.Load(ctx))
	require.NoError(t, store.UpdateQuantity(ctx, "preview-line-2", -1))
	assert.Len(t, store.Items(), 1)
}

func TestStoreUpdateQuantitySetsValue(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(cart.NewMockBackend(), cart.PreviewUserID)
	require.NoError(t, store.Load(ctx))

	require.NoError(t, store.UpdateQuantity(ctx, "preview-line-1", 5))

	var got int
	for _, item := range store.Items() {
		if item.ID == "preview-line-1" {
			got = item.Quantity
		}
	}
	assert.Equal(t, 5, got)
}

func TestStoreFailedLoadLeavesEmptyCartAndError(t *testing.T) {
	ctx := context.Background()
	backend := newFlakyBackend()
	store := cart.NewStore(backend, "user-1")

	require.NoError(t, store.Load(ctx))
	assert.Len(t, store.Items(), 2)

	backend.trip(true)
	require.Error(t, store.Load(ctx))
	assert.Empty(t, store.Items(), "stale items must not survive a failed reload")
	assert.Error(t, store.Err())

	// Recovery: a later successful load clears the recorded error
	backend.trip(false)
	require.NoError(t, store.Load(ctx))
	assert.Len(t, store.Items(), 2)
	assert.NoError(t, store.Err())
}

func TestStoreFailedMutationKeepsItems(t *testing.T) {
	ctx := context.Background()
	backend := newFlakyBackend()
	store := cart.NewStore(backend, "user-1")
	require.NoError(t, store.Load(ctx))

	backend.trip(true)
	require.Error(t, store.Add(ctx, "new-product", 1))

	assert.Len(t, store.Items(), 2, "failed mutation leaves the list untouched")
	assert.Error(t, store.Err())
}

func TestStoreCancelledContextDoesNotCommit(t *testing.T) {
	store := cart.NewStore(cart.NewMockBackend(), cart.PreviewUserID)
	require.NoError(t, store.Load(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, store.Items(), 2, "response from a dead request must not overwrite state")
}

func TestStoreToggleVisibility(t *testing.T) {
	store := cart.NewStore(cart.NewMockBackend(), cart.PreviewUserID)

	assert.False(t, store.IsOpen())
	assert.True(t, store.ToggleVisibility())
	assert.True(t, store.IsOpen())
	assert.False(t, store.ToggleVisibility())
}

func TestStoreReset(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(cart.NewMockBackend(), cart.PreviewUserID)
	require.NoError(t, store.Load(ctx))
	require.NotEmpty(t, store.Items())

	store.Reset()
	assert.Empty(t, store.Items())
	assert.NoError(t, store.Err())
}

func TestStoreConcurrentAddsAllLand(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(cart.NewMockBackend(), cart.PreviewUserID)
	require.NoError(t, store.Load(ctx))
	before := store.ItemCount()

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Add(ctx, "preview-product-1", 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, before+workers, store.ItemCount())
	assert.Len(t, store.Items(), 2)
}

func TestServiceSessionRouting(t *testing.T) {
	svc := cart.NewService(nil)

	preview := svc.Session(true, "someone")
	assert.Equal(t, cart.PreviewUserID, preview.UserID())
	assert.Same(t, preview, svc.Session(true, "someone-else"), "all preview sessions share one store")

	userStore := svc.Session(false, "user-1")
	assert.Same(t, userStore, svc.Session(false, "user-1"), "same user resolves to the same store")
	assert.NotSame(t, userStore, svc.Session(false, "user-2"))

	anon := svc.Session(false, "")
	assert.Equal(t, "", anon.UserID())
	assert.NotSame(t, anon, svc.Session(false, ""))
}

func TestServiceEvict(t *testing.T) {
	svc := cart.NewService(nil)

	store := svc.Session(false, "user-1")
	svc.Evict("user-1")
	assert.NotSame(t, store, svc.Session(false, "user-1"), "evicted user gets a fresh store")
}

func TestServicePreviewSessionSurvivesMockMutations(t *testing.T) {
	ctx := context.Background()
	svc := cart.NewService(nil)

	store := svc.Session(true, "")
	require.NoError(t, store.Load(ctx))
	require.NoError(t, store.Add(ctx, "preview-product-2", 1))

	// A second preview request sees the mutated working list until reload
	again := svc.Session(true, "")
	assert.Equal(t, 4, again.ItemCount())

	require.NoError(t, again.Load(ctx))
	assert.Equal(t, 3, again.ItemCount())
}

func TestPreviewDatasetIsStable(t *testing.T) {
	a := cart.PreviewDataset()
	b := cart.PreviewDataset()
	require.Equal(t, a, b)

	a[0].Quantity = 99
	assert.Equal(t, 1, b[0].Quantity, "callers get independent copies")

	for _, item := range b {
		assert.Equal(t, cart.PreviewUserID, item.UserID)
		assert.False(t, item.AddedAt.IsZero())
		assert.True(t, item.AddedAt.Before(time.Now()))
	}
}
