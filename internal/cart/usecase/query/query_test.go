package query_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velostore/storefront/internal/cart"
	"github.com/velostore/storefront/internal/cart/domain"
	"github.com/velostore/storefront/internal/cart/usecase/query"
)

// stubCartRepo serves a fixed row set, or fails every call when err is set
type stubCartRepo struct {
	items []domain.CartItem
	err   error
}

func (r *stubCartRepo) FindByUser(ctx context.Context, userID string) ([]domain.CartItem, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.items, nil
}

func (r *stubCartRepo) FindByUserAndProduct(ctx context.Context, userID, productID string) (*domain.CartItem, error) {
	return nil, r.err
}

func (r *stubCartRepo) Insert(ctx context.Context, item *domain.CartItem) error {
	return r.err
}

func (r *stubCartRepo) UpdateQuantity(ctx context.Context, lineID string, quantity int) error {
	return r.err
}

func (r *stubCartRepo) Delete(ctx context.Context, lineID string) error {
	return r.err
}

func (r *stubCartRepo) DeleteByUser(ctx context.Context, userID string) error {
	return r.err
}

func fixtureItems() []domain.CartItem {
	return []domain.CartItem{
		{
			ID:        "line-1",
			UserID:    "user-1",
			ProductID: "product-1",
			Quantity:  2,
			AddedAt:   time.Now(),
			Product:   domain.ProductSnapshot{ID: "product-1", Name: "Ceramic Mug", Price: 12.00},
		},
		{
			ID:        "line-2",
			UserID:    "user-1",
			ProductID: "product-2",
			Quantity:  1,
			AddedAt:   time.Now().Add(-time.Minute),
			Product:   domain.ProductSnapshot{ID: "product-2", Name: "Oak Tray", Price: 30.00},
		},
	}
}

func TestGetCart(t *testing.T) {
	ctx := context.Background()
	svc := cart.NewService(&stubCartRepo{items: fixtureItems()})
	handler := query.NewGetCartHandler(svc)

	view, err := handler.Handle(ctx, query.GetCartQuery{UserID: "user-1"})
	require.NoError(t, err)

	assert.Len(t, view.Items, 2)
	assert.Equal(t, 3, view.ItemCount)
	assert.InDelta(t, 54.00, view.CartTotal, 0.001)
	assert.False(t, view.IsOpen)
	assert.Empty(t, view.Error)
}

func TestGetCartDegradesOnBackendFailure(t *testing.T) {
	ctx := context.Background()
	svc := cart.NewService(&stubCartRepo{err: errors.New("connection refused")})
	handler := query.NewGetCartHandler(svc)

	view, err := handler.Handle(ctx, query.GetCartQuery{UserID: "user-1"})
	require.NoError(t, err, "a backend failure must not break the page")

	assert.NotNil(t, view.Items)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.ItemCount)
	assert.Contains(t, view.Error, "connection refused")
}

func TestGetCartAnonymous(t *testing.T) {
	ctx := context.Background()
	svc := cart.NewService(&stubCartRepo{items: fixtureItems()})
	handler := query.NewGetCartHandler(svc)

	view, err := handler.Handle(ctx, query.GetCartQuery{})
	require.NoError(t, err)

	assert.Empty(t, view.Items, "no user means no cart rows")
}

func TestGetCartPreview(t *testing.T) {
	ctx := context.Background()
	svc := cart.NewService(&stubCartRepo{err: errors.New("must not be called")})
	handler := query.NewGetCartHandler(svc)

	view, err := handler.Handle(ctx, query.GetCartQuery{Preview: true})
	require.NoError(t, err)

	assert.Len(t, view.Items, 2)
	assert.Empty(t, view.Error)
}

func TestGetSummary(t *testing.T) {
	ctx := context.Background()
	svc := cart.NewService(&stubCartRepo{items: fixtureItems()})
	handler := query.NewGetSummaryHandler(svc)

	summary, err := handler.Handle(ctx, query.GetSummaryQuery{UserID: "user-1"})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.ItemCount)
	assert.InDelta(t, 54.00, summary.CartTotal, 0.001)
}

func TestGetSummaryDegradesToZero(t *testing.T) {
	ctx := context.Background()
	svc := cart.NewService(&stubCartRepo{err: errors.New("connection refused")})
	handler := query.NewGetSummaryHandler(svc)

	summary, err := handler.Handle(ctx, query.GetSummaryQuery{UserID: "user-1"})
	require.NoError(t, err)

	assert.Zero(t, summary.ItemCount)
	assert.Zero(t, summary.CartTotal)
}
