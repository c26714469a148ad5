package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/velostore/storefront/internal/cart/domain"
)

var tracer = otel.Tracer("cart-repository")

// TracingCartRepository wraps any cart repository with OpenTelemetry spans
type TracingCartRepository struct {
	inner domain.CartRepository
}

func NewTracingCartRepository(inner domain.CartRepository) *TracingCartRepository {
	return &TracingCartRepository{inner: inner}
}

func (r *TracingCartRepository) FindByUser(ctx context.Context, userID string) ([]domain.CartItem, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByUser",
		trace.WithAttributes(attribute.String("cart.user_id", userID)),
	)
	defer span.End()

	items, err := r.inner.FindByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("cart.line_count", len(items)))
	return items, nil
}

func (r *TracingCartRepository) FindByUserAndProduct(ctx context.Context, userID, productID string) (*domain.CartItem, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByUserAndProduct",
		trace.WithAttributes(
			attribute.String("cart.user_id", userID),
			attribute.String("cart.product_id", productID),
		),
	)
	defer span.End()

	item, err := r.inner.FindByUserAndProduct(ctx, userID, productID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Bool("cart.line_exists", item != nil))
	return item, nil
}

func (r *TracingCartRepository) Insert(ctx context.Context, item *domain.CartItem) error {
	ctx, span := tracer.Start(ctx, "repository.Insert",
		trace.WithAttributes(
			attribute.String("cart.user_id", item.UserID),
			attribute.String("cart.product_id", item.ProductID),
			attribute.Int("cart.quantity", item.Quantity),
		),
	)
	defer span.End()

	if err := r.inner.Insert(ctx, item); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (r *TracingCartRepository) UpdateQuantity(ctx context.Context, lineID string, quantity int) error {
	ctx, span := tracer.Start(ctx, "repository.UpdateQuantity",
		trace.WithAttributes(
			attribute.String("cart.line_id", lineID),
			attribute.Int("cart.quantity", quantity),
		),
	)
	defer span.End()

	if err := r.inner.UpdateQuantity(ctx, lineID, quantity); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (r *TracingCartRepository) Delete(ctx context.Context, lineID string) error {
	ctx, span := tracer.Start(ctx, "repository.Delete",
		trace.WithAttributes(attribute.String("cart.line_id", lineID)),
	)
	defer span.End()

	if err := r.inner.Delete(ctx, lineID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (r *TracingCartRepository) DeleteByUser(ctx context.Context, userID string) error {
	ctx, span := tracer.Start(ctx, "repository.DeleteByUser",
		trace.WithAttributes(attribute.String("cart.user_id", userID)),
	)
	defer span.End()

	if err := r.inner.DeleteByUser(ctx, userID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
