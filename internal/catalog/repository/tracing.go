package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/velostore/storefront/internal/catalog/domain"
)

// TracingProductRepository decorates a ProductRepository with OpenTelemetry spans
type TracingProductRepository struct {
	next   domain.ProductRepository
	tracer trace.Tracer
}

// NewTracingProductRepository wraps a product repository with tracing
func NewTracingProductRepository(next domain.ProductRepository) *TracingProductRepository {
	return &TracingProductRepository{
		next:   next,
		tracer: otel.Tracer("product-repository"),
	}
}

func (r *TracingProductRepository) span(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("db.system", "postgresql"), attribute.String("db.table", "products"))
	return r.tracer.Start(ctx, "repository."+op, trace.WithAttributes(attrs...))
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Create inserts a new product
func (r *TracingProductRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := r.span(ctx, "CreateProduct", attribute.String("product.id", product.ID))
	err := r.next.Create(ctx, product)
	finish(span, err)
	return err
}

// FindByID retrieves a product by ID
func (r *TracingProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := r.span(ctx, "FindProductByID", attribute.String("product.id", id))
	product, err := r.next.FindByID(ctx, id)
	finish(span, err)
	return product, err
}

// FindByIDs retrieves products matching the given IDs
func (r *TracingProductRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	ctx, span := r.span(ctx, "FindProductsByIDs", attribute.Int("product.id_count", len(ids)))
	products, err := r.next.FindByIDs(ctx, ids)
	finish(span, err)
	return products, err
}

// FindAll retrieves all products
func (r *TracingProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	ctx, span := r.span(ctx, "FindAllProducts")
	products, err := r.next.FindAll(ctx)
	span.SetAttributes(attribute.Int("product.count", len(products)))
	finish(span, err)
	return products, err
}

// FindByCategory retrieves products in a category
func (r *TracingProductRepository) FindByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	ctx, span := r.span(ctx, "FindProductsByCategory", attribute.String("product.category", category))
	products, err := r.next.FindByCategory(ctx, category)
	finish(span, err)
	return products, err
}

// Update persists changes to an existing product
func (r *TracingProductRepository) Update(ctx context.Context, product *domain.Product) error {
	ctx, span := r.span(ctx, "UpdateProduct", attribute.String("product.id", product.ID))
	err := r.next.Update(ctx, product)
	finish(span, err)
	return err
}

// Delete removes a product by ID
func (r *TracingProductRepository) Delete(ctx context.Context, id string) error {
	ctx, span := r.span(ctx, "DeleteProduct", attribute.String("product.id", id))
	err := r.next.Delete(ctx, id)
	finish(span, err)
	return err
}

// Count returns the total number of products
func (r *TracingProductRepository) Count(ctx context.Context) (int64, error) {
	ctx, span := r.span(ctx, "CountProducts")
	count, err := r.next.Count(ctx)
	finish(span, err)
	return count, err
}
