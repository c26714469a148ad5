package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/velostore/storefront/internal/catalog/domain"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GORM product repository
func NewGormProductRepository(db *gorm.DB) (*GormProductRepository, error) {
	if err := db.AutoMigrate(&domain.Product{}); err != nil {
		return nil, fmt.Errorf("failed to migrate products table: %w", err)
	}
	return &GormProductRepository{db: db}, nil
}

// Create inserts a new product
func (r *GormProductRepository) Create(ctx context.Context, product *domain.Product) error {
	result := r.db.WithContext(ctx).Create(product)
	if result.Error != nil {
		return fmt.Errorf("failed to create product: %w", result.Error)
	}
	return nil
}

// FindByID retrieves a product by ID
func (r *GormProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	result := r.db.WithContext(ctx).First(&product, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product: %w", result.Error)
	}
	return &product, nil
}

// FindByIDs retrieves the products matching the given IDs. Missing IDs are
// silently absent from the result.
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}
	var products []domain.Product
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find products: %w", result.Error)
	}
	return products, nil
}

// FindAll retrieves all products ordered by name
func (r *GormProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	result := r.db.WithContext(ctx).Order("name ASC").Find(&products)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list products: %w", result.Error)
	}
	return products, nil
}

// FindByCategory retrieves products in a category, ordered by name.
// The "All" category matches everything.
func (r *GormProductRepository) FindByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	if category == "" || category == domain.CategoryAll {
		return r.FindAll(ctx)
	}
	var products []domain.Product
	result := r.db.WithContext(ctx).Where("category = ?", category).Order("name ASC").Find(&products)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list products by category: %w", result.Error)
	}
	return products, nil
}

// Update persists changes to an existing product
func (r *GormProductRepository) Update(ctx context.Context, product *domain.Product) error {
	result := r.db.WithContext(ctx).Save(product)
	if result.Error != nil {
		return fmt.Errorf("failed to update product: %w", result.Error)
	}
	return nil
}

// Delete removes a product by ID
func (r *GormProductRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.Product{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	return nil
}

// Count returns the total number of products
func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&domain.Product{}).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count products: %w", result.Error)
	}
	return count, nil
}
