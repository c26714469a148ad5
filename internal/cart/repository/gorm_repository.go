package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/velostore/storefront/internal/cart/domain"
)

// cartItemRow is the persistence model for the cart_items table
type cartItemRow struct {
	ID        string    `gorm:"primaryKey"`
	UserID    string    `gorm:"not null;uniqueIndex:idx_cart_user_product"`
	ProductID string    `gorm:"not null;uniqueIndex:idx_cart_user_product"`
	Quantity  int       `gorm:"not null"`
	AddedAt   time.Time `gorm:"not null;index"`
}

func (cartItemRow) TableName() string {
	return "cart_items"
}

// cartProductRow is the scan target for the server-side join
type cartProductRow struct {
	ID                 string
	UserID             string
	ProductID          string
	Quantity           int
	AddedAt            time.Time
	ProductName        string
	ProductDescription string
	ProductPrice       float64
	ProductImage       string
	ProductCategory    string
}

// GormCartRepository persists cart line items via GORM using a server-side
// join to attach product snapshots.
type GormCartRepository struct {
	db *gorm.DB
}

func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

func (r *GormCartRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&cartItemRow{})
}

func (r *GormCartRepository) FindByUser(ctx context.Context, userID string) ([]domain.CartItem, error) {
	if userID == "" {
		return nil, fmt.Errorf("userID is empty")
	}

	var rows []cartProductRow
	err := r.db.WithContext(ctx).
		Table("cart_items").
		Select(`cart_items.id, cart_items.user_id, cart_items.product_id, cart_items.quantity, cart_items.added_at,
			products.name AS product_name, products.description AS product_description,
			products.price AS product_price, products.image AS product_image, products.category AS product_category`).
		Joins("LEFT JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.added_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}

	items := make([]domain.CartItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, domain.CartItem{
			ID:        row.ID,
			UserID:    row.UserID,
			ProductID: row.ProductID,
			Quantity:  row.Quantity,
			AddedAt:   row.AddedAt,
			Product: domain.ProductSnapshot{
				ID:          row.ProductID,
				Name:        row.ProductName,
				Description: row.ProductDescription,
				Price:       row.ProductPrice,
				Image:       row.ProductImage,
				Category:    row.ProductCategory,
			},
		})
	}

	return items, nil
}

func (r *GormCartRepository) FindByUserAndProduct(ctx context.Context, userID, productID string) (*domain.CartItem, error) {
	var row cartItemRow
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cart item: %w", err)
	}

	return &domain.CartItem{
		ID:        row.ID,
		UserID:    row.UserID,
		ProductID: row.ProductID,
		Quantity:  row.Quantity,
		AddedAt:   row.AddedAt,
	}, nil
}

// Insert creates a line item. The unique (user_id, product_id) index plus the
// conflict-increment clause make concurrent inserts for the same product fold
// into a single row instead of racing into duplicates.
func (r *GormCartRepository) Insert(ctx context.Context, item *domain.CartItem) error {
	row := cartItemRow{
		ID:        item.ID,
		UserID:    item.UserID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		AddedAt:   item.AddedAt,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity": gorm.Expr("cart_items.quantity + EXCLUDED.quantity"),
			}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to insert cart item: %w", err)
	}

	return nil
}

func (r *GormCartRepository) UpdateQuantity(ctx context.Context, lineID string, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&cartItemRow{}).
		Where("id = ?", lineID).
		Update("quantity", quantity)
	if result.Error != nil {
		return fmt.Errorf("failed to update quantity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrItemNotFound
	}

	return nil
}

func (r *GormCartRepository) Delete(ctx context.Context, lineID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", lineID).
		Delete(&cartItemRow{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrItemNotFound
	}

	return nil
}

func (r *GormCartRepository) DeleteByUser(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("userID is empty")
	}

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&cartItemRow{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}
