package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/velostore/storefront/internal/cart/domain"
)

// PostgresCartRepository is the plain database/sql implementation of the cart
// gateway. It attaches product snapshots with a client-side two-step
// fetch-then-match instead of a server-side join; both strategies produce the
// same denormalized result.
type PostgresCartRepository struct {
	db *sql.DB
}

func NewPostgresCartRepository(db *sql.DB) *PostgresCartRepository {
	return &PostgresCartRepository{db: db}
}

func (r *PostgresCartRepository) FindByUser(ctx context.Context, userID string) ([]domain.CartItem, error) {
	if userID == "" {
		return nil, fmt.Errorf("userID is empty")
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, product_id, quantity, added_at
		FROM cart_items
		WHERE user_id = $1
		ORDER BY added_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	var items []domain.CartItem
	seen := make(map[string]bool)
	var productIDs []string

	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			productIDs = append(productIDs, item.ProductID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cart items: %w", err)
	}

	if len(items) == 0 {
		return []domain.CartItem{}, nil
	}

	snapshots, err := r.fetchSnapshots(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if snapshot, ok := snapshots[items[i].ProductID]; ok {
			items[i].Product = snapshot
		}
	}

	return items, nil
}

func (r *PostgresCartRepository) fetchSnapshots(ctx context.Context, productIDs []string) (map[string]domain.ProductSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, price, image, category
		FROM products
		WHERE id = ANY($1)
	`, pq.Array(productIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	snapshots := make(map[string]domain.ProductSnapshot, len(productIDs))
	for rows.Next() {
		var s domain.ProductSnapshot
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Price, &s.Image, &s.Category); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		snapshots[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return snapshots, nil
}

func (r *PostgresCartRepository) FindByUserAndProduct(ctx context.Context, userID, productID string) (*domain.CartItem, error) {
	var item domain.CartItem
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, product_id, quantity, added_at
		FROM cart_items
		WHERE user_id = $1 AND product_id = $2
	`, userID, productID).Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.AddedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cart item: %w", err)
	}

	return &item, nil
}

func (r *PostgresCartRepository) Insert(ctx context.Context, item *domain.CartItem) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cart_items (id, user_id, product_id, quantity, added_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`, item.ID, item.UserID, item.ProductID, item.Quantity, item.AddedAt)
	if err != nil {
		return fmt.Errorf("failed to insert cart item: %w", err)
	}

	return nil
}

func (r *PostgresCartRepository) UpdateQuantity(ctx context.Context, lineID string, quantity int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE cart_items SET quantity = $1 WHERE id = $2
	`, quantity, lineID)
	if err != nil {
		return fmt.Errorf("failed to update quantity: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrItemNotFound
	}

	return nil
}

func (r *PostgresCartRepository) Delete(ctx context.Context, lineID string) error {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items WHERE id = $1
	`, lineID)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrItemNotFound
	}

	return nil
}

func (r *PostgresCartRepository) DeleteByUser(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("userID is empty")
	}

	_, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items WHERE user_id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}
