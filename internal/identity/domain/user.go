package domain

import (
	"context"
	"time"
)

// User represents a storefront account mirrored from the identity provider.
// The primary key is the provider's subject claim.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Email     string    `json:"email" gorm:"index"`
	Role      string    `json:"role" gorm:"default:customer"`
	Status    string    `json:"status" gorm:"default:active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Upsert(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
}
