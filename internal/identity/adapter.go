package identity

import (
	"context"
	"strings"
	"sync"

	"github.com/velostore/storefront/internal/cart"
	"github.com/velostore/storefront/internal/identity/domain"
	"github.com/velostore/storefront/pkg/auth"
	"github.com/velostore/storefront/pkg/logger"
)

// PreviewUser is the fixed account every CMS editor session resolves to.
// Its ID matches the cart store's preview session so editors always see
// the sample cart.
var PreviewUser = domain.User{
	ID:     cart.PreviewUserID,
	Name:   "Preview User",
	Email:  "preview@example.com",
	Role:   "customer",
	Status: "active",
}

// Adapter resolves the current user from verified token claims and keeps the
// local users table in sync with the identity provider.
type Adapter struct {
	users  domain.UserRepository
	synced sync.Map
}

// NewAdapter creates a new identity adapter
func NewAdapter(users domain.UserRepository) *Adapter {
	return &Adapter{users: users}
}

// Resolve maps a request's auth state to a storefront user. Preview sessions
// short-circuit to the fixed preview account. Unauthenticated requests
// resolve to nil, which is a valid anonymous state, not an error.
func (a *Adapter) Resolve(ctx context.Context, preview bool, claims *auth.Claims) *domain.User {
	if preview {
		u := PreviewUser
		return &u
	}
	if claims == nil || claims.Subject == "" {
		return nil
	}

	user := normalize(claims)
	a.syncProfile(ctx, user)
	return user
}

// normalize maps provider claims onto the local user shape, filling the
// gaps some providers leave in the profile.
func normalize(claims *auth.Claims) *domain.User {
	name := strings.TrimSpace(claims.Name)
	if name == "" {
		name = claims.Email
	}
	if name == "" {
		name = claims.Subject
	}
	role := claims.Role
	if role == "" {
		role = "customer"
	}
	return &domain.User{
		ID:     claims.Subject,
		Name:   name,
		Email:  claims.Email,
		Role:   role,
		Status: "active",
	}
}

// syncProfile mirrors the profile into the users table once per subject per
// process. Sync failures are logged and swallowed, login must not depend on
// the database being reachable.
func (a *Adapter) syncProfile(ctx context.Context, user *domain.User) {
	if a.users == nil {
		return
	}
	if _, already := a.synced.LoadOrStore(user.ID, struct{}{}); already {
		return
	}
	if err := a.users.Upsert(ctx, user); err != nil {
		a.synced.Delete(user.ID)
		logger.Logger.Warn().
			Err(err).
			Str("user_id", user.ID).
			Msg("Failed to sync user profile")
	}
}
