package identity_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velostore/storefront/internal/cart"
	"github.com/velostore/storefront/internal/identity"
	"github.com/velostore/storefront/internal/identity/domain"
	"github.com/velostore/storefront/pkg/auth"
)

type recordingUserRepo struct {
	mu      sync.Mutex
	upserts []domain.User
	err     error
}

func (r *recordingUserRepo) Upsert(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	r.upserts = append(r.upserts, *user)
	return nil
}

func (r *recordingUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return nil, nil
}

func (r *recordingUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.upserts)
}

func claimsFor(subject, email, name, role string) *auth.Claims {
	return &auth.Claims{
		Email: email,
		Name:  name,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: subject,
		},
	}
}

func TestResolvePreviewWinsOverClaims(t *testing.T) {
	adapter := identity.NewAdapter(&recordingUserRepo{})

	user := adapter.Resolve(context.Background(), true, claimsFor("real-user", "real@example.com", "Real User", "admin"))
	require.NotNil(t, user)
	assert.Equal(t, cart.PreviewUserID, user.ID)
	assert.Equal(t, "Preview User", user.Name)
}

func TestResolvePreviewReturnsCopy(t *testing.T) {
	adapter := identity.NewAdapter(nil)

	user := adapter.Resolve(context.Background(), true, nil)
	require.NotNil(t, user)
	user.Name = "Mutated"

	assert.Equal(t, "Preview User", identity.PreviewUser.Name)
}

func TestResolveAnonymous(t *testing.T) {
	adapter := identity.NewAdapter(&recordingUserRepo{})

	assert.Nil(t, adapter.Resolve(context.Background(), false, nil))
	assert.Nil(t, adapter.Resolve(context.Background(), false, &auth.Claims{}))
}

func TestResolveNormalizesProfile(t *testing.T) {
	tests := []struct {
		name     string
		claims   *auth.Claims
		wantName string
		wantRole string
	}{
		{
			name:     "full profile",
			claims:   claimsFor("sub-1", "jo@example.com", "Jo Smith", "admin"),
			wantName: "Jo Smith",
			wantRole: "admin",
		},
		{
			name:     "name falls back to email",
			claims:   claimsFor("sub-2", "jo@example.com", "", ""),
			wantName: "jo@example.com",
			wantRole: "customer",
		},
		{
			name:     "name falls back to subject",
			claims:   claimsFor("sub-3", "", "  ", ""),
			wantName: "sub-3",
			wantRole: "customer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := identity.NewAdapter(&recordingUserRepo{})

			user := adapter.Resolve(context.Background(), false, tt.claims)
			require.NotNil(t, user)
			assert.Equal(t, tt.claims.Subject, user.ID)
			assert.Equal(t, tt.wantName, user.Name)
			assert.Equal(t, tt.wantRole, user.Role)
			assert.Equal(t, "active", user.Status)
		})
	}
}

func TestResolveSyncsProfileOnce(t *testing.T) {
	repo := &recordingUserRepo{}
	adapter := identity.NewAdapter(repo)
	claims := claimsFor("sub-1", "jo@example.com", "Jo Smith", "customer")

	for i := 0; i < 3; i++ {
		require.NotNil(t, adapter.Resolve(context.Background(), false, claims))
	}

	assert.Equal(t, 1, repo.count(), "profile sync runs once per subject")
}

func TestResolveSurvivesSyncFailure(t *testing.T) {
	repo := &recordingUserRepo{err: errors.New("database down")}
	adapter := identity.NewAdapter(repo)
	claims := claimsFor("sub-1", "jo@example.com", "Jo Smith", "customer")

	user := adapter.Resolve(context.Background(), false, claims)
	require.NotNil(t, user, "login must not depend on the database")

	// The failed sync is retried on the next resolve
	repo.mu.Lock()
	repo.err = nil
	repo.mu.Unlock()

	require.NotNil(t, adapter.Resolve(context.Background(), false, claims))
	assert.Equal(t, 1, repo.count())
}

func TestResolveWithoutRepository(t *testing.T) {
	adapter := identity.NewAdapter(nil)

	user := adapter.Resolve(context.Background(), false, claimsFor("sub-1", "jo@example.com", "Jo", "customer"))
	require.NotNil(t, user)
	assert.Equal(t, "sub-1", user.ID)
}
