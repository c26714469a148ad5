package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velostore/storefront/internal/content"
	"github.com/velostore/storefront/internal/session"
	"github.com/velostore/storefront/pkg/auth"
)

func resolveSession(t *testing.T, mutate func(r *http.Request)) session.Session {
	t.Helper()

	var got session.Session
	router := mux.NewRouter()
	router.Use(session.Middleware(content.NewDetector()))
	router.HandleFunc("/probe", func(w http.ResponseWriter, r *http.Request) {
		got = session.FromContext(r.Context())
	})

	r := httptest.NewRequest("GET", "/probe", nil)
	if mutate != nil {
		mutate(r)
	}
	router.ServeHTTP(httptest.NewRecorder(), r)

	return got
}

func TestMiddlewareAnonymous(t *testing.T) {
	sess := resolveSession(t, nil)

	assert.Empty(t, sess.UserID)
	assert.Nil(t, sess.Claims)
	assert.False(t, sess.Preview)
}

func TestMiddlewareBearerToken(t *testing.T) {
	token, err := auth.GenerateToken("sub-1", "jo@example.com", "Jo Smith", "customer", time.Hour)
	require.NoError(t, err)

	sess := resolveSession(t, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, "sub-1", sess.UserID)
	require.NotNil(t, sess.Claims)
	assert.Equal(t, "jo@example.com", sess.Claims.Email)
}

func TestMiddlewareInvalidTokenStaysAnonymous(t *testing.T) {
	sess := resolveSession(t, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer garbage")
	})

	assert.Empty(t, sess.UserID)
	assert.Nil(t, sess.Claims)
}

func TestMiddlewareGatewayHeaders(t *testing.T) {
	sess := resolveSession(t, func(r *http.Request) {
		r.Header.Set("X-User-Id", "sub-9")
		r.Header.Set("X-User-Email", "gw@example.com")
		r.Header.Set("X-User-Name", "Gateway User")
	})

	assert.Equal(t, "sub-9", sess.UserID)
	require.NotNil(t, sess.Claims)
	assert.Equal(t, "sub-9", sess.Claims.Subject)
	assert.Equal(t, "gw@example.com", sess.Claims.Email)
}

func TestMiddlewareTokenWinsOverGatewayHeaders(t *testing.T) {
	token, err := auth.GenerateToken("token-user", "jo@example.com", "Jo", "customer", time.Hour)
	require.NoError(t, err)

	sess := resolveSession(t, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
		r.Header.Set("X-User-Id", "header-user")
	})

	assert.Equal(t, "token-user", sess.UserID)
}

func TestMiddlewarePreviewMarker(t *testing.T) {
	sess := resolveSession(t, func(r *http.Request) {
		r.Header.Set("X-Builder-Preview", "true")
	})

	assert.True(t, sess.Preview)
}

func TestFromContextWithoutMiddleware(t *testing.T) {
	sess := session.FromContext(context.Background())

	assert.Empty(t, sess.UserID)
	assert.False(t, sess.Preview)
}
