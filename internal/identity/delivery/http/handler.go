package http

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/velostore/storefront/internal/cart"
	"github.com/velostore/storefront/internal/identity"
	"github.com/velostore/storefront/internal/session"
	"github.com/velostore/storefront/pkg/logger"
)

// UserHandler handles authentication and profile endpoints. The storefront
// never checks passwords itself, sign-in is delegated to the external
// identity provider and this handler only hands out the provider URLs.
type UserHandler struct {
	adapter *identity.Adapter
	carts   *cart.Service
}

// NewUserHandler creates a new user handler
func NewUserHandler(adapter *identity.Adapter, carts *cart.Service) *UserHandler {
	return &UserHandler{adapter: adapter, carts: carts}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/users/me", h.Me).Methods("GET")
	router.HandleFunc("/api/auth/login", h.Login).Methods("POST")
	router.HandleFunc("/api/auth/logout", h.Logout).Methods("POST")
}

// Me handles GET /api/users/me. Anonymous sessions get a null user, which
// the storefront treats as "show the sign-in button".
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	user := h.adapter.Resolve(r.Context(), sess.Preview, sess.Claims)

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    user,
	})
}

// Login handles POST /api/auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if sess.Preview {
		respondJSON(w, http.StatusConflict, Response{
			Success: false,
			Error:   "Sign-in is not available in preview mode",
		})
		return
	}

	loginURL := os.Getenv("IDP_LOGIN_URL")
	if loginURL == "" {
		respondJSON(w, http.StatusServiceUnavailable, Response{
			Success: false,
			Error:   "Identity provider is not configured",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string]string{"login_url": loginURL},
	})
}

// Logout handles POST /api/auth/logout. The cached cart session is dropped
// so the next sign-in starts from the persisted cart, not stale local state.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if sess.Preview {
		respondJSON(w, http.StatusConflict, Response{
			Success: false,
			Error:   "Sign-out is not available in preview mode",
		})
		return
	}

	if sess.UserID != "" {
		h.carts.Evict(sess.UserID)
		logger.Logger.Debug().Str("user_id", sess.UserID).Msg("Cart session evicted on logout")
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Signed out",
		Data:    map[string]string{"logout_url": os.Getenv("IDP_LOGOUT_URL")},
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
