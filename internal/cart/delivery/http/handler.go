package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/velostore/storefront/internal/cart"
	"github.com/velostore/storefront/internal/cart/domain"
	"github.com/velostore/storefront/internal/cart/usecase/command"
	"github.com/velostore/storefront/internal/cart/usecase/query"
	"github.com/velostore/storefront/internal/session"
	"github.com/velostore/storefront/kafka"
	"github.com/velostore/storefront/pkg/logger"
)

// CartHandler handles HTTP requests for the cart using CQRS pattern
type CartHandler struct {
	// Command handlers
	addHandler    *command.AddItemHandler
	updateHandler *command.UpdateQuantityHandler
	removeHandler *command.RemoveItemHandler
	clearHandler  *command.ClearCartHandler

	// Query handlers
	getCartHandler *query.GetCartHandler
	summaryHandler *query.GetSummaryHandler

	carts          *cart.Service
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	requestSummary *prometheus.SummaryVec
}

// NewCartHandler creates a new cart handler with CQRS pattern (manual DI for backwards compatibility)
func NewCartHandler(carts *cart.Service, publisher *kafka.Publisher) *CartHandler {
	return newCartHandler(
		command.NewAddItemHandler(carts, publisher),
		command.NewUpdateQuantityHandler(carts, publisher),
		command.NewRemoveItemHandler(carts, publisher),
		command.NewClearCartHandler(carts, publisher),
		query.NewGetCartHandler(carts),
		query.NewGetSummaryHandler(carts),
		carts,
	)
}

// NewCartHandlerWithDI creates a new cart handler using dependency injection
// This is used by Wire for automatic dependency injection
func NewCartHandlerWithDI(
	addHandler *command.AddItemHandler,
	updateHandler *command.UpdateQuantityHandler,
	removeHandler *command.RemoveItemHandler,
	clearHandler *command.ClearCartHandler,
	getCartHandler *query.GetCartHandler,
	summaryHandler *query.GetSummaryHandler,
	carts *cart.Service,
) *CartHandler {
	return newCartHandler(
		addHandler, updateHandler, removeHandler, clearHandler,
		getCartHandler, summaryHandler,
		carts,
	)
}

// newCartHandler is the internal constructor used by both manual and Wire DI
func newCartHandler(
	addHandler *command.AddItemHandler,
	updateHandler *command.UpdateQuantityHandler,
	removeHandler *command.RemoveItemHandler,
	clearHandler *command.ClearCartHandler,
	getCartHandler *query.GetCartHandler,
	summaryHandler *query.GetSummaryHandler,
	carts *cart.Service,
) *CartHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_service_requests_total",
			Help: "Total number of requests to cart service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cart_service_request_duration_seconds",
			Help:    "Duration of cart service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Summary metric for percentile calculation (p50, p90, p95, p99)
	requestSummary := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "cart_service_request_duration_summary",
			Help: "Summary of request durations with percentiles (client-side quantiles)",
			Objectives: map[float64]float64{
				0.5:  0.05,
				0.9:  0.01,
				0.95: 0.01,
				0.99: 0.001,
			},
			MaxAge: 10 * time.Minute,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(requestSummary)

	return &CartHandler{
		addHandler:     addHandler,
		updateHandler:  updateHandler,
		removeHandler:  removeHandler,
		clearHandler:   clearHandler,
		getCartHandler: getCartHandler,
		summaryHandler: summaryHandler,
		carts:          carts,
		requestCounter: requestCounter,
		requestLatency: requestLatency,
		requestSummary: requestSummary,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *CartHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()

		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestSummary.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

func (h *CartHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/cart", h.metricsMiddleware("/api/cart", h.GetCart)).Methods("GET")
	router.HandleFunc("/api/cart/summary", h.metricsMiddleware("/api/cart/summary", h.GetSummary)).Methods("GET")
	router.HandleFunc("/api/cart/items", h.metricsMiddleware("/api/cart/items", h.AddItem)).Methods("POST")
	router.HandleFunc("/api/cart/items/{id}", h.metricsMiddleware("/api/cart/items/{id}", h.UpdateQuantity)).Methods("PUT")
	router.HandleFunc("/api/cart/items/{id}", h.metricsMiddleware("/api/cart/items/{id}", h.RemoveItem)).Methods("DELETE")
	router.HandleFunc("/api/cart", h.metricsMiddleware("/api/cart", h.ClearCart)).Methods("DELETE")
	router.HandleFunc("/api/cart/visibility", h.metricsMiddleware("/api/cart/visibility", h.ToggleVisibility)).Methods("POST")
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	view, err := h.getCartHandler.Handle(r.Context(), query.GetCartQuery{
		UserID:  sess.UserID,
		Preview: sess.Preview,
	})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to get cart")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to get cart",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    view,
	})
}

// GetSummary handles GET /api/cart/summary
func (h *CartHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	summary, err := h.summaryHandler.Handle(r.Context(), query.GetSummaryQuery{
		UserID:  sess.UserID,
		Preview: sess.Preview,
	})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to get cart summary")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to get cart summary",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    summary,
	})
}

// AddItem handles POST /api/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	items, err := h.addHandler.Handle(r.Context(), command.AddItemCommand{
		UserID:    sess.UserID,
		Preview:   sess.Preview,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		h.respondCartError(w, err, "Failed to add to cart")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Item added to cart",
		Data:    cartPayload(items),
	})
}

// UpdateQuantity handles PUT /api/cart/items/{id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	lineItemID := mux.Vars(r)["id"]

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	items, err := h.updateHandler.Handle(r.Context(), command.UpdateQuantityCommand{
		UserID:     sess.UserID,
		Preview:    sess.Preview,
		LineItemID: lineItemID,
		Quantity:   req.Quantity,
	})
	if err != nil {
		h.respondCartError(w, err, "Failed to update quantity")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Quantity updated",
		Data:    cartPayload(items),
	})
}

// RemoveItem handles DELETE /api/cart/items/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	lineItemID := mux.Vars(r)["id"]

	items, err := h.removeHandler.Handle(r.Context(), command.RemoveItemCommand{
		UserID:     sess.UserID,
		Preview:    sess.Preview,
		LineItemID: lineItemID,
	})
	if err != nil {
		h.respondCartError(w, err, "Failed to remove from cart")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Item removed from cart",
		Data:    cartPayload(items),
	})
}

// ClearCart handles DELETE /api/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	if err := h.clearHandler.Handle(r.Context(), command.ClearCartCommand{
		UserID:  sess.UserID,
		Preview: sess.Preview,
	}); err != nil {
		h.respondCartError(w, err, "Failed to clear cart")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Cart cleared",
		Data:    cartPayload([]domain.CartItem{}),
	})
}

// ToggleVisibility handles POST /api/cart/visibility
func (h *CartHandler) ToggleVisibility(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	store := h.carts.Session(sess.Preview, sess.UserID)
	open := store.ToggleVisibility()

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string]bool{"is_open": open},
	})
}

func (h *CartHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				respondJSON(w, http.StatusServiceUnavailable, Response{
					Success: false,
					Error:   "Database unavailable",
				})
				return
			}
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Storefront service is healthy",
		})
	}).Methods("GET")
}

// respondCartError maps domain errors onto HTTP statuses
func (h *CartHandler) respondCartError(w http.ResponseWriter, err error, fallback string) {
	logger.Logger.Error().Err(err).Msg(fallback)

	status := http.StatusBadGateway
	switch {
	case errors.Is(err, domain.ErrNoUser):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrItemNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidQuantity):
		status = http.StatusBadRequest
	}

	respondJSON(w, status, Response{
		Success: false,
		Error:   err.Error(),
	})
}

func cartPayload(items []domain.CartItem) map[string]interface{} {
	if items == nil {
		items = []domain.CartItem{}
	}
	return map[string]interface{}{
		"items":      items,
		"item_count": domain.ItemCount(items),
		"cart_total": domain.CartTotal(items),
	}
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
