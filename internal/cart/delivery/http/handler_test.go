package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velostore/storefront/internal/cart"
	carthttp "github.com/velostore/storefront/internal/cart/delivery/http"
	"github.com/velostore/storefront/internal/cart/domain"
	"github.com/velostore/storefront/internal/content"
	"github.com/velostore/storefront/internal/session"
)

// testRouter is built once: the handler registers Prometheus collectors and
// a second registration in the same process would panic.
var (
	testRouter *mux.Router
	testRepo   *memoryCartRepo
)

func TestMain(m *testing.M) {
	testRepo = &memoryCartRepo{}
	handler := carthttp.NewCartHandler(cart.NewService(testRepo), nil)

	testRouter = mux.NewRouter()
	testRouter.Use(session.Middleware(content.NewDetector()))
	handler.RegisterRoutes(testRouter)
	handler.RegisterHealthCheck(testRouter, nil)

	os.Exit(m.Run())
}

type memoryCartRepo struct {
	mu   sync.Mutex
	rows []domain.CartItem
}

func (r *memoryCartRepo) FindByUser(ctx context.Context, userID string) ([]domain.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := []domain.CartItem{}
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].UserID == userID {
			items = append(items, r.rows[i])
		}
	}
	return items, nil
}

func (r *memoryCartRepo) FindByUserAndProduct(ctx context.Context, userID, productID string) (*domain.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.rows {
		if row.UserID == userID && row.ProductID == productID {
			copied := row
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memoryCartRepo) Insert(ctx context.Context, item *domain.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.rows {
		if r.rows[i].UserID == item.UserID && r.rows[i].ProductID == item.ProductID {
			r.rows[i].Quantity += item.Quantity
			return nil
		}
	}
	r.rows = append(r.rows, *item)
	return nil
}

func (r *memoryCartRepo) UpdateQuantity(ctx context.Context, lineID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.rows {
		if r.rows[i].ID == lineID {
			r.rows[i].Quantity = quantity
			return nil
		}
	}
	return domain.ErrItemNotFound
}

func (r *memoryCartRepo) Delete(ctx context.Context, lineID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.rows {
		if r.rows[i].ID == lineID {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrItemNotFound
}

func (r *memoryCartRepo) DeleteByUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.UserID != userID {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func doRequest(t *testing.T, method, target, userID string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	r := httptest.NewRequest(method, target, reader)
	if userID != "" {
		r.Header.Set("X-User-Id", userID)
	}

	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, r)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestGetCartPreview(t *testing.T) {
	w, resp := doRequest(t, "GET", "/api/cart?builder.preview=true", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)

	var view struct {
		Items     []domain.CartItem `json:"items"`
		ItemCount int               `json:"item_count"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &view))
	assert.Len(t, view.Items, 2)
	assert.Equal(t, 3, view.ItemCount)
}

func TestGetCartAnonymousIsEmpty(t *testing.T) {
	w, resp := doRequest(t, "GET", "/api/cart", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)

	var view struct {
		Items []domain.CartItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &view))
	assert.Empty(t, view.Items)
}

func TestAddItem(t *testing.T) {
	w, resp := doRequest(t, "POST", "/api/cart/items", "handler-user-add",
		map[string]interface{}{"product_id": "product-1", "quantity": 2})

	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)

	var payload struct {
		Items     []domain.CartItem `json:"items"`
		ItemCount int               `json:"item_count"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &payload))
	require.Len(t, payload.Items, 1)
	assert.Equal(t, 2, payload.ItemCount)
}

func TestAddItemAnonymousUnauthorized(t *testing.T) {
	w, resp := doRequest(t, "POST", "/api/cart/items", "",
		map[string]interface{}{"product_id": "product-1"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, resp.Success)
}

func TestAddItemInvalidBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/cart/items", bytes.NewReader([]byte("{not json")))
	r.Header.Set("X-User-Id", "handler-user-bad")

	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateQuantityUnknownLine(t *testing.T) {
	w, resp := doRequest(t, "PUT", "/api/cart/items/missing-line", "handler-user-upd",
		map[string]interface{}{"quantity": 3})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, resp.Success)
}

func TestUpdateAndRemoveFlow(t *testing.T) {
	_, resp := doRequest(t, "POST", "/api/cart/items", "handler-user-flow",
		map[string]interface{}{"product_id": "product-1", "quantity": 1})

	var payload struct {
		Items []domain.CartItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &payload))
	require.Len(t, payload.Items, 1)
	lineID := payload.Items[0].ID

	w, resp := doRequest(t, "PUT", "/api/cart/items/"+lineID, "handler-user-flow",
		map[string]interface{}{"quantity": 4})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(resp.Data, &payload))
	require.Len(t, payload.Items, 1)
	assert.Equal(t, 4, payload.Items[0].Quantity)

	w, resp = doRequest(t, "DELETE", "/api/cart/items/"+lineID, "handler-user-flow", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(resp.Data, &payload))
	assert.Empty(t, payload.Items)
}

func TestClearCart(t *testing.T) {
	_, _ = doRequest(t, "POST", "/api/cart/items", "handler-user-clear",
		map[string]interface{}{"product_id": "product-1", "quantity": 2})

	w, resp := doRequest(t, "DELETE", "/api/cart", "handler-user-clear", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)

	_, resp = doRequest(t, "GET", "/api/cart", "handler-user-clear", nil)
	var view struct {
		Items []domain.CartItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &view))
	assert.Empty(t, view.Items)
}

func TestToggleVisibility(t *testing.T) {
	w, resp := doRequest(t, "POST", "/api/cart/visibility", "handler-user-vis", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var data map[string]bool
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.True(t, data["is_open"])
}

func TestHealthCheck(t *testing.T) {
	w, resp := doRequest(t, "GET", "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
}
