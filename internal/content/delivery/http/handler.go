package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/velostore/storefront/internal/content"
	"github.com/velostore/storefront/internal/session"
	"github.com/velostore/storefront/pkg/logger"
)

// ContentHandler proxies published CMS entries to the storefront
type ContentHandler struct {
	cached *content.CachedClient
	client *content.Client
}

// NewContentHandler creates a new content handler
func NewContentHandler(cached *content.CachedClient, client *content.Client) *ContentHandler {
	return &ContentHandler{cached: cached, client: client}
}

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func (h *ContentHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/content/{model}", h.GetContent).Methods("GET")
}

// GetContent handles GET /api/content/{model}. Editor sessions bypass the
// cache so draft publishes show up immediately.
func (h *ContentHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	model := mux.Vars(r)["model"]

	q := content.Query{
		Model:          model,
		URLPath:        r.URL.Query().Get("urlPath"),
		UserAttributes: map[string]string{},
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		q.Limit = limit
	}
	for key, values := range r.URL.Query() {
		if attr, ok := strings.CutPrefix(key, "userAttributes."); ok && len(values) > 0 {
			q.UserAttributes[attr] = values[0]
		}
	}

	var (
		entries []content.Entry
		err     error
	)
	if sess.Preview {
		entries, err = h.client.FetchAll(r.Context(), q)
	} else {
		entries, err = h.cached.FetchAll(r.Context(), q)
	}
	if err != nil {
		logger.Logger.Error().Err(err).Str("model", model).Msg("Failed to fetch content")
		respondJSON(w, http.StatusBadGateway, Response{
			Success: false,
			Error:   "Failed to fetch content",
		})
		return
	}
	if entries == nil {
		entries = []content.Entry{}
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string]interface{}{"results": entries},
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
