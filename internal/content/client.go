package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/velostore/storefront/pkg/logger"
)

// Entry is a single published content entry
type Entry struct {
	ID   string                 `json:"id"`
	Name string                 `json:"name"`
	Data map[string]interface{} `json:"data"`
}

// queryResponse mirrors the content CDN's list envelope
type queryResponse struct {
	Results []Entry `json:"results"`
}

// Query narrows a content fetch to entries matching the shopper's context
type Query struct {
	Model          string
	Limit          int
	URLPath        string
	UserAttributes map[string]string
}

// Client fetches published entries from the headless CMS content CDN
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a content client from the environment
func NewClient() *Client {
	baseURL := os.Getenv("CONTENT_API_BASE_URL")
	if baseURL == "" {
		baseURL = "https://cdn.builder.io"
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  os.Getenv("CONTENT_API_KEY"),
		http: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Fetch returns the first matching entry for the query, or nil when the
// model has no published entry for this context.
func (c *Client) Fetch(ctx context.Context, q Query) (*Entry, error) {
	entries, err := c.FetchAll(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// FetchAll returns every matching entry for the query
func (c *Client) FetchAll(ctx context.Context, q Query) ([]Entry, error) {
	if q.Model == "" {
		return nil, fmt.Errorf("content model is required")
	}

	endpoint := fmt.Sprintf("%s/api/v3/content/%s", c.baseURL, url.PathEscape(q.Model))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build content request: %w", err)
	}

	params := req.URL.Query()
	params.Set("apiKey", c.apiKey)
	if q.Limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", q.Limit))
	}
	if q.URLPath != "" {
		params.Set("userAttributes.urlPath", q.URLPath)
	}
	for key, value := range q.UserAttributes {
		params.Set("userAttributes."+key, value)
	}
	req.URL.RawQuery = params.Encode()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("content request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logger.Logger.Warn().
			Int("status", resp.StatusCode).
			Str("model", q.Model).
			Bytes("body", body).
			Msg("Content CDN returned non-OK status")
		return nil, fmt.Errorf("content CDN returned status %d", resp.StatusCode)
	}

	var decoded queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode content response: %w", err)
	}
	return decoded.Results, nil
}
