package content

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/velostore/storefront/pkg/logger"
)

const defaultCacheTTL = 5 * time.Minute

// CachedClient wraps a content client with a Redis read-through cache.
// Cache failures degrade to direct CDN fetches.
type CachedClient struct {
	client *Client
	redis  *redis.Client
	ttl    time.Duration
}

// NewCachedClient creates a caching content client. A nil Redis client
// disables caching entirely.
func NewCachedClient(client *Client, redisClient *redis.Client) *CachedClient {
	ttl := defaultCacheTTL
	if v := os.Getenv("CONTENT_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			ttl = parsed
		}
	}
	return &CachedClient{client: client, redis: redisClient, ttl: ttl}
}

// FetchAll returns matching entries, serving repeated queries from Redis
func (c *CachedClient) FetchAll(ctx context.Context, q Query) ([]Entry, error) {
	if c.redis == nil {
		return c.client.FetchAll(ctx, q)
	}

	key := cacheKey(q)
	if cached, err := c.redis.Get(ctx, key).Result(); err == nil {
		var entries []Entry
		if err := json.Unmarshal([]byte(cached), &entries); err == nil {
			return entries, nil
		}
	} else if err != redis.Nil {
		logger.Logger.Debug().Err(err).Str("key", key).Msg("Content cache read failed")
	}

	entries, err := c.client.FetchAll(ctx, q)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(entries); err == nil {
		if err := c.redis.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			logger.Logger.Debug().Err(err).Str("key", key).Msg("Content cache write failed")
		}
	}
	return entries, nil
}

// Fetch returns the first matching entry, or nil when none is published
func (c *CachedClient) Fetch(ctx context.Context, q Query) (*Entry, error) {
	entries, err := c.FetchAll(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

func cacheKey(q Query) string {
	parts := []string{
		"limit=" + fmt.Sprintf("%d", q.Limit),
		"urlPath=" + q.URLPath,
	}
	for key, value := range q.UserAttributes {
		parts = append(parts, key+"="+value)
	}
	sort.Strings(parts)

	sum := sha256.Sum256([]byte(strings.Join(parts, "&")))
	return "content:" + q.Model + ":" + hex.EncodeToString(sum[:8])
}
