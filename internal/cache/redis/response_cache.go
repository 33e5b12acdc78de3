package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clawbets/clawdash/internal/domain"
	"github.com/redis/go-redis/v9"
)

// defaultTTL mirrors the memory cache default for callers that pass ttl <= 0.
const defaultTTL = 10 * time.Second

// ResponseCache implements domain.ResponseCache with plain Redis strings.
// Expiry is delegated to Redis (SET PX), so a fleet of dashboard instances
// shares one freshness window per logical request.
type ResponseCache struct {
	rdb *redis.Client
}

// NewResponseCache creates a ResponseCache backed by the given Client.
func NewResponseCache(c *Client) *ResponseCache {
	return &ResponseCache{rdb: c.Underlying()}
}

func responseKey(key string) string {
	return "view:" + key
}

// Get returns the cached response body for key, or domain.ErrNotFound when
// the key is absent or expired.
func (rc *ResponseCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := rc.rdb.Get(ctx, responseKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redis: get view %s: %w", key, err)
	}
	return data, nil
}

// Set stores value under key for ttl. Last write wins.
func (rc *ResponseCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if err := rc.rdb.Set(ctx, responseKey(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set view %s: %w", key, err)
	}
	return nil
}

var _ domain.ResponseCache = (*ResponseCache)(nil)
