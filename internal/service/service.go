// Package service contains the dashboard view services. Each service wraps
// the ledger reader with a read-through response cache: a hit serves the
// cached JSON snapshot, a miss does the full ledger round trip and stores the
// result for the cache TTL. All concurrent dashboard readers therefore share
// one upstream fetch per key per TTL window.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/clawbets/clawdash/internal/domain"
)

// DefaultTTL is how long a cached view stays fresh.
const DefaultTTL = 10 * time.Second

// readThrough returns the cached value for key, or fetches, caches and
// returns a fresh one. A corrupted cache entry is treated as a miss. Fetch
// errors are returned as-is and never cached.
func readThrough[T any](ctx context.Context, cache domain.ResponseCache, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	if raw, err := cache.Get(ctx, key); err == nil {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
	}

	v, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	raw, err := json.Marshal(v)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("service: marshal %s: %w", key, err)
	}
	if err := cache.Set(ctx, key, raw, ttl); err != nil {
		// A dead cache degrades to per-request fetches; the value itself
		// is still good.
		return v, nil
	}
	return v, nil
}
