// Package memory implements the domain cache and rate-limiter interfaces with
// process-local state. Both stores are per-instance only; a multi-instance
// deployment should swap in the redis implementations instead.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/clawbets/clawdash/internal/clock"
	"github.com/clawbets/clawdash/internal/domain"
)

// DefaultTTL is applied when Set is called with a non-positive ttl.
const DefaultTTL = 10 * time.Second

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// ResponseCache implements domain.ResponseCache with an in-process map.
// Expiry is checked lazily on read; there is no background eviction. Total
// entries are bounded so that hostile or buggy callers cannot grow the map
// without limit.
type ResponseCache struct {
	mu         sync.Mutex
	entries    map[string]cacheEntry
	maxEntries int
	clk        clock.Clock
}

// NewResponseCache creates a ResponseCache holding at most maxEntries values.
// A nil clk defaults to the system clock; maxEntries <= 0 defaults to 1024.
func NewResponseCache(maxEntries int, clk clock.Clock) *ResponseCache {
	if clk == nil {
		clk = clock.System{}
	}
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	return &ResponseCache{
		entries:    make(map[string]cacheEntry),
		maxEntries: maxEntries,
		clk:        clk,
	}
}

// Get returns the cached value for key, or domain.ErrNotFound on a miss. An
// entry past its expiry behaves as a miss and is deleted opportunistically.
func (c *ResponseCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if c.clk.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, domain.ErrNotFound
	}
	return entry.value, nil
}

// Set stores value under key for ttl. Concurrent sets for the same key are
// last-write-wins.
func (c *ResponseCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clk.Now()
	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.maxEntries {
		c.evictLocked(now)
	}
	c.entries[key] = cacheEntry{value: value, expiresAt: now.Add(ttl)}
	return nil
}

// evictLocked drops expired entries, then the soonest-expiring entry if the
// map is still full.
func (c *ResponseCache) evictLocked(now time.Time) {
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	if len(c.entries) < c.maxEntries {
		return
	}

	var victim string
	var victimExpiry time.Time
	for k, e := range c.entries {
		if victim == "" || e.expiresAt.Before(victimExpiry) {
			victim = k
			victimExpiry = e.expiresAt
		}
	}
	delete(c.entries, victim)
}

// Len reports the current entry count.
func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

var _ domain.ResponseCache = (*ResponseCache)(nil)
