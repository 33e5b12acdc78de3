package domain

import (
	"context"
	"time"
)

// ResponseCache is a short-lived read-through cache keyed by logical request
// identity (e.g. "markets", "bets:market:7"). Get returns ErrNotFound for
// both a miss and an expired entry; Set is last-write-wins.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RateLimiter admits or rejects requests under a sliding-window policy.
// Allow returns true when the request is admitted (and counted); a denied
// request is not counted against future windows.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
