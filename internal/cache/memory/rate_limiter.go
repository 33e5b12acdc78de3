package memory

import (
	"context"
	"sync"
	"time"

	"github.com/clawbets/clawdash/internal/clock"
	"github.com/clawbets/clawdash/internal/domain"
)

// DefaultSweepInterval is how often the limiter drops idle client windows.
const DefaultSweepInterval = 5 * time.Minute

// RateLimiter implements domain.RateLimiter with a per-key sliding window of
// hit timestamps. The check-then-record step holds the lock for the whole
// admission decision, so concurrent requests from the same client never
// undercount.
type RateLimiter struct {
	mu   sync.Mutex
	hits map[string][]time.Time
	clk  clock.Clock
}

// NewRateLimiter creates a RateLimiter. A nil clk defaults to the system
// clock.
func NewRateLimiter(clk clock.Clock) *RateLimiter {
	if clk == nil {
		clk = clock.System{}
	}
	return &RateLimiter{
		hits: make(map[string][]time.Time),
		clk:  clk,
	}
}

// Allow reports whether a request for key is admitted under limit hits per
// window. Admitted requests are recorded; denied requests are not, so a
// rejected burst does not extend its own penalty.
func (rl *RateLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.clk.Now()
	cutoff := now.Add(-window)

	valid := rl.hits[key][:0]
	for _, t := range rl.hits[key] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= limit {
		rl.hits[key] = valid
		return false, nil
	}

	rl.hits[key] = append(valid, now)
	return true, nil
}

// Sweep removes clients whose hits have all aged past window, bounding memory
// for inactive clients.
func (rl *RateLimiter) Sweep(window time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.clk.Now().Add(-window)
	for key, hits := range rl.hits {
		valid := hits[:0]
		for _, t := range hits {
			if t.After(cutoff) {
				valid = append(valid, t)
			}
		}
		if len(valid) == 0 {
			delete(rl.hits, key)
		} else {
			rl.hits[key] = valid
		}
	}
}

// RunSweeper sweeps on the given interval until ctx is cancelled. It is
// independent of request traffic.
func (rl *RateLimiter) RunSweeper(ctx context.Context, interval, window time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Sweep(window)
		}
	}
}

// Tracked reports how many client windows are currently held.
func (rl *RateLimiter) Tracked() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.hits)
}

var _ domain.RateLimiter = (*RateLimiter)(nil)
