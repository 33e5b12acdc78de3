package feed

import (
	"sync"
	"time"

	"github.com/clawbets/clawdash/internal/clock"
	"github.com/clawbets/clawdash/internal/domain"
)

const (
	// DefaultQueueCapacity bounds how many alerts are visible at once.
	DefaultQueueCapacity = 3
	// DefaultNotificationLifetime is how long an alert lives before it
	// removes itself, regardless of queue pressure.
	DefaultNotificationLifetime = 5 * time.Second
)

// Queue is the bounded, auto-expiring alert queue fed by the deduplicator's
// "new" output. It is a pure sequence: it performs no deduplication of its
// own, because its input is already unique per batch.
type Queue struct {
	mu       sync.Mutex
	entries  []domain.Notification
	capacity int
	lifetime time.Duration
	clk      clock.Clock
}

// NewQueue creates a Queue. Zero capacity/lifetime pick the defaults; a nil
// clk defaults to the system clock.
func NewQueue(capacity int, lifetime time.Duration, clk clock.Clock) *Queue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	if lifetime <= 0 {
		lifetime = DefaultNotificationLifetime
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &Queue{
		capacity: capacity,
		lifetime: lifetime,
		clk:      clk,
	}
}

// Push prepends a notification per item, newest first, then truncates to
// capacity, discarding the oldest excess. Notification IDs reuse the item
// IDs, which the deduplicator guarantees unique per batch.
func (q *Queue) Push(items []domain.ActivityItem) {
	if len(items) == 0 {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.clk.Now()
	q.pruneLocked(now)

	incoming := items
	if len(incoming) > q.capacity {
		incoming = incoming[:q.capacity]
	}

	fresh := make([]domain.Notification, 0, len(incoming)+len(q.entries))
	for _, item := range incoming {
		fresh = append(fresh, domain.Notification{
			ID:        item.ID,
			Item:      item,
			CreatedAt: now,
		})
	}
	fresh = append(fresh, q.entries...)
	if len(fresh) > q.capacity {
		fresh = fresh[:q.capacity]
	}
	q.entries = fresh
}

// Active returns the notifications still alive, newest first. Expired
// entries are pruned as a side effect.
func (q *Queue) Active() []domain.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.pruneLocked(q.clk.Now())
	out := make([]domain.Notification, len(q.entries))
	copy(out, q.entries)
	return out
}

// Dismiss removes a notification before its lifetime elapses.
func (q *Queue) Dismiss(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.entries[:0]
	for _, n := range q.entries {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	q.entries = kept
}

// pruneLocked drops entries older than the lifetime.
func (q *Queue) pruneLocked(now time.Time) {
	kept := q.entries[:0]
	for _, n := range q.entries {
		if now.Sub(n.CreatedAt) < q.lifetime {
			kept = append(kept, n)
		}
	}
	q.entries = kept
}
