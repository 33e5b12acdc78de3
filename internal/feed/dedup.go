package feed

import (
	"sync"

	"github.com/clawbets/clawdash/internal/domain"
)

// DefaultSeenBound caps the deduplicator's memory of past item IDs. It only
// needs to cover more IDs than one snapshot can carry, with slack for items
// that age out of the snapshot window and never return.
const DefaultSeenBound = 4096

// Deduplicator consumes full activity snapshots and reports only the items
// never observed before. The very first snapshot seeds the seen set and
// reports nothing, so pre-existing history is not misreported as new the
// moment the feed starts. Safe for concurrent use.
type Deduplicator struct {
	mu     sync.Mutex
	seen   map[string]struct{}
	order  []string // insertion order, for FIFO eviction
	bound  int
	primed bool
}

// NewDeduplicator creates a Deduplicator remembering at most bound IDs
// (<= 0 means DefaultSeenBound).
func NewDeduplicator(bound int) *Deduplicator {
	if bound <= 0 {
		bound = DefaultSeenBound
	}
	return &Deduplicator{
		seen:  make(map[string]struct{}),
		bound: bound,
	}
}

// Apply records the snapshot and returns the items whose IDs were unseen, in
// snapshot order (the producer already sorts most-recent first; Apply does
// not re-sort). On the first call it returns nil regardless of snapshot
// size: the initial snapshot is history, not news.
func (d *Deduplicator) Apply(snapshot []domain.ActivityItem) []domain.ActivityItem {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.primed {
		d.primed = true
		for _, item := range snapshot {
			d.recordLocked(item.ID)
		}
		return nil
	}

	var fresh []domain.ActivityItem
	for _, item := range snapshot {
		if _, ok := d.seen[item.ID]; ok {
			continue
		}
		d.recordLocked(item.ID)
		fresh = append(fresh, item)
	}
	return fresh
}

// Seen reports whether id has been observed.
func (d *Deduplicator) Seen(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.seen[id]
	return ok
}

// recordLocked inserts id, evicting the oldest remembered ID when over bound.
func (d *Deduplicator) recordLocked(id string) {
	if _, ok := d.seen[id]; ok {
		return
	}
	d.seen[id] = struct{}{}
	d.order = append(d.order, id)

	for len(d.order) > d.bound {
		oldest := d.order[0]
		d.order = d.order[1:]
		delete(d.seen, oldest)
	}
}
