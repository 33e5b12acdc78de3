package domain

import "context"

// ActivityStore archives activity items durably. Inserting an item whose ID
// already exists is a no-op, so the watcher can re-archive overlapping
// snapshots safely.
type ActivityStore interface {
	InsertBatch(ctx context.Context, items []ActivityItem) error
	ListRecent(ctx context.Context, limit int) ([]ActivityItem, error)
}
