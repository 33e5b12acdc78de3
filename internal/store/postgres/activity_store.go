package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clawbets/clawdash/internal/domain"
)

// ActivityStore implements domain.ActivityStore using PostgreSQL.
type ActivityStore struct {
	pool *pgxpool.Pool
}

// NewActivityStore creates an ActivityStore backed by the given pool.
func NewActivityStore(pool *pgxpool.Pool) *ActivityStore {
	return &ActivityStore{pool: pool}
}

// InsertBatch archives activity items using a pgx Batch. Items whose ID is
// already archived are silently skipped via ON CONFLICT DO NOTHING.
func (s *ActivityStore) InsertBatch(ctx context.Context, items []domain.ActivityItem) error {
	if len(items) == 0 {
		return nil
	}

	const query = `
		INSERT INTO activity (
			id, kind, ts, agent,
			market_id, market_pk, market_title, amount, position
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query,
			item.ID, string(item.Kind), item.Timestamp, item.Agent,
			int64(item.Details.MarketID), item.Details.MarketPublicKey,
			item.Details.MarketTitle, int64(item.Details.Amount),
			string(item.Details.Position),
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range items {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("postgres: insert activity batch: %w", err)
		}
	}
	return nil
}

// ListRecent returns the most recently archived items, newest first.
func (s *ActivityStore) ListRecent(ctx context.Context, limit int) ([]domain.ActivityItem, error) {
	if limit <= 0 {
		limit = 50
	}

	const query = `
		SELECT id, kind, ts, agent,
			market_id, market_pk, market_title, amount, position
		FROM activity
		ORDER BY ts DESC
		LIMIT $1`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list recent activity: %w", err)
	}
	defer rows.Close()

	var items []domain.ActivityItem
	for rows.Next() {
		var (
			item     domain.ActivityItem
			kind     string
			marketID int64
			amount   int64
			position string
		)
		if err := rows.Scan(
			&item.ID, &kind, &item.Timestamp, &item.Agent,
			&marketID, &item.Details.MarketPublicKey,
			&item.Details.MarketTitle, &amount, &position,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan activity row: %w", err)
		}
		item.Kind = domain.ActivityKind(kind)
		item.Details.MarketID = uint64(marketID)
		item.Details.Amount = uint64(amount)
		item.Details.AmountSOL = domain.ToSOL(uint64(amount))
		item.Details.Position = domain.Position(position)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate activity rows: %w", err)
	}
	return items, nil
}

var _ domain.ActivityStore = (*ActivityStore)(nil)
