package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/clawbets/clawdash/internal/domain"
	"github.com/clawbets/clawdash/internal/feed"
)

// ActivityService serves the merged activity feed: market creations and bets
// across the whole program, interleaved newest first.
type ActivityService struct {
	ledger domain.LedgerReader
	cache  domain.ResponseCache
	ttl    time.Duration
	limit  int
	logger *slog.Logger
}

// NewActivityService creates an ActivityService. Non-positive ttl and limit
// fall back to DefaultTTL and feed.DefaultActivityLimit.
func NewActivityService(ledger domain.LedgerReader, cache domain.ResponseCache, ttl time.Duration, limit int, logger *slog.Logger) *ActivityService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if limit <= 0 {
		limit = feed.DefaultActivityLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityService{
		ledger: ledger,
		cache:  cache,
		ttl:    ttl,
		limit:  limit,
		logger: logger.With(slog.String("component", "activity_service")),
	}
}

// Feed returns the merged activity feed, capped to the configured limit.
func (s *ActivityService) Feed(ctx context.Context) ([]domain.ActivityItem, error) {
	return readThrough(ctx, s.cache, "activity", s.ttl, s.fetch)
}

// fetch pulls markets and bets in parallel and merges them.
func (s *ActivityService) fetch(ctx context.Context) ([]domain.ActivityItem, error) {
	var (
		markets []domain.Market
		bets    []domain.Bet
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		markets, err = s.ledger.ListMarkets(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		bets, err = s.ledger.ListBets(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return feed.Build(markets, bets, s.limit), nil
}
