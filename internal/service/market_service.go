package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clawbets/clawdash/internal/domain"
)

// MarketService serves market listings and single-market detail views.
type MarketService struct {
	ledger domain.LedgerReader
	cache  domain.ResponseCache
	ttl    time.Duration
	logger *slog.Logger
}

// NewMarketService creates a MarketService. A non-positive ttl falls back to
// DefaultTTL.
func NewMarketService(ledger domain.LedgerReader, cache domain.ResponseCache, ttl time.Duration, logger *slog.Logger) *MarketService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MarketService{
		ledger: ledger,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "market_service")),
	}
}

// Markets returns all markets, newest first.
func (s *MarketService) Markets(ctx context.Context) ([]domain.Market, error) {
	return readThrough(ctx, s.cache, "markets", s.ttl, s.ledger.ListMarkets)
}

// Market returns one market by numeric ID, including its vault balance.
func (s *MarketService) Market(ctx context.Context, marketID uint64) (domain.Market, error) {
	key := fmt.Sprintf("market:%d", marketID)
	return readThrough(ctx, s.cache, key, s.ttl, func(ctx context.Context) (domain.Market, error) {
		return s.ledger.GetMarket(ctx, marketID)
	})
}
