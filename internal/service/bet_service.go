package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clawbets/clawdash/internal/domain"
)

// BetService serves bet listings filtered by market or by agent.
type BetService struct {
	ledger domain.LedgerReader
	cache  domain.ResponseCache
	ttl    time.Duration
	logger *slog.Logger
}

// NewBetService creates a BetService. A non-positive ttl falls back to
// DefaultTTL.
func NewBetService(ledger domain.LedgerReader, cache domain.ResponseCache, ttl time.Duration, logger *slog.Logger) *BetService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BetService{
		ledger: ledger,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "bet_service")),
	}
}

// MarketBets returns all bets on one market, newest first.
func (s *BetService) MarketBets(ctx context.Context, marketID uint64) ([]domain.Bet, error) {
	key := fmt.Sprintf("bets:market:%d", marketID)
	return readThrough(ctx, s.cache, key, s.ttl, func(ctx context.Context) ([]domain.Bet, error) {
		return s.ledger.ListMarketBets(ctx, marketID)
	})
}

// AgentBets returns all bets placed by one agent, newest first.
func (s *BetService) AgentBets(ctx context.Context, agent string) ([]domain.Bet, error) {
	key := "bets:agent:" + agent
	return readThrough(ctx, s.cache, key, s.ttl, func(ctx context.Context) ([]domain.Bet, error) {
		return s.ledger.ListAgentBets(ctx, agent)
	})
}
