package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/clawbets/clawdash/internal/domain"
)

// ReputationService serves the agent leaderboard and per-agent records.
type ReputationService struct {
	ledger domain.LedgerReader
	cache  domain.ResponseCache
	ttl    time.Duration
	logger *slog.Logger
}

// NewReputationService creates a ReputationService. A non-positive ttl falls
// back to DefaultTTL.
func NewReputationService(ledger domain.LedgerReader, cache domain.ResponseCache, ttl time.Duration, logger *slog.Logger) *ReputationService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReputationService{
		ledger: ledger,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "reputation_service")),
	}
}

// Leaderboard returns agents with at least one bet, ranked by accuracy then
// bet count.
func (s *ReputationService) Leaderboard(ctx context.Context) ([]domain.Reputation, error) {
	return readThrough(ctx, s.cache, "leaderboard", s.ttl, s.ledger.ListReputations)
}

// Reputation returns one agent's record.
func (s *ReputationService) Reputation(ctx context.Context, agent string) (domain.Reputation, error) {
	key := "reputation:" + agent
	return readThrough(ctx, s.cache, key, s.ttl, func(ctx context.Context) (domain.Reputation, error) {
		return s.ledger.GetReputation(ctx, agent)
	})
}
