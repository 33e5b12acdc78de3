package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/clawbets/clawdash/internal/domain"
)

// ProtocolService serves the protocol summary view.
type ProtocolService struct {
	ledger domain.LedgerReader
	cache  domain.ResponseCache
	ttl    time.Duration
	logger *slog.Logger
}

// NewProtocolService creates a ProtocolService. A non-positive ttl falls back
// to DefaultTTL.
func NewProtocolService(ledger domain.LedgerReader, cache domain.ResponseCache, ttl time.Duration, logger *slog.Logger) *ProtocolService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProtocolService{
		ledger: ledger,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "protocol_service")),
	}
}

// Stats returns the protocol summary.
func (s *ProtocolService) Stats(ctx context.Context) (domain.ProtocolStats, error) {
	return readThrough(ctx, s.cache, "protocol", s.ttl, s.ledger.ProtocolStats)
}
