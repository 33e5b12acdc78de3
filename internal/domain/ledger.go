package domain

import "context"

// LedgerReader is the read contract against the external ledger. Every call
// is a full round trip; callers are expected to sit behind the response cache
// rather than hit the ledger directly.
type LedgerReader interface {
	// ListMarkets returns all markets, newest first.
	ListMarkets(ctx context.Context) ([]Market, error)
	// GetMarket returns a single market by its numeric ID, including the
	// vault balance.
	GetMarket(ctx context.Context, marketID uint64) (Market, error)
	// ListBets returns all bets across every market, newest first. The
	// activity feed joins this against ListMarkets.
	ListBets(ctx context.Context) ([]Bet, error)
	// ListMarketBets returns all bets placed on the given market.
	ListMarketBets(ctx context.Context, marketID uint64) ([]Bet, error)
	// ListAgentBets returns all bets placed by the given agent address.
	ListAgentBets(ctx context.Context, agent string) ([]Bet, error)
	// GetReputation returns one agent's reputation record.
	GetReputation(ctx context.Context, agent string) (Reputation, error)
	// ListReputations returns reputation records for all agents that have
	// placed at least one bet, ranked by accuracy then bet count.
	ListReputations(ctx context.Context) ([]Reputation, error)
	// ProtocolStats returns the protocol summary account.
	ProtocolStats(ctx context.Context) (ProtocolStats, error)
}

// BetSubmitter is the write contract. It is consumed only to seed the
// optimistic overlay; transaction construction and signing live outside this
// layer.
type BetSubmitter interface {
	// SubmitBet places a wager and returns the transaction signature.
	SubmitBet(ctx context.Context, marketID uint64, position Position, amountSOL float64) (string, error)
}
