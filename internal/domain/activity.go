package domain

// ActivityKind distinguishes the two event types the feed reports.
type ActivityKind string

const (
	ActivityBet           ActivityKind = "bet"
	ActivityMarketCreated ActivityKind = "market_created"
)

// ActivityDetails carries the kind-specific payload of an ActivityItem.
// Bet items fill the amount and position fields; market-creation items
// leave them zero.
type ActivityDetails struct {
	MarketID        uint64   `json:"marketId,omitempty"`
	MarketPublicKey string   `json:"marketPublicKey,omitempty"`
	MarketTitle     string   `json:"marketTitle,omitempty"`
	Amount          uint64   `json:"amount,omitempty"`
	AmountSOL       float64  `json:"amountSol,omitempty"`
	Position        Position `json:"position,omitempty"`
}

// ActivityItem is one event in the activity feed. ID is stable across
// snapshots (derived from the underlying account address) and serves as the
// deduplication key.
type ActivityItem struct {
	ID        string          `json:"id"`
	Kind      ActivityKind    `json:"type"`
	Timestamp int64           `json:"timestamp"`
	Agent     string          `json:"agent"`
	Details   ActivityDetails `json:"details"`
}
