package domain

import "time"

// OptimisticBet is a locally submitted wager that the ledger has not yet
// confirmed. It is additive UI state only: it carries no ledger-assigned
// identity and must always be rendered as unconfirmed, ahead of (never
// merged into) authoritative bets.
type OptimisticBet struct {
	ID        string    `json:"id"`
	MarketID  uint64    `json:"marketId"`
	Bettor    string    `json:"bettor"`
	Position  Position  `json:"position"`
	AmountSOL float64   `json:"amountSol"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notification is one entry in the ephemeral alert queue.
type Notification struct {
	ID        string       `json:"id"`
	Item      ActivityItem `json:"item"`
	CreatedAt time.Time    `json:"createdAt"`
}
