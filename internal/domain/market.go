// Package domain defines the core records and interfaces shared across the
// dashboard backend: ledger views (markets, bets, reputation), the activity
// feed, and the cache / rate-limit / store contracts they depend on.
package domain

// MarketStatus is the lifecycle state of a prediction market.
type MarketStatus string

const (
	MarketOpen      MarketStatus = "open"
	MarketClosed    MarketStatus = "closed"
	MarketResolved  MarketStatus = "resolved"
	MarketCancelled MarketStatus = "cancelled"
	MarketExpired   MarketStatus = "expired"
)

// Market is a single prediction market as read from the ledger. Lamport
// amounts carry a parallel SOL field so API consumers never re-derive the
// conversion.
type Market struct {
	PublicKey          string       `json:"publicKey"`
	MarketID           uint64       `json:"marketId"`
	Creator            string       `json:"creator"`
	Title              string       `json:"title"`
	Description        string       `json:"description"`
	OracleFeed         string       `json:"oracleFeed"`
	TargetPrice        int64        `json:"targetPrice"`
	TargetAbove        bool         `json:"targetAbove"`
	Deadline           int64        `json:"deadline"`
	ResolutionDeadline int64        `json:"resolutionDeadline"`
	MinBet             uint64       `json:"minBet"`
	MaxBet             uint64       `json:"maxBet"`
	TotalYes           uint64       `json:"totalYes"`
	TotalNo            uint64       `json:"totalNo"`
	TotalYesSOL        float64      `json:"totalYesSol"`
	TotalNoSOL         float64      `json:"totalNoSol"`
	YesCount           uint32       `json:"yesCount"`
	NoCount            uint32       `json:"noCount"`
	Status             MarketStatus `json:"status"`
	Outcome            *bool        `json:"outcome"`
	ResolvedPrice      *int64       `json:"resolvedPrice"`
	ResolvedAt         *int64       `json:"resolvedAt"`
	CreatedAt          int64        `json:"createdAt"`

	// Vault fields are populated only on single-market fetches, where the
	// vault balance costs one extra RPC call.
	Vault           string  `json:"vault,omitempty"`
	VaultBalance    uint64  `json:"vaultBalance,omitempty"`
	VaultBalanceSOL float64 `json:"vaultBalanceSol,omitempty"`
}

// LamportsPerSOL is the lamport denomination of one SOL.
const LamportsPerSOL = 1_000_000_000

// ToSOL converts a lamport amount to SOL.
func ToSOL(lamports uint64) float64 {
	return float64(lamports) / LamportsPerSOL
}
