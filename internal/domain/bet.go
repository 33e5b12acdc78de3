package domain

// Position is the side of a market a bet is placed on.
type Position string

const (
	PositionYes Position = "YES"
	PositionNo  Position = "NO"
)

// PositionFromBool maps the ledger's boolean position encoding (true = YES).
func PositionFromBool(yes bool) Position {
	if yes {
		return PositionYes
	}
	return PositionNo
}

// Bet is a single wager account as read from the ledger.
type Bet struct {
	PublicKey string   `json:"publicKey"`
	Bettor    string   `json:"bettor"`
	Market    string   `json:"market"`
	Amount    uint64   `json:"amount"`
	AmountSOL float64  `json:"amountSol"`
	Position  Position `json:"position"`
	Claimed   bool     `json:"claimed"`
	PlacedAt  int64    `json:"placedAt"`
}
