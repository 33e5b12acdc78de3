package domain

// Reputation is an agent's cumulative betting record as read from the ledger.
// Accuracy is expressed in percent (the ledger stores basis points).
type Reputation struct {
	Agent           string  `json:"agent"`
	TotalBets       uint32  `json:"totalBets"`
	Wins            uint32  `json:"wins"`
	Losses          uint32  `json:"losses"`
	Accuracy        float64 `json:"accuracy"`
	TotalWageredSOL float64 `json:"totalWageredSol"`
	TotalWonSOL     float64 `json:"totalWonSol"`
	TotalLostSOL    float64 `json:"totalLostSol"`
	MarketsCreated  uint32  `json:"marketsCreated"`
	LastActive      int64   `json:"lastActive"`
}
