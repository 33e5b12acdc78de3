// Package feed turns full ledger snapshots into incremental activity: it
// assembles the merged bet/market-creation feed, deduplicates it against what
// has already been observed, and maintains the ephemeral alert queue and the
// optimistic-bet overlay shown ahead of confirmed data.
package feed

import (
	"sort"

	"github.com/clawbets/clawdash/internal/domain"
)

// DefaultActivityLimit caps the assembled feed at the most recent items.
const DefaultActivityLimit = 50

// Build assembles the activity feed from full market and bet snapshots.
// Market creations and bets are merged, bet items are joined to their
// market's title, and the result is sorted most-recent first and truncated
// to limit (<= 0 means DefaultActivityLimit). Item IDs are derived from the
// underlying account addresses and are stable across snapshots.
func Build(markets []domain.Market, bets []domain.Bet, limit int) []domain.ActivityItem {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}

	titles := make(map[string]domain.Market, len(markets))
	items := make([]domain.ActivityItem, 0, len(markets)+len(bets))

	for _, m := range markets {
		titles[m.PublicKey] = m
		items = append(items, domain.ActivityItem{
			ID:        "market-" + m.PublicKey,
			Kind:      domain.ActivityMarketCreated,
			Timestamp: m.CreatedAt,
			Agent:     m.Creator,
			Details: domain.ActivityDetails{
				MarketID:        m.MarketID,
				MarketPublicKey: m.PublicKey,
				MarketTitle:     m.Title,
			},
		})
	}

	for _, b := range bets {
		title := "Unknown Market"
		var marketID uint64
		if m, ok := titles[b.Market]; ok {
			title = m.Title
			marketID = m.MarketID
		}
		items = append(items, domain.ActivityItem{
			ID:        "bet-" + b.PublicKey,
			Kind:      domain.ActivityBet,
			Timestamp: b.PlacedAt,
			Agent:     b.Bettor,
			Details: domain.ActivityDetails{
				MarketID:        marketID,
				MarketPublicKey: b.Market,
				MarketTitle:     title,
				Amount:          b.Amount,
				AmountSOL:       b.AmountSOL,
				Position:        b.Position,
			},
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp > items[j].Timestamp
	})

	if len(items) > limit {
		items = items[:limit]
	}
	return items
}
