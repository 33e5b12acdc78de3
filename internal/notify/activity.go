package notify

import (
	"context"
	"fmt"

	"github.com/clawbets/clawdash/internal/domain"
)

// shortKey abbreviates a base58 address for display.
func shortKey(key string) string {
	if len(key) <= 8 {
		return key
	}
	return key[:4] + ".." + key[len(key)-4:]
}

// FormatActivity renders an activity item as a notification title and body.
func FormatActivity(item domain.ActivityItem) (title, message string) {
	switch item.Kind {
	case domain.ActivityBet:
		title = "New bet"
		message = fmt.Sprintf("%s bet %.2f SOL %s on %q",
			shortKey(item.Agent), item.Details.AmountSOL, item.Details.Position, item.Details.MarketTitle)
	case domain.ActivityMarketCreated:
		title = "New market"
		message = fmt.Sprintf("%s created %q", shortKey(item.Agent), item.Details.MarketTitle)
	default:
		title = "Activity"
		message = fmt.Sprintf("%s: %s", item.Kind, item.ID)
	}
	return title, message
}

// NotifyActivity dispatches one activity item through the notifier, using the
// item kind as the event type so operators can filter bets from market
// creations.
func (n *Notifier) NotifyActivity(ctx context.Context, item domain.ActivityItem) error {
	title, message := FormatActivity(item)
	return n.Notify(ctx, string(item.Kind), title, message)
}
