package feed

import (
	"sort"
	"sync"
	"time"

	"github.com/clawbets/clawdash/internal/clock"
	"github.com/clawbets/clawdash/internal/domain"
	"github.com/google/uuid"
)

const (
	// DefaultRefetchAfter is how long after submission the watcher asks the
	// authoritative source for an early confirmation poll.
	DefaultRefetchAfter = 2 * time.Second
	// DefaultExpireAfter is the hard lifetime of an unreconciled entry. Past
	// this the entry is dropped even if the ledger never reflected the bet
	// (the submission may simply have failed on-ledger).
	DefaultExpireAfter = 6 * time.Second
)

type overlayEntry struct {
	bet              domain.OptimisticBet
	refetchRequested bool
}

// Overlay holds locally submitted bets that no fetched snapshot has confirmed
// yet. Entries are UI-only state: they carry a locally generated ID, never a
// ledger address, and are always rendered as unconfirmed ahead of
// authoritative bets. Every entry self-expires; reconciliation is timer-only,
// matching the dashboard's behavior of trusting the next polls to absorb the
// bet rather than positively matching it.
type Overlay struct {
	mu           sync.Mutex
	entries      map[string]*overlayEntry
	refetchAfter time.Duration
	expireAfter  time.Duration
	clk          clock.Clock
}

// NewOverlay creates an Overlay. Zero durations pick the defaults; a nil clk
// defaults to the system clock.
func NewOverlay(refetchAfter, expireAfter time.Duration, clk clock.Clock) *Overlay {
	if refetchAfter <= 0 {
		refetchAfter = DefaultRefetchAfter
	}
	if expireAfter <= 0 {
		expireAfter = DefaultExpireAfter
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &Overlay{
		entries:      make(map[string]*overlayEntry),
		refetchAfter: refetchAfter,
		expireAfter:  expireAfter,
		clk:          clk,
	}
}

// Add inserts a pending bet and returns its locally generated ID.
func (o *Overlay) Add(marketID uint64, bettor string, position domain.Position, amountSOL float64) domain.OptimisticBet {
	bet := domain.OptimisticBet{
		ID:        uuid.NewString(),
		MarketID:  marketID,
		Bettor:    bettor,
		Position:  position,
		AmountSOL: amountSOL,
		CreatedAt: o.clk.Now(),
	}

	o.mu.Lock()
	o.entries[bet.ID] = &overlayEntry{bet: bet}
	o.mu.Unlock()
	return bet
}

// Reconcile removes the entry outright; the authoritative poll is assumed to
// now reflect it. Unknown IDs are a no-op.
func (o *Overlay) Reconcile(id string) {
	o.mu.Lock()
	delete(o.entries, id)
	o.mu.Unlock()
}

// DueRefetch returns the entries old enough for their early confirmation
// poll, at most once per entry.
func (o *Overlay) DueRefetch() []domain.OptimisticBet {
	o.mu.Lock()
	defer o.mu.Unlock()

	now := o.clk.Now()
	var due []domain.OptimisticBet
	for _, e := range o.entries {
		if !e.refetchRequested && now.Sub(e.bet.CreatedAt) >= o.refetchAfter {
			e.refetchRequested = true
			due = append(due, e.bet)
		}
	}
	return due
}

// Expire removes entries past the hard lifetime and returns them.
func (o *Overlay) Expire() []domain.OptimisticBet {
	o.mu.Lock()
	defer o.mu.Unlock()

	now := o.clk.Now()
	var expired []domain.OptimisticBet
	for id, e := range o.entries {
		if now.Sub(e.bet.CreatedAt) >= o.expireAfter {
			expired = append(expired, e.bet)
			delete(o.entries, id)
		}
	}
	return expired
}

// Pending returns the live entries, newest first, for rendering ahead of
// authoritative data.
func (o *Overlay) Pending() []domain.OptimisticBet {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]domain.OptimisticBet, 0, len(o.entries))
	for _, e := range o.entries {
		out = append(out, e.bet)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
