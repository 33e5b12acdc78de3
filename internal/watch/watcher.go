// Package watch runs the dashboard's background synchronization: it polls the
// activity feed and market list, turns snapshot deltas into alerts and
// operator notifications, archives feed history, and tracks locally submitted
// bets until the authoritative data catches up.
package watch

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/clawbets/clawdash/internal/clock"
	"github.com/clawbets/clawdash/internal/domain"
	"github.com/clawbets/clawdash/internal/feed"
	"github.com/clawbets/clawdash/internal/notify"
	"github.com/clawbets/clawdash/internal/poll"
)

const (
	// DefaultActivityInterval matches the activity feed's poll cadence.
	DefaultActivityInterval = 6 * time.Second
	// DefaultMarketInterval matches the market list's poll cadence.
	DefaultMarketInterval = 5 * time.Second
	// DefaultOverlayTick is how often overlay deadlines are checked.
	DefaultOverlayTick = 500 * time.Millisecond
)

// ActivitySource provides the merged activity feed.
type ActivitySource interface {
	Feed(ctx context.Context) ([]domain.ActivityItem, error)
}

// MarketSource provides the market list.
type MarketSource interface {
	Markets(ctx context.Context) ([]domain.Market, error)
}

// Options tunes the watcher. Zero values pick the defaults.
type Options struct {
	ActivityInterval     time.Duration
	MarketInterval       time.Duration
	OverlayTick          time.Duration
	QueueCapacity        int
	NotificationLifetime time.Duration
	SeenBound            int
	RefetchAfter         time.Duration
	ExpireAfter          time.Duration
	Clock                clock.Clock
}

// Watcher owns the polling loops and the feed state machines. Notifier and
// archive are optional; submitter is only needed for PlaceBet.
type Watcher struct {
	activity *poll.Poller[[]domain.ActivityItem]
	markets  *poll.Poller[[]domain.Market]

	dedup   *feed.Deduplicator
	queue   *feed.Queue
	overlay *feed.Overlay

	submitter domain.BetSubmitter
	notifier  *notify.Notifier
	archive   domain.ActivityStore

	overlayTick time.Duration
	logger      *slog.Logger

	// lastVersion is only touched by the consume loop.
	lastVersion uint64
}

// New creates a Watcher. submitter, notifier and archive may be nil.
func New(
	activity ActivitySource,
	markets MarketSource,
	submitter domain.BetSubmitter,
	notifier *notify.Notifier,
	archive domain.ActivityStore,
	opts Options,
	logger *slog.Logger,
) *Watcher {
	if opts.ActivityInterval <= 0 {
		opts.ActivityInterval = DefaultActivityInterval
	}
	if opts.MarketInterval <= 0 {
		opts.MarketInterval = DefaultMarketInterval
	}
	if opts.OverlayTick <= 0 {
		opts.OverlayTick = DefaultOverlayTick
	}
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "watcher"))

	w := &Watcher{
		dedup:       feed.NewDeduplicator(opts.SeenBound),
		queue:       feed.NewQueue(opts.QueueCapacity, opts.NotificationLifetime, opts.Clock),
		overlay:     feed.NewOverlay(opts.RefetchAfter, opts.ExpireAfter, opts.Clock),
		submitter:   submitter,
		notifier:    notifier,
		archive:     archive,
		overlayTick: opts.OverlayTick,
		logger:      logger,
	}

	w.activity = poll.New(activity.Feed, opts.ActivityInterval,
		poll.WithClock[[]domain.ActivityItem](opts.Clock),
		poll.WithLogger[[]domain.ActivityItem](logger),
	)
	w.markets = poll.New(markets.Markets, opts.MarketInterval,
		poll.WithClock[[]domain.Market](opts.Clock),
		poll.WithLogger[[]domain.Market](logger),
	)
	return w
}

// Run starts both pollers and blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	w.activity.Start(ctx)
	w.markets.Start(ctx)
	defer w.activity.Stop()
	defer w.markets.Stop()

	w.logger.InfoContext(ctx, "watcher started")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		w.consumeActivity(gctx)
		return nil
	})
	g.Go(func() error {
		w.overlayLoop(gctx)
		return nil
	})
	err := g.Wait()

	w.logger.Info("watcher stopped")
	return err
}

// PlaceBet submits a wager (when a submitter is configured) and tracks it in
// the optimistic overlay until the polls absorb it or it expires.
func (w *Watcher) PlaceBet(ctx context.Context, marketID uint64, bettor string, position domain.Position, amountSOL float64) (domain.OptimisticBet, error) {
	if w.submitter != nil {
		sig, err := w.submitter.SubmitBet(ctx, marketID, position, amountSOL)
		if err != nil {
			return domain.OptimisticBet{}, err
		}
		w.logger.InfoContext(ctx, "bet submitted",
			slog.Uint64("market_id", marketID),
			slog.String("signature", sig),
		)
	}
	return w.overlay.Add(marketID, bettor, position, amountSOL), nil
}

// Notifications returns the currently visible alerts, newest first.
func (w *Watcher) Notifications() []domain.Notification {
	return w.queue.Active()
}

// Dismiss removes an alert before it expires.
func (w *Watcher) Dismiss(id string) {
	w.queue.Dismiss(id)
}

// PendingBets returns the unconfirmed optimistic bets, newest first.
func (w *Watcher) PendingBets() []domain.OptimisticBet {
	return w.overlay.Pending()
}

// ActivityState returns the activity poller's current snapshot.
func (w *Watcher) ActivityState() poll.State[[]domain.ActivityItem] {
	return w.activity.State()
}

// MarketState returns the market poller's current snapshot.
func (w *Watcher) MarketState() poll.State[[]domain.Market] {
	return w.markets.State()
}

// consumeActivity reacts to activity poller updates: each new version is
// deduplicated into alerts, dispatched to the notifier and archived.
func (w *Watcher) consumeActivity(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.activity.Updates():
			w.handleActivityUpdate(ctx)
		}
	}
}

func (w *Watcher) handleActivityUpdate(ctx context.Context) {
	st := w.activity.State()
	if st.Err != "" {
		w.logger.WarnContext(ctx, "activity poll failed",
			slog.String("error", st.Err),
		)
	}
	if !st.HasData || st.Version == w.lastVersion {
		return
	}
	w.lastVersion = st.Version

	fresh := w.dedup.Apply(st.Data)
	w.queue.Push(fresh)

	if w.notifier != nil {
		for _, item := range fresh {
			if err := w.notifier.NotifyActivity(ctx, item); err != nil {
				w.logger.WarnContext(ctx, "activity notification failed",
					slog.String("item_id", item.ID),
					slog.String("error", err.Error()),
				)
			}
		}
	}

	if w.archive != nil {
		if err := w.archive.InsertBatch(ctx, st.Data); err != nil {
			w.logger.ErrorContext(ctx, "activity archive failed",
				slog.String("error", err.Error()),
			)
		}
	}
}

// overlayLoop drives the overlay deadlines: entries due their early
// confirmation poll trigger out-of-band refetches, and entries past the hard
// lifetime are dropped.
func (w *Watcher) overlayLoop(ctx context.Context) {
	ticker := time.NewTicker(w.overlayTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if due := w.overlay.DueRefetch(); len(due) > 0 {
				w.activity.Refetch()
				w.markets.Refetch()
			}
			for _, bet := range w.overlay.Expire() {
				w.logger.InfoContext(ctx, "optimistic bet expired",
					slog.String("id", bet.ID),
					slog.Uint64("market_id", bet.MarketID),
				)
			}
		}
	}
}
