package watch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/clawbets/clawdash/internal/domain"
	"github.com/clawbets/clawdash/internal/notify"
)

type fakeSources struct {
	mu      sync.Mutex
	items   []domain.ActivityItem
	markets []domain.Market
	feeds   atomic.Int64
}

func (f *fakeSources) Feed(ctx context.Context) ([]domain.ActivityItem, error) {
	f.feeds.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.ActivityItem, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeSources) Markets(ctx context.Context) ([]domain.Market, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Market, len(f.markets))
	copy(out, f.markets)
	return out, nil
}

func (f *fakeSources) setItems(items []domain.ActivityItem) {
	f.mu.Lock()
	f.items = items
	f.mu.Unlock()
}

type fakeArchive struct {
	mu    sync.Mutex
	items map[string]domain.ActivityItem
}

func (a *fakeArchive) InsertBatch(ctx context.Context, items []domain.ActivityItem) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.items == nil {
		a.items = make(map[string]domain.ActivityItem)
	}
	for _, item := range items {
		a.items[item.ID] = item
	}
	return nil
}

func (a *fakeArchive) ListRecent(ctx context.Context, limit int) ([]domain.ActivityItem, error) {
	return nil, nil
}

func (a *fakeArchive) size() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.items)
}

type fakeSubmitter struct {
	err   error
	calls atomic.Int64
}

func (s *fakeSubmitter) SubmitBet(ctx context.Context, marketID uint64, position domain.Position, amountSOL float64) (string, error) {
	s.calls.Add(1)
	if s.err != nil {
		return "", s.err
	}
	return "sig111", nil
}

type captureSender struct {
	mu     sync.Mutex
	titles []string
}

func (c *captureSender) Send(ctx context.Context, title, message string) error {
	c.mu.Lock()
	c.titles = append(c.titles, title)
	c.mu.Unlock()
	return nil
}

func (c *captureSender) Name() string { return "capture" }

func (c *captureSender) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.titles)
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func betItem(id string) domain.ActivityItem {
	return domain.ActivityItem{
		ID:    "bet-" + id,
		Kind:  domain.ActivityBet,
		Agent: "agent1",
		Details: domain.ActivityDetails{
			MarketTitle: "BTC above 100k?",
			AmountSOL:   0.5,
			Position:    domain.PositionYes,
		},
	}
}

func TestWatcher_AlertsOnlyOnNewActivity(t *testing.T) {
	sources := &fakeSources{items: []domain.ActivityItem{betItem("a")}}
	sender := &captureSender{}
	logger := slog.New(slog.DiscardHandler)
	notifier := notify.NewNotifier([]notify.Sender{sender}, nil, logger)
	archive := &fakeArchive{}

	w := New(sources, sources, nil, notifier, archive, Options{
		ActivityInterval: 20 * time.Millisecond,
		MarketInterval:   time.Hour,
		OverlayTick:      time.Hour,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// The first snapshot is history: archived but never alerted.
	waitFor(t, func() bool { return archive.size() == 1 }, "first snapshot not archived")
	if got := len(w.Notifications()); got != 0 {
		t.Errorf("notifications after first snapshot = %d, want 0", got)
	}
	if got := sender.count(); got != 0 {
		t.Errorf("operator notifications after first snapshot = %d, want 0", got)
	}

	// A genuinely new item alerts exactly once.
	sources.setItems([]domain.ActivityItem{betItem("b"), betItem("a")})
	waitFor(t, func() bool { return len(w.Notifications()) == 1 }, "new item never alerted")
	if notes := w.Notifications(); notes[0].ID != "bet-b" {
		t.Errorf("alert ID = %s, want bet-b", notes[0].ID)
	}
	waitFor(t, func() bool { return sender.count() == 1 }, "operator notification missing")
	if archive.size() != 2 {
		t.Errorf("archive size = %d, want 2", archive.size())
	}

	// Identical snapshots must not re-alert.
	time.Sleep(60 * time.Millisecond)
	if got := sender.count(); got != 1 {
		t.Errorf("operator notifications after stable snapshots = %d, want 1", got)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWatcher_DismissRemovesAlert(t *testing.T) {
	sources := &fakeSources{}
	logger := slog.New(slog.DiscardHandler)
	w := New(sources, sources, nil, nil, nil, Options{
		ActivityInterval: 20 * time.Millisecond,
		MarketInterval:   time.Hour,
		OverlayTick:      time.Hour,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	waitFor(t, func() bool { return w.ActivityState().HasData }, "poller never primed")

	sources.setItems([]domain.ActivityItem{betItem("x")})
	waitFor(t, func() bool { return len(w.Notifications()) == 1 }, "alert never appeared")

	w.Dismiss("bet-x")
	if got := len(w.Notifications()); got != 0 {
		t.Errorf("notifications after dismiss = %d, want 0", got)
	}
}

func TestWatcher_PlaceBetOverlayLifecycle(t *testing.T) {
	sources := &fakeSources{}
	logger := slog.New(slog.DiscardHandler)
	w := New(sources, sources, nil, nil, nil, Options{
		ActivityInterval: time.Hour,
		MarketInterval:   time.Hour,
		OverlayTick:      10 * time.Millisecond,
		RefetchAfter:     30 * time.Millisecond,
		ExpireAfter:      90 * time.Millisecond,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	waitFor(t, func() bool { return w.ActivityState().HasData }, "poller never primed")
	baseline := sources.feeds.Load()

	bet, err := w.PlaceBet(ctx, 7, "agent1", domain.PositionYes, 0.5)
	if err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}
	if bet.ID == "" || bet.MarketID != 7 {
		t.Fatalf("unexpected bet: %+v", bet)
	}
	if got := len(w.PendingBets()); got != 1 {
		t.Fatalf("pending = %d, want 1", got)
	}

	// The early confirmation poll fires once the refetch deadline passes.
	waitFor(t, func() bool { return sources.feeds.Load() > baseline }, "refetch never triggered")

	// Past the hard lifetime the unconfirmed entry disappears.
	waitFor(t, func() bool { return len(w.PendingBets()) == 0 }, "overlay entry never expired")
}

func TestWatcher_PlaceBetSubmitterError(t *testing.T) {
	sources := &fakeSources{}
	logger := slog.New(slog.DiscardHandler)
	wantErr := errors.New("wallet rejected")
	w := New(sources, sources, &fakeSubmitter{err: wantErr}, nil, nil, Options{}, logger)

	if _, err := w.PlaceBet(context.Background(), 7, "agent1", domain.PositionNo, 1); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	if got := len(w.PendingBets()); got != 0 {
		t.Errorf("pending after failed submission = %d, want 0", got)
	}
}
