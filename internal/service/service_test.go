package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/clawbets/clawdash/internal/cache/memory"
	"github.com/clawbets/clawdash/internal/clock"
	"github.com/clawbets/clawdash/internal/domain"
)

// fakeLedger counts upstream round trips so tests can assert read-through
// behavior.
type fakeLedger struct {
	calls   atomic.Int64
	markets []domain.Market
	bets    []domain.Bet
	reps    []domain.Reputation
	stats   domain.ProtocolStats
	err     error
}

func (f *fakeLedger) ListMarkets(ctx context.Context) ([]domain.Market, error) {
	f.calls.Add(1)
	return f.markets, f.err
}

func (f *fakeLedger) GetMarket(ctx context.Context, marketID uint64) (domain.Market, error) {
	f.calls.Add(1)
	for _, m := range f.markets {
		if m.MarketID == marketID {
			return m, nil
		}
	}
	return domain.Market{}, domain.ErrNotFound
}

func (f *fakeLedger) ListBets(ctx context.Context) ([]domain.Bet, error) {
	f.calls.Add(1)
	return f.bets, f.err
}

func (f *fakeLedger) ListMarketBets(ctx context.Context, marketID uint64) ([]domain.Bet, error) {
	f.calls.Add(1)
	return f.bets, f.err
}

func (f *fakeLedger) ListAgentBets(ctx context.Context, agent string) ([]domain.Bet, error) {
	f.calls.Add(1)
	return f.bets, f.err
}

func (f *fakeLedger) GetReputation(ctx context.Context, agent string) (domain.Reputation, error) {
	f.calls.Add(1)
	for _, r := range f.reps {
		if r.Agent == agent {
			return r, nil
		}
	}
	return domain.Reputation{}, domain.ErrNotFound
}

func (f *fakeLedger) ListReputations(ctx context.Context) ([]domain.Reputation, error) {
	f.calls.Add(1)
	return f.reps, f.err
}

func (f *fakeLedger) ProtocolStats(ctx context.Context) (domain.ProtocolStats, error) {
	f.calls.Add(1)
	return f.stats, f.err
}

var _ domain.LedgerReader = (*fakeLedger)(nil)

func TestMarketService_ReadThrough(t *testing.T) {
	clk := clock.NewFake(time.Unix(1_700_000_000, 0))
	cache := memory.NewResponseCache(0, clk)
	ledger := &fakeLedger{markets: []domain.Market{
		{MarketID: 7, Title: "BTC above 100k?", Status: domain.MarketOpen},
	}}
	svc := NewMarketService(ledger, cache, 10*time.Second, nil)

	for i := 0; i < 5; i++ {
		markets, err := svc.Markets(context.Background())
		if err != nil {
			t.Fatalf("Markets: %v", err)
		}
		if len(markets) != 1 || markets[0].Title != "BTC above 100k?" {
			t.Fatalf("unexpected markets: %+v", markets)
		}
	}
	if got := ledger.calls.Load(); got != 1 {
		t.Errorf("ledger calls = %d, want 1 (read-through)", got)
	}

	clk.Advance(11 * time.Second)
	if _, err := svc.Markets(context.Background()); err != nil {
		t.Fatalf("Markets after expiry: %v", err)
	}
	if got := ledger.calls.Load(); got != 2 {
		t.Errorf("ledger calls after TTL = %d, want 2", got)
	}
}

func TestMarketService_SingleMarketKeyedSeparately(t *testing.T) {
	cache := memory.NewResponseCache(0, clock.NewFake(time.Unix(0, 0)))
	ledger := &fakeLedger{markets: []domain.Market{
		{MarketID: 1, Title: "a"},
		{MarketID: 2, Title: "b"},
	}}
	svc := NewMarketService(ledger, cache, 10*time.Second, nil)

	m1, err := svc.Market(context.Background(), 1)
	if err != nil {
		t.Fatalf("Market(1): %v", err)
	}
	m2, err := svc.Market(context.Background(), 2)
	if err != nil {
		t.Fatalf("Market(2): %v", err)
	}
	if m1.Title != "a" || m2.Title != "b" {
		t.Errorf("cache keys collided: %q / %q", m1.Title, m2.Title)
	}
	if got := ledger.calls.Load(); got != 2 {
		t.Errorf("ledger calls = %d, want 2", got)
	}
}

func TestMarketService_NotFoundNotCached(t *testing.T) {
	cache := memory.NewResponseCache(0, clock.NewFake(time.Unix(0, 0)))
	ledger := &fakeLedger{}
	svc := NewMarketService(ledger, cache, 10*time.Second, nil)

	for i := 0; i < 2; i++ {
		if _, err := svc.Market(context.Background(), 99); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	}
	if got := ledger.calls.Load(); got != 2 {
		t.Errorf("ledger calls = %d, want 2 (errors not cached)", got)
	}
}

func TestBetService_MarketAndAgentViews(t *testing.T) {
	cache := memory.NewResponseCache(0, clock.NewFake(time.Unix(0, 0)))
	ledger := &fakeLedger{bets: []domain.Bet{
		{PublicKey: "betpk", Bettor: "agent1", AmountSOL: 0.5, Position: domain.PositionYes},
	}}
	svc := NewBetService(ledger, cache, 10*time.Second, nil)

	if _, err := svc.MarketBets(context.Background(), 7); err != nil {
		t.Fatalf("MarketBets: %v", err)
	}
	if _, err := svc.AgentBets(context.Background(), "agent1"); err != nil {
		t.Fatalf("AgentBets: %v", err)
	}
	if _, err := svc.MarketBets(context.Background(), 7); err != nil {
		t.Fatalf("MarketBets cached: %v", err)
	}
	// Two distinct keys, one upstream call each.
	if got := ledger.calls.Load(); got != 2 {
		t.Errorf("ledger calls = %d, want 2", got)
	}
}

func TestActivityService_MergesMarketsAndBets(t *testing.T) {
	cache := memory.NewResponseCache(0, clock.NewFake(time.Unix(0, 0)))
	ledger := &fakeLedger{
		markets: []domain.Market{
			{PublicKey: "mkt1", MarketID: 1, Title: "first", CreatedAt: 100},
		},
		bets: []domain.Bet{
			{PublicKey: "bet1", Market: "mkt1", Bettor: "agent1", AmountSOL: 1, Position: domain.PositionNo, PlacedAt: 200},
		},
	}
	svc := NewActivityService(ledger, cache, 10*time.Second, 50, nil)

	items, err := svc.Feed(context.Background())
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].ID != "bet-bet1" || items[1].ID != "market-mkt1" {
		t.Errorf("order = [%s %s], want newest first", items[0].ID, items[1].ID)
	}
	if items[0].Details.MarketTitle != "first" {
		t.Errorf("bet not joined to market title: %+v", items[0].Details)
	}

	// Second read comes from cache: markets+bets cost 2 calls total.
	if _, err := svc.Feed(context.Background()); err != nil {
		t.Fatalf("Feed cached: %v", err)
	}
	if got := ledger.calls.Load(); got != 2 {
		t.Errorf("ledger calls = %d, want 2", got)
	}
}

func TestActivityService_UpstreamErrorPropagates(t *testing.T) {
	cache := memory.NewResponseCache(0, clock.NewFake(time.Unix(0, 0)))
	wantErr := errors.New("rpc down")
	svc := NewActivityService(&fakeLedger{err: wantErr}, cache, 10*time.Second, 50, nil)

	if _, err := svc.Feed(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}

func TestReputationService_Leaderboard(t *testing.T) {
	cache := memory.NewResponseCache(0, clock.NewFake(time.Unix(0, 0)))
	ledger := &fakeLedger{reps: []domain.Reputation{
		{Agent: "agent1", TotalBets: 4, Accuracy: 75},
	}}
	svc := NewReputationService(ledger, cache, 10*time.Second, nil)

	reps, err := svc.Leaderboard(context.Background())
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(reps) != 1 || reps[0].Agent != "agent1" {
		t.Fatalf("unexpected leaderboard: %+v", reps)
	}

	r, err := svc.Reputation(context.Background(), "agent1")
	if err != nil {
		t.Fatalf("Reputation: %v", err)
	}
	if r.Accuracy != 75 {
		t.Errorf("Accuracy = %v, want 75", r.Accuracy)
	}
}

func TestProtocolService_Stats(t *testing.T) {
	cache := memory.NewResponseCache(0, clock.NewFake(time.Unix(0, 0)))
	ledger := &fakeLedger{stats: domain.ProtocolStats{MarketCount: 12, TotalVolumeSOL: 34.5}}
	svc := NewProtocolService(ledger, cache, 10*time.Second, nil)

	for i := 0; i < 3; i++ {
		stats, err := svc.Stats(context.Background())
		if err != nil {
			t.Fatalf("Stats: %v", err)
		}
		if stats.MarketCount != 12 {
			t.Errorf("MarketCount = %d, want 12", stats.MarketCount)
		}
	}
	if got := ledger.calls.Load(); got != 1 {
		t.Errorf("ledger calls = %d, want 1", got)
	}
}
