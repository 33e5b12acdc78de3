package poll

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/clawbets/clawdash/internal/clock"
	"github.com/clawbets/clawdash/internal/domain"
)

type pools struct {
	Yes float64
	No  float64
}

func TestPoller_VersionAdvancesOnChangeOnly(t *testing.T) {
	clk := clock.NewFake(time.Unix(1_700_000_000, 0))

	results := []pools{
		{Yes: 1.0, No: 2.0},
		{Yes: 1.5, No: 2.0},
		{Yes: 1.5, No: 2.0},
	}
	var call atomic.Int32
	fetch := func(ctx context.Context) (pools, error) {
		i := call.Add(1) - 1
		return results[i], nil
	}

	p := New(fetch, 5*time.Second, WithClock[pools](clk))
	ctx := context.Background()

	// Poll 1: first data, version 1.
	p.pollOnce(ctx)
	st := p.State()
	if st.Version != 1 {
		t.Fatalf("after poll 1: version = %d, want 1", st.Version)
	}
	if st.Data.Yes != 1.0 {
		t.Fatalf("after poll 1: yes pool = %v, want 1.0", st.Data.Yes)
	}
	first := st.LastUpdated

	// Poll 2: yes pool grew, version advances and lastUpdated moves.
	clk.Advance(5 * time.Second)
	p.pollOnce(ctx)
	st = p.State()
	if st.Version != 2 {
		t.Fatalf("after poll 2: version = %d, want 2", st.Version)
	}
	if !st.LastUpdated.After(first) {
		t.Error("after poll 2: lastUpdated did not advance")
	}

	// Poll 3: identical payload, version stays put.
	clk.Advance(5 * time.Second)
	p.pollOnce(ctx)
	st = p.State()
	if st.Version != 2 {
		t.Fatalf("after poll 3: version = %d, want 2", st.Version)
	}
	if st.Data.Yes != 1.5 {
		t.Errorf("after poll 3: yes pool = %v, want 1.5", st.Data.Yes)
	}
}

func TestPoller_ErrorKeepsStaleData(t *testing.T) {
	var fail atomic.Bool
	fetch := func(ctx context.Context) (pools, error) {
		if fail.Load() {
			return pools{}, domain.ErrUpstream
		}
		return pools{Yes: 1.0}, nil
	}

	p := New(fetch, time.Second)
	ctx := context.Background()

	p.pollOnce(ctx)
	fail.Store(true)
	p.pollOnce(ctx)

	st := p.State()
	if st.Err == "" {
		t.Fatal("error not surfaced")
	}
	if !st.HasData || st.Data.Yes != 1.0 {
		t.Error("stale data not kept across failure")
	}
	if st.Version != 1 {
		t.Errorf("version = %d, want 1 (no advance on failure)", st.Version)
	}

	// Recovery clears the error without a version bump for identical data.
	fail.Store(false)
	p.pollOnce(ctx)
	st = p.State()
	if st.Err != "" {
		t.Errorf("error not cleared on recovery: %q", st.Err)
	}
	if st.Version != 1 {
		t.Errorf("version = %d after recovery with identical data, want 1", st.Version)
	}
}

func TestPoller_StartStopAndRefetch(t *testing.T) {
	var calls atomic.Int32
	fetch := func(ctx context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}

	p := New(fetch, time.Hour) // ticks never fire; only start + refetch
	p.Start(context.Background())

	waitFor(t, func() bool { return p.State().Version == 1 })

	p.Refetch()
	waitFor(t, func() bool { return p.State().Version == 2 })

	p.Stop()
	stopped := calls.Load()
	p.Refetch()
	time.Sleep(20 * time.Millisecond)
	if calls.Load() != stopped {
		t.Error("fetch ran after Stop")
	}
}

func TestPoller_StopIgnoresInFlightCompletion(t *testing.T) {
	release := make(chan struct{})
	fetch := func(ctx context.Context) (int, error) {
		select {
		case <-release:
			return 42, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	p := New(fetch, time.Hour)
	p.Start(context.Background())

	// The initial fetch is blocked; Stop must cancel it and the completion
	// must not mutate state.
	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
	close(release)

	st := p.State()
	if st.HasData || st.Version != 0 {
		t.Errorf("state mutated after Stop: %+v", st)
	}
}

func TestPoller_CustomComparator(t *testing.T) {
	vals := []pools{{Yes: 1.0}, {Yes: 1.0000001}}
	var call atomic.Int32
	fetch := func(ctx context.Context) (pools, error) {
		i := call.Add(1) - 1
		return vals[i], nil
	}

	// Comparator that tolerates sub-epsilon float drift.
	approx := func(a, b pools) bool {
		d := a.Yes - b.Yes
		return d < 1e-6 && d > -1e-6
	}

	p := New(fetch, time.Second, WithComparator(approx))
	ctx := context.Background()
	p.pollOnce(ctx)
	p.pollOnce(ctx)

	if v := p.State().Version; v != 1 {
		t.Errorf("version = %d, want 1 (drift within epsilon)", v)
	}
}

func TestPoller_UpdatesSignal(t *testing.T) {
	fetch := func(ctx context.Context) (int, error) { return 7, nil }
	p := New(fetch, time.Hour)

	p.pollOnce(context.Background())

	select {
	case <-p.Updates():
	default:
		t.Error("no update signal after a completed fetch")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}
