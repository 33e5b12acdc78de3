// Package poll provides the client-side polling primitive: a fetch loop that
// only advances its version counter when the fetched value structurally
// changes, keeping last-known-good data across transient failures.
package poll

import (
	"context"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/clawbets/clawdash/internal/clock"
)

// State is a point-in-time snapshot of a Poller. Version advances only on a
// structural change of Data; two identical consecutive fetches leave it
// untouched so consumers can skip redundant work.
type State[T any] struct {
	Data        T
	HasData     bool
	Err         string
	Loading     bool
	Version     uint64
	LastUpdated time.Time
}

// Poller repeatedly invokes a fetch function on an interval. Fetches are
// never pipelined: the loop runs them serially, so a slow fetch delays rather
// than overlaps the next tick. Two pollers over the same resource are
// independent; the server-side response cache is what absorbs the duplicate
// upstream load.
type Poller[T any] struct {
	fetch    func(ctx context.Context) (T, error)
	interval time.Duration
	equal    func(a, b T) bool
	clk      clock.Clock
	logger   *slog.Logger

	mu      sync.Mutex
	state   State[T]
	stopped bool

	refetchCh chan struct{}
	updates   chan struct{}
	cancel    context.CancelFunc
	done      chan struct{}
}

// Option customizes a Poller.
type Option[T any] func(*Poller[T])

// WithComparator replaces the default structural comparator
// (reflect.DeepEqual) used to decide whether a fetched value is new.
func WithComparator[T any](equal func(a, b T) bool) Option[T] {
	return func(p *Poller[T]) { p.equal = equal }
}

// WithClock injects a clock for tests.
func WithClock[T any](clk clock.Clock) Option[T] {
	return func(p *Poller[T]) { p.clk = clk }
}

// WithLogger attaches a logger; by default the poller is silent except for
// the slog default.
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(p *Poller[T]) { p.logger = logger }
}

// New creates a Poller around fetch with the given interval.
func New[T any](fetch func(ctx context.Context) (T, error), interval time.Duration, opts ...Option[T]) *Poller[T] {
	p := &Poller[T]{
		fetch:    fetch,
		interval: interval,
		equal: func(a, b T) bool {
			return reflect.DeepEqual(a, b)
		},
		clk:       clock.System{},
		logger:    slog.Default(),
		refetchCh: make(chan struct{}, 1),
		updates:   make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	p.state.Loading = true
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the poll loop: one immediate fetch, then one per interval
// until Stop is called or ctx is cancelled.
func (p *Poller[T]) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	go p.run(ctx)
}

// run is the poll loop. Fetches execute inline so ordering of version
// increments is strict.
func (p *Poller[T]) run(ctx context.Context) {
	defer close(p.done)

	p.pollOnce(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.pollOnce(ctx)
		case <-p.refetchCh:
			p.pollOnce(ctx)
		}
	}
}

// Stop cancels the loop and marks the poller dead so an in-flight fetch's
// eventual completion mutates nothing. It blocks until the loop has exited.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
		<-p.done
	}
}

// Refetch triggers an out-of-band fetch without waiting for the next tick.
// It never blocks; if a refetch is already queued the call coalesces.
func (p *Poller[T]) Refetch() {
	select {
	case p.refetchCh <- struct{}{}:
	default:
	}
}

// State returns a snapshot of the current polling state.
func (p *Poller[T]) State() State[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Updates signals after every completed fetch that changed the state. The
// channel has a buffer of one; consumers that fall behind coalesce signals.
func (p *Poller[T]) Updates() <-chan struct{} {
	return p.updates
}

// pollOnce runs a single fetch and applies the success/failure rules.
func (p *Poller[T]) pollOnce(ctx context.Context) {
	result, err := p.fetch(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	// A completion arriving after Stop (or cancellation) is a no-op.
	if p.stopped || ctx.Err() != nil {
		return
	}

	p.state.Loading = false
	if err != nil {
		// Keep the last good data; the error indicator rides alongside it.
		p.state.Err = err.Error()
		p.notify()
		return
	}

	if !p.state.HasData || !p.equal(p.state.Data, result) {
		p.state.Data = result
		p.state.HasData = true
		p.state.Version++
	}
	p.state.Err = ""
	p.state.LastUpdated = p.clk.Now()
	p.notify()
}

func (p *Poller[T]) notify() {
	select {
	case p.updates <- struct{}{}:
	default:
	}
}
