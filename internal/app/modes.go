package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/clawbets/clawdash/internal/server"
	"github.com/clawbets/clawdash/internal/server/handler"
	"github.com/clawbets/clawdash/internal/watch"
)

// shutdownTimeout bounds how long in-flight HTTP requests may run after the
// context is cancelled.
const shutdownTimeout = 10 * time.Second

// ServeMode runs only the HTTP API: cached read endpoints plus rate limiting.
func (a *App) ServeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting serve mode")

	g, ctx := errgroup.WithContext(ctx)
	a.startSweeper(ctx, g, deps)
	a.startServer(ctx, g, deps)
	return g.Wait()
}

// WatchMode runs only the background watcher: polling, alerts, notifications
// and the activity archive, with no HTTP surface.
func (a *App) WatchMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting watch mode")

	g, ctx := errgroup.WithContext(ctx)
	a.startSweeper(ctx, g, deps)
	a.startWatcher(ctx, g, deps)
	return g.Wait()
}

// FullMode runs the HTTP API and the watcher together.
func (a *App) FullMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting full mode")

	g, ctx := errgroup.WithContext(ctx)
	a.startSweeper(ctx, g, deps)
	if a.cfg.Server.Enabled {
		a.startServer(ctx, g, deps)
	}
	a.startWatcher(ctx, g, deps)
	return g.Wait()
}

// startSweeper runs the in-process rate limiter's idle-window sweeper when
// that backend is active. The Redis backend expires windows on its own.
func (a *App) startSweeper(ctx context.Context, g *errgroup.Group, deps *Dependencies) {
	if deps.MemoryLimiter == nil || !a.cfg.RateLimit.Enabled {
		return
	}
	interval := a.cfg.RateLimit.SweepInterval.Duration
	window := a.cfg.RateLimit.Window.Duration
	g.Go(func() error {
		deps.MemoryLimiter.RunSweeper(ctx, interval, window)
		return nil
	})
}

// startServer builds and runs the HTTP server, shutting it down gracefully
// when ctx is cancelled.
func (a *App) startServer(ctx context.Context, g *errgroup.Group, deps *Dependencies) {
	srvCfg := server.Config{
		Port:        a.cfg.Server.Port,
		CORSOrigins: a.cfg.Server.CORSOrigins,
		APIKey:      a.cfg.Server.APIKey,
	}
	if a.cfg.RateLimit.Enabled {
		srvCfg.RateLimit = a.cfg.RateLimit.Limit
		srvCfg.RateLimitWindow = a.cfg.RateLimit.Window.Duration
	}

	handlers := server.Handlers{
		Health:      handler.NewHealthHandler(a.logger),
		Markets:     handler.NewMarketHandler(deps.Markets, a.logger),
		Bets:        handler.NewBetHandler(deps.Bets, a.logger),
		Reputations: handler.NewReputationHandler(deps.Reputations, a.logger),
		Protocol:    handler.NewProtocolHandler(deps.Protocol, a.logger),
		Activity:    handler.NewActivityHandler(deps.Activity, a.logger),
	}

	srv := server.NewServer(srvCfg, handlers, deps.RateLimiter, a.logger)

	g.Go(func() error {
		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		select {
		case err := <-errCh:
			if err != nil {
				return err
			}
			return errors.New("server stopped unexpectedly")
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()
	})
}

// startWatcher builds and runs the background watcher.
func (a *App) startWatcher(ctx context.Context, g *errgroup.Group, deps *Dependencies) {
	w := watch.New(
		deps.Activity,
		deps.Markets,
		nil, // read-only deployment: no bet submitter
		deps.Notifier,
		deps.ActivityStore,
		watch.Options{
			ActivityInterval:     a.cfg.Poll.ActivityInterval.Duration,
			MarketInterval:       a.cfg.Poll.MarketInterval.Duration,
			OverlayTick:          a.cfg.Poll.OverlayTick.Duration,
			QueueCapacity:        a.cfg.Feed.QueueCapacity,
			NotificationLifetime: a.cfg.Feed.NotificationLifetime.Duration,
			SeenBound:            a.cfg.Feed.SeenBound,
			RefetchAfter:         a.cfg.Feed.RefetchAfter.Duration,
			ExpireAfter:          a.cfg.Feed.ExpireAfter.Duration,
		},
		a.logger,
	)

	g.Go(func() error {
		return w.Run(ctx)
	})
}
