package app

import (
	"context"
	"fmt"
	"log/slog"

	solanago "github.com/gagliardetto/solana-go"

	"github.com/clawbets/clawdash/internal/cache/memory"
	"github.com/clawbets/clawdash/internal/cache/redis"
	"github.com/clawbets/clawdash/internal/config"
	"github.com/clawbets/clawdash/internal/domain"
	"github.com/clawbets/clawdash/internal/ledger/solana"
	"github.com/clawbets/clawdash/internal/notify"
	"github.com/clawbets/clawdash/internal/service"
	"github.com/clawbets/clawdash/internal/store/postgres"
)

// Dependencies bundles every domain-level dependency that the application
// modes need to operate. It is constructed by Wire and torn down by the
// returned cleanup function.
type Dependencies struct {
	Ledger      domain.LedgerReader
	Cache       domain.ResponseCache
	RateLimiter domain.RateLimiter

	// MemoryLimiter is non-nil when the in-process limiter backend is active;
	// it needs a periodic sweeper, which the modes start.
	MemoryLimiter *memory.RateLimiter

	// ActivityStore is nil when the Postgres archive is disabled.
	ActivityStore domain.ActivityStore

	Notifier *notify.Notifier

	// View services.
	Markets     *service.MarketService
	Bets        *service.BetService
	Reputations *service.ReputationService
	Protocol    *service.ProtocolService
	Activity    *service.ActivityService
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Ledger ---
	programID, err := solanago.PublicKeyFromBase58(cfg.Solana.ProgramID)
	if err != nil {
		return nil, nil, fmt.Errorf("wire: invalid program id %q: %w", cfg.Solana.ProgramID, err)
	}
	deps.Ledger = solana.NewClient(cfg.Solana.RPCURL, programID, logger)

	// --- Cache and rate limiter backend ---
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		deps.Cache = redis.NewResponseCache(redisClient)
		deps.RateLimiter = redis.NewRateLimiter(redisClient)
	} else {
		deps.Cache = memory.NewResponseCache(cfg.Cache.MaxEntries, nil)
		limiter := memory.NewRateLimiter(nil)
		deps.RateLimiter = limiter
		deps.MemoryLimiter = limiter
	}

	// --- Postgres activity archive ---
	if cfg.Postgres.Enabled {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.PoolMaxConns,
			MinConns: cfg.Postgres.PoolMinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		if cfg.Postgres.RunMigrations {
			if err := pgClient.RunMigrations(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
			}
		}

		deps.ActivityStore = postgres.NewActivityStore(pgClient.Pool())
	}

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	// --- View services ---
	ttl := cfg.Cache.TTL.Duration
	deps.Markets = service.NewMarketService(deps.Ledger, deps.Cache, ttl, logger)
	deps.Bets = service.NewBetService(deps.Ledger, deps.Cache, ttl, logger)
	deps.Reputations = service.NewReputationService(deps.Ledger, deps.Cache, ttl, logger)
	deps.Protocol = service.NewProtocolService(deps.Ledger, deps.Cache, ttl, logger)
	deps.Activity = service.NewActivityService(deps.Ledger, deps.Cache, ttl, cfg.Feed.ActivityLimit, logger)

	return deps, cleanup, nil
}
