package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies CLAWDASH_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known CLAWDASH_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.Solana.RPCURL, "CLAWDASH_SOLANA_RPC_URL")
	setStr(&cfg.Solana.ProgramID, "CLAWDASH_SOLANA_PROGRAM_ID")

	setBool(&cfg.Redis.Enabled, "CLAWDASH_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "CLAWDASH_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "CLAWDASH_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "CLAWDASH_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "CLAWDASH_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "CLAWDASH_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "CLAWDASH_REDIS_TLS_ENABLED")

	setBool(&cfg.Postgres.Enabled, "CLAWDASH_POSTGRES_ENABLED")
	setStr(&cfg.Postgres.DSN, "CLAWDASH_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "CLAWDASH_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "CLAWDASH_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "CLAWDASH_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "CLAWDASH_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "CLAWDASH_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "CLAWDASH_POSTGRES_SSLMODE")
	setInt(&cfg.Postgres.PoolMaxConns, "CLAWDASH_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "CLAWDASH_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "CLAWDASH_POSTGRES_RUN_MIGRATIONS")

	setDuration(&cfg.Cache.TTL, "CLAWDASH_CACHE_TTL")
	setInt(&cfg.Cache.MaxEntries, "CLAWDASH_CACHE_MAX_ENTRIES")

	setBool(&cfg.RateLimit.Enabled, "CLAWDASH_RATE_LIMIT_ENABLED")
	setInt(&cfg.RateLimit.Limit, "CLAWDASH_RATE_LIMIT_LIMIT")
	setDuration(&cfg.RateLimit.Window, "CLAWDASH_RATE_LIMIT_WINDOW")
	setDuration(&cfg.RateLimit.SweepInterval, "CLAWDASH_RATE_LIMIT_SWEEP_INTERVAL")

	setDuration(&cfg.Poll.MarketInterval, "CLAWDASH_POLL_MARKET_INTERVAL")
	setDuration(&cfg.Poll.ActivityInterval, "CLAWDASH_POLL_ACTIVITY_INTERVAL")
	setDuration(&cfg.Poll.OverlayTick, "CLAWDASH_POLL_OVERLAY_TICK")

	setInt(&cfg.Feed.ActivityLimit, "CLAWDASH_FEED_ACTIVITY_LIMIT")
	setInt(&cfg.Feed.SeenBound, "CLAWDASH_FEED_SEEN_BOUND")
	setInt(&cfg.Feed.QueueCapacity, "CLAWDASH_FEED_QUEUE_CAPACITY")
	setDuration(&cfg.Feed.NotificationLifetime, "CLAWDASH_FEED_NOTIFICATION_LIFETIME")
	setDuration(&cfg.Feed.RefetchAfter, "CLAWDASH_FEED_REFETCH_AFTER")
	setDuration(&cfg.Feed.ExpireAfter, "CLAWDASH_FEED_EXPIRE_AFTER")

	setBool(&cfg.Server.Enabled, "CLAWDASH_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "CLAWDASH_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "CLAWDASH_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "CLAWDASH_SERVER_API_KEY")

	setStr(&cfg.Notify.TelegramToken, "CLAWDASH_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "CLAWDASH_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "CLAWDASH_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "CLAWDASH_NOTIFY_EVENTS")

	setStr(&cfg.Mode, "CLAWDASH_MODE")
	setStr(&cfg.LogLevel, "CLAWDASH_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
