// Package config defines the top-level configuration for the dashboard sync
// service and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by CLAWDASH_* environment variables.
type Config struct {
	Solana    SolanaConfig    `toml:"solana"`
	Redis     RedisConfig     `toml:"redis"`
	Postgres  PostgresConfig  `toml:"postgres"`
	Cache     CacheConfig     `toml:"cache"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Poll      PollConfig      `toml:"poll"`
	Feed      FeedConfig      `toml:"feed"`
	Server    ServerConfig    `toml:"server"`
	Notify    NotifyConfig    `toml:"notify"`
	Mode      string          `toml:"mode"`
	LogLevel  string          `toml:"log_level"`
}

// SolanaConfig holds the RPC endpoint and the prediction-market program.
type SolanaConfig struct {
	RPCURL    string `toml:"rpc_url"`
	ProgramID string `toml:"program_id"`
}

// RedisConfig holds Redis connection parameters. When disabled, the response
// cache and rate limiter fall back to their in-process implementations.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// PostgresConfig holds the activity archive connection parameters. When
// disabled, the watcher runs without durable feed history.
type PostgresConfig struct {
	Enabled       bool   `toml:"enabled"`
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// CacheConfig tunes the read-through response cache.
type CacheConfig struct {
	TTL        duration `toml:"ttl"`
	MaxEntries int      `toml:"max_entries"`
}

// RateLimitConfig tunes the per-client sliding-window rate limiter.
type RateLimitConfig struct {
	Enabled       bool     `toml:"enabled"`
	Limit         int      `toml:"limit"`
	Window        duration `toml:"window"`
	SweepInterval duration `toml:"sweep_interval"`
}

// PollConfig holds the watcher's polling cadences.
type PollConfig struct {
	MarketInterval   duration `toml:"market_interval"`
	ActivityInterval duration `toml:"activity_interval"`
	OverlayTick      duration `toml:"overlay_tick"`
}

// FeedConfig tunes the activity feed pipeline.
type FeedConfig struct {
	ActivityLimit        int      `toml:"activity_limit"`
	SeenBound            int      `toml:"seen_bound"`
	QueueCapacity        int      `toml:"queue_capacity"`
	NotificationLifetime duration `toml:"notification_lifetime"`
	RefetchAfter         duration `toml:"refetch_after"`
	ExpireAfter          duration `toml:"expire_after"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Enabled     bool     `toml:"enabled"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	APIKey      string   `toml:"api_key"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Solana: SolanaConfig{
			RPCURL: "https://api.devnet.solana.com",
		},
		Redis: RedisConfig{
			Enabled:    false,
			Addr:       "localhost:6379",
			PoolSize:   20,
			MaxRetries: 3,
		},
		Postgres: PostgresConfig{
			Enabled:       false,
			Host:          "localhost",
			Port:          5432,
			Database:      "clawdash",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Cache: CacheConfig{
			TTL:        duration{10 * time.Second},
			MaxEntries: 1024,
		},
		RateLimit: RateLimitConfig{
			Enabled:       true,
			Limit:         60,
			Window:        duration{60 * time.Second},
			SweepInterval: duration{5 * time.Minute},
		},
		Poll: PollConfig{
			MarketInterval:   duration{5 * time.Second},
			ActivityInterval: duration{6 * time.Second},
			OverlayTick:      duration{500 * time.Millisecond},
		},
		Feed: FeedConfig{
			ActivityLimit:        50,
			SeenBound:            4096,
			QueueCapacity:        3,
			NotificationLifetime: duration{5 * time.Second},
			RefetchAfter:         duration{2 * time.Second},
			ExpireAfter:          duration{6 * time.Second},
		},
		Server: ServerConfig{
			Enabled:     true,
			Port:        8080,
			CORSOrigins: []string{"http://localhost:3000"},
		},
		Notify: NotifyConfig{
			Events: []string{"bet", "market_created"},
		},
		Mode:     "full",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"serve": true,
	"watch": true,
	"full":  true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: serve, watch, full)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.Solana.RPCURL == "" {
		errs = append(errs, "solana: rpc_url must not be empty")
	}
	if c.Solana.ProgramID == "" {
		errs = append(errs, "solana: program_id must not be empty")
	}

	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty when enabled")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	if c.Postgres.Enabled {
		if strings.TrimSpace(c.Postgres.DSN) == "" {
			if c.Postgres.Host == "" {
				errs = append(errs, "postgres: host must not be empty (or set postgres.dsn)")
			}
			if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
				errs = append(errs, fmt.Sprintf("postgres: port must be 1-65535, got %d", c.Postgres.Port))
			}
			if c.Postgres.Database == "" {
				errs = append(errs, "postgres: database must not be empty")
			}
		}
		if c.Postgres.PoolMaxConns < 1 {
			errs = append(errs, "postgres: pool_max_conns must be >= 1")
		}
		if c.Postgres.PoolMinConns > c.Postgres.PoolMaxConns {
			errs = append(errs, "postgres: pool_min_conns must not exceed pool_max_conns")
		}
	}

	if c.Cache.TTL.Duration <= 0 {
		errs = append(errs, "cache: ttl must be > 0")
	}
	if c.Cache.MaxEntries < 1 {
		errs = append(errs, "cache: max_entries must be >= 1")
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.Limit < 1 {
			errs = append(errs, "rate_limit: limit must be >= 1 when enabled")
		}
		if c.RateLimit.Window.Duration <= 0 {
			errs = append(errs, "rate_limit: window must be > 0 when enabled")
		}
	}

	if c.Poll.MarketInterval.Duration <= 0 {
		errs = append(errs, "poll: market_interval must be > 0")
	}
	if c.Poll.ActivityInterval.Duration <= 0 {
		errs = append(errs, "poll: activity_interval must be > 0")
	}

	if c.Feed.ActivityLimit < 1 {
		errs = append(errs, "feed: activity_limit must be >= 1")
	}
	if c.Feed.QueueCapacity < 1 {
		errs = append(errs, "feed: queue_capacity must be >= 1")
	}
	if c.Feed.RefetchAfter.Duration >= c.Feed.ExpireAfter.Duration {
		errs = append(errs, "feed: refetch_after must be shorter than expire_after")
	}

	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
	}

	if c.Notify.TelegramToken != "" && c.Notify.TelegramChatID == "" {
		errs = append(errs, "notify: telegram_chat_id is required when telegram_token is set")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
