package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultsValidateWithProgram(t *testing.T) {
	cfg := Defaults()
	cfg.Solana.ProgramID = "C1awBetsProgram1111111111111111111111111111"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "race"
	cfg.Solana.RPCURL = ""
	cfg.Cache.TTL = duration{0}
	cfg.Feed.RefetchAfter = duration{10 * time.Second}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate passed on broken config")
	}
	for _, want := range []string{
		"unknown mode",
		"rpc_url",
		"program_id",
		"cache: ttl",
		"refetch_after",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q:\n%v", want, err)
		}
	}
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
mode = "serve"

[solana]
rpc_url = "http://localhost:8899"
program_id = "C1awBetsProgram1111111111111111111111111111"

[cache]
ttl = "15s"

[rate_limit]
limit = 30
window = "30s"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CLAWDASH_RATE_LIMIT_LIMIT", "10")
	t.Setenv("CLAWDASH_SERVER_PORT", "9999")
	t.Setenv("CLAWDASH_SERVER_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Mode != "serve" {
		t.Errorf("Mode = %q", cfg.Mode)
	}
	if cfg.Cache.TTL.Duration != 15*time.Second {
		t.Errorf("Cache.TTL = %v, want 15s", cfg.Cache.TTL.Duration)
	}
	// Env beats file.
	if cfg.RateLimit.Limit != 10 {
		t.Errorf("RateLimit.Limit = %d, want 10 (env override)", cfg.RateLimit.Limit)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	// Untouched values keep defaults.
	if cfg.Poll.ActivityInterval.Duration != 6*time.Second {
		t.Errorf("Poll.ActivityInterval = %v, want default 6s", cfg.Poll.ActivityInterval.Duration)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestRedactedConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Redis.Password = "hunter2"
	cfg.Postgres.Password = "hunter2"
	cfg.Server.APIKey = "sekret"
	cfg.Notify.TelegramToken = "123:abc"

	red := RedactedConfig(&cfg)

	if red.Redis.Password != "***" || red.Postgres.Password != "***" ||
		red.Server.APIKey != "***" || red.Notify.TelegramToken != "***" {
		t.Errorf("secrets not redacted: %+v", red)
	}
	if cfg.Redis.Password != "hunter2" {
		t.Error("original config mutated")
	}

	red.Notify.Events[0] = "mutated"
	if cfg.Notify.Events[0] == "mutated" {
		t.Error("redacted copy shares Events slice with original")
	}
}
