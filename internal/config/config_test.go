package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.GRPCPort != 6565 {
		t.Errorf("GRPCPort = %d, expected 6565", cfg.GRPCPort)
	}
	if cfg.LedgerBackend != "redis" {
		t.Errorf("LedgerBackend = %s, expected redis", cfg.LedgerBackend)
	}
	if cfg.HistoryTTL() != 7*24*time.Hour {
		t.Errorf("HistoryTTL() = %v, expected 168h", cfg.HistoryTTL())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v on defaults", err)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("LEDGER_BACKEND", "memory")
	t.Setenv("HEALTH_CHECK_INTERVAL_SECONDS", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.RedisAddr() != "redis.internal:6380" {
		t.Errorf("RedisAddr() = %s, expected redis.internal:6380", cfg.RedisAddr())
	}
	if cfg.LedgerBackend != "memory" {
		t.Errorf("LedgerBackend = %s, expected memory", cfg.LedgerBackend)
	}
	if cfg.HealthCheckInterval() != 3*time.Second {
		t.Errorf("HealthCheckInterval() = %v, expected 3s", cfg.HealthCheckInterval())
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			GRPCPort:                   6565,
			MetricsPort:                8080,
			LogLevel:                   "info",
			LedgerBackend:              "redis",
			CommandSink:                "redis",
			HistoryTTLHours:            24,
			HealthCheckIntervalSeconds: 10,
			RedisMaxRetries:            5,
		}
	}

	tests := []struct {
		name      string
		mutate    func(c *Config)
		expectErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"grpc port zero", func(c *Config) { c.GRPCPort = 0 }, true},
		{"metrics port too large", func(c *Config) { c.MetricsPort = 70000 }, true},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"memory ledger", func(c *Config) { c.LedgerBackend = "memory" }, false},
		{"unknown ledger", func(c *Config) { c.LedgerBackend = "postgres" }, true},
		{"log sink", func(c *Config) { c.CommandSink = "log" }, false},
		{"unknown sink", func(c *Config) { c.CommandSink = "kafka" }, true},
		{"negative ttl", func(c *Config) { c.HistoryTTLHours = -1 }, true},
		{"zero health interval", func(c *Config) { c.HealthCheckIntervalSeconds = 0 }, true},
		{"negative retries", func(c *Config) { c.RedisMaxRetries = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.expectErr {
				t.Errorf("Validate() error = %v, expectErr %v", err, tt.expectErr)
			}
		})
	}
}
