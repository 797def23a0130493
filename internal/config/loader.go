// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Load reads configuration from environment variables.
// It attempts to load from .env file first (for local development),
// then parses environment variables into the Config struct.
func Load() (*Config, error) {
	// In production (Docker/K8s), environment variables are injected directly
	if err := godotenv.Load(); err != nil {
		logrus.Warnf("no .env file found or error loading it: %v (this is normal in production)", err)
	} else {
		logrus.Infof("loaded environment variables from .env file")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from environment: %w", err)
	}

	return cfg, nil
}

// Validate performs custom validation on the configuration.
//
// ============================================================
// DEVELOPER: Add custom validation logic here.
// ============================================================
// This function is called after environment variables are parsed.
// Add validation for value ranges and cross-field constraints.
// ============================================================
func (c *Config) Validate() error {
	if c.GRPCPort < 1 || c.GRPCPort > 65535 {
		return fmt.Errorf("invalid GRPC_PORT: %d (must be 1-65535)", c.GRPCPort)
	}

	if c.MetricsPort < 1 || c.MetricsPort > 65535 {
		return fmt.Errorf("invalid METRICS_PORT: %d (must be 1-65535)", c.MetricsPort)
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	switch c.LedgerBackend {
	case "redis", "memory":
	default:
		return fmt.Errorf("invalid LEDGER_BACKEND: %q (must be redis or memory)", c.LedgerBackend)
	}

	switch c.CommandSink {
	case "redis", "log":
	default:
		return fmt.Errorf("invalid COMMAND_SINK: %q (must be redis or log)", c.CommandSink)
	}

	if c.HistoryTTLHours < 0 {
		return fmt.Errorf("invalid HISTORY_TTL_HOURS: %d (must not be negative)", c.HistoryTTLHours)
	}

	if c.HealthCheckIntervalSeconds < 1 {
		return fmt.Errorf("invalid HEALTH_CHECK_INTERVAL_SECONDS: %d (must be positive)", c.HealthCheckIntervalSeconds)
	}

	if c.RedisMaxRetries < 0 {
		return fmt.Errorf("invalid REDIS_MAX_RETRIES: %d (must not be negative)", c.RedisMaxRetries)
	}

	return nil
}
