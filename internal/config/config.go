// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import "time"

// Config holds all application configuration loaded from environment variables.
// This struct uses github.com/caarlos0/env for automatic environment variable parsing.
//
// ============================================================
// DEVELOPER: Add new configuration fields here.
// ============================================================
// Use struct tags to define:
// - `env:"VAR_NAME"` - the environment variable name
// - `env:",required"` - make it required
// - `envDefault:"value"` - set a default value
//
// After adding fields here, update loader.go Validate() if custom
// validation is needed.
// ============================================================
type Config struct {
	// ============================================================
	// Server configuration
	// ============================================================
	GRPCPort    int    `env:"GRPC_PORT" envDefault:"6565"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"RadioRoomTriggerService"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// ============================================================
	// Redis configuration
	// ============================================================
	RedisHost         string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort         string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword     string `env:"REDIS_PASSWORD"`
	RedisDB           int    `env:"REDIS_DB" envDefault:"0"`
	RedisMaxRetries   int    `env:"REDIS_MAX_RETRIES" envDefault:"5"`
	RedisRetryDelayMs int    `env:"REDIS_RETRY_DELAY_MS" envDefault:"1000"`

	// ============================================================
	// Pipeline configuration
	// ============================================================
	ConfigPath string `env:"CONFIG_PATH" envDefault:"config/pipeline.yaml"`

	// LedgerBackend is "redis" (shared between instances) or "memory".
	LedgerBackend   string `env:"LEDGER_BACKEND" envDefault:"redis"`
	HistoryTTLHours int    `env:"HISTORY_TTL_HOURS" envDefault:"168"`

	// Commands for the room host are published on <prefix>:music and
	// <prefix>:messages. Leave COMMAND_SINK=log to only log them.
	CommandSink          string `env:"COMMAND_SINK" envDefault:"redis"`
	CommandChannelPrefix string `env:"COMMAND_CHANNEL_PREFIX" envDefault:"radio_room:commands"`

	HealthCheckIntervalSeconds int `env:"HEALTH_CHECK_INTERVAL_SECONDS" envDefault:"10"`

	// ============================================================
	// Telemetry configuration
	// ============================================================
	OtelEnabled        bool   `env:"OTEL_ENABLED" envDefault:"true"`
	OtelZipkinEndpoint string `env:"OTEL_EXPORTER_ZIPKIN_ENDPOINT"`
	OtelServiceName    string `env:"OTEL_SERVICE_NAME" envDefault:"radio-room-trigger-service"`
}

// RedisAddr is the host:port pair go-redis dials.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// HistoryTTL is how long a room's firing history survives without writes.
func (c *Config) HistoryTTL() time.Duration {
	return time.Duration(c.HistoryTTLHours) * time.Hour
}

// HealthCheckInterval is how often Redis reachability is re-checked.
func (c *Config) HealthCheckInterval() time.Duration {
	return time.Duration(c.HealthCheckIntervalSeconds) * time.Second
}
