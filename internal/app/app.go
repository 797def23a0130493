// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/albatrocity/radio-room-server-sub000/internal/bootstrap"
	"github.com/albatrocity/radio-room-server-sub000/internal/config"
	"github.com/albatrocity/radio-room-server-sub000/internal/server"
	"github.com/albatrocity/radio-room-server-sub000/pkg/history"
	"github.com/albatrocity/radio-room-server-sub000/pkg/pipeline"
	"github.com/albatrocity/radio-room-server-sub000/pkg/service"
	"github.com/cenkalti/backoff/v4"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	actionBuiltin "github.com/albatrocity/radio-room-server-sub000/pkg/action/builtin"
)

// App holds all application dependencies and manages the application lifecycle.
type App struct {
	cfg               *config.Config
	grpcServer        *server.GRPCServer
	metricsServer     *server.MetricsServer
	redisClient       *redis.Client
	healthChecker     *service.HealthChecker
	shutdownTelemetry func(context.Context) error
}

// New creates and initializes a new application instance.
//
// ============================================================
// DEVELOPER: Application initialization order
// ============================================================
// Components are initialized in dependency order:
// 1. Redis (rule sets, firing history, command channels)
// 2. Pipeline config (YAML configuration)
// 3. External services (stores, command sink, templates)
// 4. Pipeline components (signal → rule → action)
// 5. Servers (gRPC, metrics)
// 6. Telemetry (OpenTelemetry tracing)
//
// If you add new external dependencies, initialize them in
// step 3 before bootstrapping pipeline components.
// ============================================================
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logrus.Info("initializing application...")

	app := &App{cfg: cfg}

	// ============================================================
	// Step 1: Initialize Redis
	// ============================================================
	if err := app.initRedis(ctx); err != nil {
		return nil, fmt.Errorf("failed to init Redis: %w", err)
	}
	app.healthChecker = service.NewHealthChecker(app.redisClient)

	// ============================================================
	// Step 2: Load pipeline configuration
	// ============================================================
	pipelineConfig, err := pipeline.LoadConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load pipeline config from %s: %w", cfg.ConfigPath, err)
	}
	logrus.Infof("loaded pipeline configuration from %s", cfg.ConfigPath)

	// ============================================================
	// Step 3: Initialize external services
	// ============================================================
	ledger, err := history.New(cfg.LedgerBackend, app.redisClient, cfg.HistoryTTL())
	if err != nil {
		return nil, fmt.Errorf("failed to init firing history: %w", err)
	}
	ruleSetStore := app.initRuleSetStore()
	music, messages := app.initCommandSink()

	// ============================================================
	// Step 4: Bootstrap pipeline components
	// ============================================================
	// Signal Processor → Rule Engine → Action Executor → Pipeline Manager
	// ============================================================
	renderer := service.NewTextTemplateRenderer()

	processor := bootstrap.InitSignalProcessor()
	ruleEngine, ruleRegistry := bootstrap.InitRuleEngine(ledger, renderer.Validate)

	deps := &actionBuiltin.Dependencies{
		Music:    music,
		Messages: messages,
		Renderer: renderer,
	}

	actionExecutor, actionRegistry, err := bootstrap.InitActionExecutor(pipelineConfig, deps)
	if err != nil {
		return nil, fmt.Errorf("failed to init action executor: %w", err)
	}

	pipelineManager := bootstrap.InitPipeline(processor, ruleEngine, ruleRegistry, ruleSetStore, actionExecutor)
	if err := bootstrap.SeedRuleSets(ctx, pipelineManager, pipelineConfig); err != nil {
		return nil, fmt.Errorf("failed to seed rule sets: %w", err)
	}

	// ============================================================
	// Validate pipeline wiring
	// ============================================================
	// Every seeded rule must fire an action type that is enabled
	// in config/pipeline.yaml.
	// ============================================================
	if err := pipeline.ValidateWiring(ruleRegistry, actionRegistry, pipelineConfig); err != nil {
		return nil, fmt.Errorf("pipeline wiring validation failed: %w", err)
	}
	logrus.Info("pipeline wiring validation passed")

	// ============================================================
	// Step 5: Setup servers
	// ============================================================
	app.grpcServer = server.NewGRPCServer(cfg.GRPCPort, pipelineManager)
	if err := app.grpcServer.Setup(); err != nil {
		return nil, fmt.Errorf("failed to setup gRPC server: %w", err)
	}

	app.metricsServer = server.NewMetricsServer(cfg.MetricsPort, "/metrics")
	if err := app.metricsServer.Setup(); err != nil {
		return nil, fmt.Errorf("failed to setup metrics server: %w", err)
	}

	// ============================================================
	// Step 6: Setup telemetry
	// ============================================================
	if cfg.OtelEnabled {
		shutdownTelemetry, err := server.SetupTelemetry(ctx, cfg.OtelServiceName, cfg.Environment, 0, cfg.OtelZipkinEndpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to setup telemetry: %w", err)
		}
		app.shutdownTelemetry = shutdownTelemetry
	} else {
		logrus.Info("telemetry disabled")
	}

	logrus.Info("application initialized successfully")

	return app, nil
}

// initRedis initializes the Redis client.
func (a *App) initRedis(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:         a.cfg.RedisAddr(),
		Password:     a.cfg.RedisPassword,
		DB:           a.cfg.RedisDB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Duration(a.cfg.RedisRetryDelayMs) * time.Millisecond
	maxRetries := backoff.WithContext(backoff.WithMaxRetries(b, uint64(a.cfg.RedisMaxRetries)), ctx)

	err := backoff.Retry(
		func() error {
			_, err := client.Ping(ctx).Result()
			if err != nil {
				logrus.Warnf("Redis connection failed: %v, retrying...", err)
				return err
			}
			return nil
		},
		maxRetries,
	)

	if err != nil {
		_ = client.Close()
		return err
	}

	a.redisClient = client
	logrus.Info("Redis client initialized")
	return nil
}

// initRuleSetStore keeps room rule sets next to the firing history: in
// Redis when the ledger is shared, in process memory otherwise.
func (a *App) initRuleSetStore() service.RuleSetStore {
	if a.cfg.LedgerBackend == history.BackendMemory {
		return service.NewMemoryRuleSetStore()
	}
	return service.NewRedisRuleSetStore(a.redisClient)
}

// initCommandSink returns where skip, like and chat commands go.
//
// ============================================================
// DEVELOPER: Room host integration
// ============================================================
// By default commands are published to Redis pub/sub channels
// the room host subscribes to. COMMAND_SINK=log only logs them,
// which is handy when running without a room host.
// ============================================================
func (a *App) initCommandSink() (service.MusicService, service.MessageSender) {
	if a.cfg.CommandSink == "log" {
		logrus.Info("room commands will be logged, not published")
		return service.LogSink{}, service.LogSink{}
	}

	publisher := service.NewRedisCommandPublisher(a.redisClient, service.RedisCommandPublisherConfig{
		ChannelPrefix: a.cfg.CommandChannelPrefix,
	})
	logrus.Infof("publishing room commands on %s and %s", publisher.MusicChannel(), publisher.MessageChannel())
	return publisher, publisher
}
