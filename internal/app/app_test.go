package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/albatrocity/radio-room-server-sub000/internal/config"
	"github.com/alicebob/miniredis/v2"
)

const testPipelineConfig = `
rooms:
  - id: lobby
    rules:
      reactionRules:
        - id: thumbs-down-skip
          subject: {kind: track, identifier: latest}
          actionType: skipTrack
          conditions:
            qualifier: {sourceAttribute: emoji, comparator: equals, determiner: ":-1:"}
            comparator: ">="
            threshold: 2
            thresholdType: count
actions:
  - id: skip_track
    type: skipTrack
    enabled: true
`

func testConfig(t *testing.T, mr *miniredis.Miniredis, pipelineYAML string) *config.Config {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte(pipelineYAML), 0644); err != nil {
		t.Fatalf("failed to write pipeline config: %v", err)
	}

	return &config.Config{
		GRPCPort:                   6565,
		MetricsPort:                8080,
		ServiceName:                "trigger-test",
		RedisHost:                  mr.Host(),
		RedisPort:                  mr.Port(),
		RedisMaxRetries:            1,
		RedisRetryDelayMs:          10,
		ConfigPath:                 path,
		LedgerBackend:              "redis",
		HistoryTTLHours:            1,
		CommandSink:                "redis",
		HealthCheckIntervalSeconds: 1,
	}
}

func TestNew_SeedsConfiguredRooms(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t, mr, testPipelineConfig)

	app, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer app.Shutdown(context.Background())

	seeded := false
	for _, key := range mr.Keys() {
		if strings.HasSuffix(key, "lobby") {
			seeded = true
		}
	}
	if !seeded {
		t.Errorf("expected the lobby rule set to be stored in Redis, keys = %v", mr.Keys())
	}
}

func TestNew_RejectsRuleWithoutEnabledAction(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t, mr, strings.Replace(testPipelineConfig, "enabled: true", "enabled: false", 1))

	if _, err := New(context.Background(), cfg); err == nil {
		t.Fatal("expected wiring validation to fail")
	}
}

func TestNew_RedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t, mr, testPipelineConfig)
	mr.Close()

	if _, err := New(context.Background(), cfg); err == nil {
		t.Fatal("expected New() to fail without Redis")
	}
}
