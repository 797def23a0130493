package handler

import (
	"testing"

	"github.com/albatrocity/radio-room-server-sub000/pkg/action"
	"github.com/albatrocity/radio-room-server-sub000/pkg/action/builtin"
	"github.com/albatrocity/radio-room-server-sub000/pkg/history"
	"github.com/albatrocity/radio-room-server-sub000/pkg/pipeline"
	"github.com/albatrocity/radio-room-server-sub000/pkg/rule"
	"github.com/albatrocity/radio-room-server-sub000/pkg/service"
	"github.com/albatrocity/radio-room-server-sub000/pkg/service/mock"
	"github.com/albatrocity/radio-room-server-sub000/pkg/signal"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

// setupTestPipeline creates a complete test pipeline with Redis backend
func setupTestPipeline(t *testing.T, mr *miniredis.Miniredis, music *mock.MusicService) *pipeline.Manager {
	t.Helper()

	client := getRedisClient(mr)
	t.Cleanup(func() { client.Close() })

	actionRegistry := action.NewRegistry()
	if err := actionRegistry.Register(builtin.NewSkipTrackAction(
		action.ActionConfig{ID: builtin.SkipTrackActionID, Type: rule.ActionSkipTrack, Enabled: true}, music)); err != nil {
		t.Fatalf("failed to register skip action: %v", err)
	}

	rules := rule.NewRegistry()
	rules.SetTemplateValidator(service.NewTextTemplateRenderer().Validate)

	return pipeline.NewManager(
		signal.NewProcessor(),
		rule.NewEngine(history.NewRedisLedger(client, history.DefaultTTL)),
		rules,
		service.NewRedisRuleSetStore(client),
		action.NewExecutor(actionRegistry),
	)
}

// getRedisClient returns a Redis client connected to the miniredis instance
func getRedisClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
