package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/albatrocity/radio-room-server-sub000/pkg/room"
	"github.com/albatrocity/radio-room-server-sub000/pkg/rule"
	"github.com/albatrocity/radio-room-server-sub000/pkg/signal"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return client, mr
}

func TestRedisCommandPublisher(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	publisher := NewRedisCommandPublisher(client, RedisCommandPublisherConfig{ChannelPrefix: "test"})
	publisher.now = func() time.Time { return time.Unix(100, 0).UTC() }

	sub := client.Subscribe(ctx, publisher.MusicChannel(), publisher.MessageChannel())
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("failed to subscribe: %v", err)
	}
	messages := sub.Channel()

	if err := publisher.SkipTrack(ctx, "room-1", "t1"); err != nil {
		t.Fatalf("SkipTrack() error = %v", err)
	}
	if err := publisher.SendSystemMessage(ctx, "room-1", "bye track"); err != nil {
		t.Fatalf("SendSystemMessage() error = %v", err)
	}

	expected := []struct {
		channel string
		cmd     Command
	}{
		{"test:music", Command{Type: CommandSkipTrack, RoomID: "room-1", TrackID: "t1", IssuedAt: time.Unix(100, 0).UTC()}},
		{"test:messages", Command{Type: CommandSystemMessage, RoomID: "room-1", Content: "bye track", IssuedAt: time.Unix(100, 0).UTC()}},
	}

	for _, e := range expected {
		select {
		case msg := <-messages:
			if msg.Channel != e.channel {
				t.Errorf("channel = %s, expected %s", msg.Channel, e.channel)
			}
			var cmd Command
			if err := json.Unmarshal([]byte(msg.Payload), &cmd); err != nil {
				t.Fatalf("failed to decode command: %v", err)
			}
			if cmd.Type != e.cmd.Type || cmd.RoomID != e.cmd.RoomID || cmd.TrackID != e.cmd.TrackID || cmd.Content != e.cmd.Content {
				t.Errorf("command = %+v, expected %+v", cmd, e.cmd)
			}
			if !cmd.IssuedAt.Equal(e.cmd.IssuedAt) {
				t.Errorf("IssuedAt = %v, expected %v", cmd.IssuedAt, e.cmd.IssuedAt)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %s command", e.cmd.Type)
		}
	}
}

func TestRedisCommandPublisher_DefaultPrefix(t *testing.T) {
	publisher := NewRedisCommandPublisher(nil, RedisCommandPublisherConfig{})
	if publisher.MusicChannel() != DefaultChannelPrefix+":music" {
		t.Errorf("MusicChannel() = %s, expected default prefix", publisher.MusicChannel())
	}
}

func TestRedisCommandPublisher_Unreachable(t *testing.T) {
	client, mr := setupTestRedis(t)
	mr.Close()

	publisher := NewRedisCommandPublisher(client, RedisCommandPublisherConfig{})
	if err := publisher.LikeTrack(context.Background(), "room-1", "t1"); err == nil {
		t.Error("expected error when redis is unreachable")
	}
}

func TestRuleSetStores(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()

	maxTimes := 1
	set := rule.RuleSet{
		ReactionRules: []rule.TriggerRule{{
			ID:         "r1",
			On:         signal.KindReaction,
			Subject:    room.Ref{Kind: room.KindTrack, Identifier: room.Latest},
			Target:     &room.Ref{Kind: room.KindTrack, Identifier: room.Latest},
			ActionType: rule.ActionSkipTrack,
			Conditions: rule.Conditions{
				Qualifier:     rule.Qualifier{SourceAttribute: rule.AttrEmoji, Comparator: rule.QualifierEquals, Determiner: ":-1:"},
				Comparator:    rule.GreaterThanOrEqual,
				Threshold:     50,
				ThresholdType: rule.ThresholdPercent,
				CompareTo:     rule.GroupListeners,
				MaxTimes:      &maxTimes,
			},
		}},
	}

	stores := map[string]RuleSetStore{
		"redis":  NewRedisRuleSetStore(client),
		"memory": NewMemoryRuleSetStore(),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, found, err := store.GetRuleSet(ctx, "room-1")
			if err != nil {
				t.Fatalf("GetRuleSet() error = %v", err)
			}
			if found {
				t.Fatal("GetRuleSet() found a rule set before any was saved")
			}

			if err := store.SaveRuleSet(ctx, "room-1", set); err != nil {
				t.Fatalf("SaveRuleSet() error = %v", err)
			}

			got, found, err := store.GetRuleSet(ctx, "room-1")
			if err != nil || !found {
				t.Fatalf("GetRuleSet() = found %v, error %v", found, err)
			}
			if len(got.ReactionRules) != 1 {
				t.Fatalf("len(ReactionRules) = %d, expected 1", len(got.ReactionRules))
			}
			r := got.ReactionRules[0]
			if r.Conditions.MaxTimes == nil || *r.Conditions.MaxTimes != 1 {
				t.Errorf("MaxTimes = %v, expected 1", r.Conditions.MaxTimes)
			}
			if r.Target == nil || r.Target.Identifier != room.Latest {
				t.Errorf("Target = %v, expected latest track", r.Target)
			}
			if r.Conditions.CompareTo != rule.GroupListeners {
				t.Errorf("CompareTo = %s, expected listeners", r.Conditions.CompareTo)
			}

			if err := store.DeleteRuleSet(ctx, "room-1"); err != nil {
				t.Fatalf("DeleteRuleSet() error = %v", err)
			}
			if _, found, _ := store.GetRuleSet(ctx, "room-1"); found {
				t.Error("GetRuleSet() found a rule set after delete")
			}
		})
	}
}

func TestRedisRuleSetStore_Malformed(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()

	if err := mr.Set(makeRuleSetStoreKey("room-1"), "{"); err != nil {
		t.Fatalf("failed to seed key: %v", err)
	}

	store := NewRedisRuleSetStore(client)
	if _, _, err := store.GetRuleSet(context.Background(), "room-1"); err == nil {
		t.Error("expected error for malformed rule set")
	}
}

func TestTextTemplateRenderer(t *testing.T) {
	renderer := NewTextTemplateRenderer()
	vars := RoomVariables{
		NowPlaying:    room.PlaylistItem{TrackID: "t1", Title: "Windowlicker", Artist: "Aphex Twin"},
		HasTrack:      true,
		ListenerCount: 4,
		QueueLength:   2,
		User:          room.User{UserID: "u1", Username: "ada"},
	}

	tests := []struct {
		name      string
		source    string
		expected  string
		expectErr bool
	}{
		{"plain text", "hello", "hello", false},
		{"track", "Skipping {{.NowPlaying.Title}} by {{.NowPlaying.Artist}}", "Skipping Windowlicker by Aphex Twin", false},
		{"counts", "{{.ListenerCount}} listening, {{.QueueLength}} queued", "4 listening, 2 queued", false},
		{"user", "thanks {{.User.Username}}", "thanks ada", false},
		{"conditional", "{{if .HasTrack}}on{{else}}off{{end}}", "on", false},
		{"parse error", "{{.NowPlaying", "", true},
		{"unknown field", "{{.Nope}}", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := renderer.Render(tt.source, vars)
			if (err != nil) != tt.expectErr {
				t.Fatalf("Render() error = %v, expectErr %v", err, tt.expectErr)
			}
			if got != tt.expected {
				t.Errorf("Render() = %q, expected %q", got, tt.expected)
			}
		})
	}

	if err := renderer.Validate("{{.ListenerCount}}"); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if len(renderer.cache) != 7 {
		t.Errorf("cache size = %d, expected 7 parsed templates", len(renderer.cache))
	}
}

func TestVariablesFor(t *testing.T) {
	state := &room.State{
		RoomID: "room-1",
		Users: []room.User{
			{UserID: "u1", Username: "ada", Status: room.StatusListening},
			{UserID: "u2", Status: room.StatusParticipating},
			{UserID: "u3", Status: room.StatusOffline},
		},
		Playlist: []room.PlaylistItem{{TrackID: "t1"}, {TrackID: "t2", Title: "Xtal"}},
		Queue:    []room.PlaylistItem{{TrackID: "t3"}},
	}

	vars := VariablesFor(state, "u1")
	if vars.ListenerCount != 1 || vars.ParticipantCount != 2 || vars.QueueLength != 1 {
		t.Errorf("counts = %d/%d/%d, expected 1/2/1", vars.ListenerCount, vars.ParticipantCount, vars.QueueLength)
	}
	if !vars.HasTrack || vars.NowPlaying.Title != "Xtal" {
		t.Errorf("NowPlaying = %+v, expected Xtal", vars.NowPlaying)
	}
	if vars.User.Username != "ada" {
		t.Errorf("User.Username = %s, expected ada", vars.User.Username)
	}

	vars = VariablesFor(nil, "ghost")
	if vars.HasTrack || vars.User.UserID != "ghost" {
		t.Errorf("VariablesFor(nil) = %+v, expected empty variables for ghost", vars)
	}
	if !strings.Contains(vars.User.UserID, "ghost") {
		t.Error("expected triggering user ID to be kept")
	}
}

func TestHealthChecker(t *testing.T) {
	client, mr := setupTestRedis(t)

	checker := NewHealthChecker(client)
	if !checker.IsHealthy(context.Background()) {
		t.Error("expected redis to be healthy")
	}

	mr.Close()
	if checker.IsHealthy(context.Background()) {
		t.Error("expected redis to be unhealthy after close")
	}
}

func TestHealthChecker_Watch(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan bool, 4)

	go NewHealthChecker(client).Watch(ctx, 10*time.Millisecond, func(healthy bool) { changes <- healthy })

	select {
	case healthy := <-changes:
		if !healthy {
			t.Error("first report should be healthy")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for first health report")
	}
	cancel()
}
