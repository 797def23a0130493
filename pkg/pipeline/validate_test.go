package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/albatrocity/radio-room-server-sub000/pkg/action"
	"github.com/albatrocity/radio-room-server-sub000/pkg/room"
	"github.com/albatrocity/radio-room-server-sub000/pkg/rule"
)

// mockAction for testing
type mockAction struct {
	id         string
	actionType rule.ActionType
	enabled    bool
}

func (m *mockAction) ID() string            { return m.id }
func (m *mockAction) Name() string          { return "Mock Action" }
func (m *mockAction) Type() rule.ActionType { return m.actionType }
func (m *mockAction) Execute(ctx context.Context, state *room.State, intent rule.FiringIntent) error {
	return nil
}
func (m *mockAction) Config() action.ActionConfig {
	return action.ActionConfig{
		ID:      m.id,
		Type:    m.actionType,
		Enabled: m.enabled,
	}
}

func skipOnlyRuleSet() rule.RuleSet {
	return rule.RuleSet{ReactionRules: []rule.TriggerRule{{ID: "skip", ActionType: rule.ActionSkipTrack}}}
}

func TestValidateWiring_Success(t *testing.T) {
	ruleRegistry := rule.NewRegistry()
	ruleRegistry.Set("lobby", skipOnlyRuleSet())

	actionRegistry := action.NewRegistry()
	actionRegistry.Register(&mockAction{id: "skip_track", actionType: rule.ActionSkipTrack, enabled: true})

	config := &Config{
		Rooms:   []RoomConfig{{ID: "lobby"}},
		Actions: []action.ActionConfig{{ID: "skip_track", Type: rule.ActionSkipTrack, Enabled: true}},
	}

	if err := ValidateWiring(ruleRegistry, actionRegistry, config); err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
}

func TestValidateWiring_Failures(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(rules *rule.Registry, actions *action.Registry)
		config    *Config
		expectErr string
	}{
		{
			name:      "room not registered",
			setup:     func(rules *rule.Registry, actions *action.Registry) {},
			config:    &Config{Rooms: []RoomConfig{{ID: "lobby"}}},
			expectErr: "room 'lobby' is configured",
		},
		{
			name:  "action not registered",
			setup: func(rules *rule.Registry, actions *action.Registry) {},
			config: &Config{Actions: []action.ActionConfig{
				{ID: "like_track", Type: rule.ActionLikeTrack, Enabled: true},
			}},
			expectErr: "action 'like_track' (type=likeTrack) is enabled in config but not registered",
		},
		{
			name: "rule fires disabled action",
			setup: func(rules *rule.Registry, actions *action.Registry) {
				rules.Set("lobby", skipOnlyRuleSet())
				actions.Register(&mockAction{id: "skip_track", actionType: rule.ActionSkipTrack, enabled: false})
			},
			config:    &Config{},
			expectErr: "rule 'skip' in room 'lobby' fires skipTrack",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ruleRegistry := rule.NewRegistry()
			actionRegistry := action.NewRegistry()
			tt.setup(ruleRegistry, actionRegistry)

			err := ValidateWiring(ruleRegistry, actionRegistry, tt.config)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.expectErr) {
				t.Errorf("expected error to contain %q, got: %v", tt.expectErr, err)
			}
		})
	}
}

func TestValidateWiring_DisabledActionSkipped(t *testing.T) {
	config := &Config{Actions: []action.ActionConfig{
		{ID: "like_track", Type: rule.ActionLikeTrack, Enabled: false},
	}}

	if err := ValidateWiring(rule.NewRegistry(), action.NewRegistry(), config); err != nil {
		t.Errorf("expected disabled action to be ignored, got: %v", err)
	}
}
