package pipeline

import (
	"fmt"
	"strings"

	"github.com/albatrocity/radio-room-server-sub000/pkg/action"
	"github.com/albatrocity/radio-room-server-sub000/pkg/rule"
)

// ValidateWiring validates that the pipeline is correctly wired.
// It checks that:
// - All rooms in config have a registered rule set
// - All enabled actions in config have registered instances
// - Every action type used by a registered rule has an enabled action
//
// This catches common mistakes like:
// - Forgetting to register the built-in action factories
// - Disabling an action that live rules still fire
func ValidateWiring(ruleRegistry *rule.Registry, actionRegistry *action.Registry, config *Config) error {
	var errors []string

	for _, rc := range config.Rooms {
		if _, ok := ruleRegistry.Get(rc.ID); !ok {
			errors = append(errors, fmt.Sprintf("room '%s' is configured but has no registered rule set", rc.ID))
		}
	}

	for _, ac := range config.Actions {
		if !ac.Enabled {
			continue
		}

		if actionRegistry.Get(ac.Type) == nil {
			errors = append(errors, fmt.Sprintf("action '%s' (type=%s) is enabled in config but not registered", ac.ID, ac.Type))
		}
	}

	for _, roomID := range ruleRegistry.Rooms() {
		set, _ := ruleRegistry.Get(roomID)
		for _, rules := range [][]rule.TriggerRule{set.ReactionRules, set.MessageRules} {
			for _, r := range rules {
				if actionRegistry.GetEnabled(r.ActionType) == nil {
					errors = append(errors, fmt.Sprintf("rule '%s' in room '%s' fires %s but no enabled action handles it", r.ID, roomID, r.ActionType))
				}
			}
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("pipeline wiring validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}
