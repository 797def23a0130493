package builtin

import (
	"github.com/albatrocity/radio-room-server-sub000/pkg/action"
	"github.com/albatrocity/radio-room-server-sub000/pkg/rule"
	"github.com/albatrocity/radio-room-server-sub000/pkg/service"
)

// Dependencies holds dependencies needed by built-in actions.
type Dependencies struct {
	Music    service.MusicService
	Messages service.MessageSender
	Renderer service.TemplateRenderer
}

// RegisterActions registers built-in action factories with dependencies.
// Built-in actions require dependencies, so they cannot be registered in
// init().
func RegisterActions(deps *Dependencies) {
	action.RegisterActionType(rule.ActionSkipTrack, func(config action.ActionConfig) (action.Action, error) {
		return NewSkipTrackAction(config, deps.Music), nil
	})

	action.RegisterActionType(rule.ActionLikeTrack, func(config action.ActionConfig) (action.Action, error) {
		return NewLikeTrackAction(config, deps.Music), nil
	})

	action.RegisterActionType(rule.ActionSendMessage, func(config action.ActionConfig) (action.Action, error) {
		return NewSendMessageAction(config, deps.Messages, deps.Renderer), nil
	})
}

// DefaultConfigs returns an enabled configuration for every built-in
// action, used when the pipeline config declares no actions.
func DefaultConfigs() []action.ActionConfig {
	return []action.ActionConfig{
		{ID: SkipTrackActionID, Name: "Skip Track", Type: rule.ActionSkipTrack, Enabled: true},
		{ID: LikeTrackActionID, Name: "Like Track", Type: rule.ActionLikeTrack, Enabled: true},
		{ID: SendMessageActionID, Name: "Send Message", Type: rule.ActionSendMessage, Enabled: true},
	}
}
