package service

import (
	"context"

	"github.com/albatrocity/radio-room-server-sub000/pkg/rule"
)

// Collaborator interfaces for the effects actions produce and the
// configuration the pipeline persists.
//
// The default implementations talk to Redis, but having interfaces allows
// easier mocking for unit tests.

// MusicService controls playback in a room.
type MusicService interface {
	// SkipTrack skips the given track if it is still playing.
	SkipTrack(ctx context.Context, roomID, trackID string) error

	// LikeTrack saves the given track on behalf of the room.
	LikeTrack(ctx context.Context, roomID, trackID string) error
}

// MessageSender posts messages to a room's chat.
type MessageSender interface {
	SendSystemMessage(ctx context.Context, roomID, content string) error
}

// TemplateRenderer renders a rule's message template against room variables.
type TemplateRenderer interface {
	Render(template string, vars RoomVariables) (string, error)
}

// RuleSetStore persists each room's trigger rules.
type RuleSetStore interface {
	// GetRuleSet returns the stored rule set; found is false when the room
	// has none.
	GetRuleSet(ctx context.Context, roomID string) (set rule.RuleSet, found bool, err error)
	SaveRuleSet(ctx context.Context, roomID string, set rule.RuleSet) error
	DeleteRuleSet(ctx context.Context, roomID string) error
}
