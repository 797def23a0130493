package signal

import (
	"time"

	"github.com/albatrocity/radio-room-server-sub000/pkg/room"
)

// Kind discriminates the two kinds of source events rules can listen to.
type Kind string

const (
	KindReaction Kind = "reaction"
	KindMessage  Kind = "message"
)

// Valid reports whether k is a known event kind.
func (k Kind) Valid() bool {
	return k == KindReaction || k == KindMessage
}

// Signal represents a normalized room event.
// Signals are produced by the Processor from raw host payloads and are
// consumed by the rule Engine for evaluation.
type Signal interface {
	// Kind returns the event kind used to select candidate rules.
	Kind() Kind

	// RoomID returns the room the event happened in.
	RoomID() string

	// UserID returns the user who caused the event.
	UserID() string

	// Timestamp returns when the signal occurred.
	Timestamp() time.Time

	// Metadata returns additional signal-specific data for logging and
	// templating.
	Metadata() map[string]interface{}
}

// BaseSignal carries the fields shared by all signals.
type BaseSignal struct {
	kind      Kind
	roomID    string
	userID    string
	timestamp time.Time
	metadata  map[string]interface{}
}

// NewBaseSignal creates a new base signal.
func NewBaseSignal(kind Kind, roomID, userID string, timestamp time.Time, metadata map[string]interface{}) BaseSignal {
	if metadata == nil {
		metadata = make(map[string]interface{})
	}
	return BaseSignal{
		kind:      kind,
		roomID:    roomID,
		userID:    userID,
		timestamp: timestamp,
		metadata:  metadata,
	}
}

// Kind implements Signal interface.
func (s BaseSignal) Kind() Kind { return s.kind }

// RoomID implements Signal interface.
func (s BaseSignal) RoomID() string { return s.roomID }

// UserID implements Signal interface.
func (s BaseSignal) UserID() string { return s.userID }

// Timestamp implements Signal interface.
func (s BaseSignal) Timestamp() time.Time { return s.timestamp }

// Metadata implements Signal interface.
func (s BaseSignal) Metadata() map[string]interface{} { return s.metadata }

// ReactionSignal is an emoji reaction added to or removed from a track or
// message.
type ReactionSignal struct {
	BaseSignal
	Reaction room.Reaction
	Removed  bool
}

// NewReactionSignal creates a reaction signal.
func NewReactionSignal(roomID string, timestamp time.Time, reaction room.Reaction, removed bool) *ReactionSignal {
	metadata := map[string]interface{}{
		"emoji":       reaction.Emoji,
		"react_kind":  string(reaction.ReactTo.Kind),
		"react_to_id": reaction.ReactTo.Identifier,
		"removed":     removed,
	}
	return &ReactionSignal{
		BaseSignal: NewBaseSignal(KindReaction, roomID, reaction.UserID, timestamp, metadata),
		Reaction:   reaction,
		Removed:    removed,
	}
}

// MessageSignal is a chat message sent to the room.
type MessageSignal struct {
	BaseSignal
	Message room.ChatMessage
}

// NewMessageSignal creates a message signal.
func NewMessageSignal(roomID string, timestamp time.Time, message room.ChatMessage) *MessageSignal {
	metadata := map[string]interface{}{
		"message_id": message.Key(),
		"mentions":   len(message.Mentions),
	}
	return &MessageSignal{
		BaseSignal: NewBaseSignal(KindMessage, roomID, message.UserID, timestamp, metadata),
		Message:    message,
	}
}
