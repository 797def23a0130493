package signal

import (
	"time"

	"github.com/albatrocity/radio-room-server-sub000/pkg/room"
)

// ReactionEvent is the raw reaction payload forwarded by the host.
type ReactionEvent struct {
	Emoji    string    `json:"emoji"`
	ReactTo  room.Ref  `json:"reactTo"`
	UserID   string    `json:"userId"`
	Username string    `json:"username,omitempty"`
	Removed  bool      `json:"removed,omitempty"`
	SentAt   time.Time `json:"sentAt,omitempty"`
}

// MessageEvent is the raw chat message payload forwarded by the host.
type MessageEvent struct {
	ID        string    `json:"id,omitempty"`
	Content   string    `json:"content"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
	Mentions  []string  `json:"mentions,omitempty"`
}

// GetUserID returns the reacting user, or "" for a nil event.
func (e *ReactionEvent) GetUserID() string {
	if e == nil {
		return ""
	}
	return e.UserID
}

// GetUserID returns the author, or "" for a nil event.
func (e *MessageEvent) GetUserID() string {
	if e == nil {
		return ""
	}
	return e.UserID
}
