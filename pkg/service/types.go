package service

import (
	"time"

	"github.com/albatrocity/radio-room-server-sub000/pkg/room"
)

// CommandType identifies a command published to the room host.
type CommandType string

const (
	CommandSkipTrack     CommandType = "skipTrack"
	CommandLikeTrack     CommandType = "likeTrack"
	CommandSystemMessage CommandType = "systemMessage"
)

// Command is the JSON payload published for the host's socket server.
type Command struct {
	Type     CommandType `json:"type"`
	RoomID   string      `json:"roomId"`
	TrackID  string      `json:"trackId,omitempty"`
	Content  string      `json:"content,omitempty"`
	IssuedAt time.Time   `json:"issuedAt"`
}

// RoomVariables is the data a message template is rendered against.
type RoomVariables struct {
	RoomID           string
	NowPlaying       room.PlaylistItem
	HasTrack         bool
	ListenerCount    int
	ParticipantCount int
	QueueLength      int
	User             room.User
}

// VariablesFor builds template variables from a room snapshot. userID names
// the user whose event triggered the message; unknown users only carry
// their ID.
func VariablesFor(state *room.State, userID string) RoomVariables {
	vars := RoomVariables{
		ListenerCount:    len(state.Listeners()),
		ParticipantCount: len(state.Participants()),
		User:             room.User{UserID: userID},
	}
	if state == nil {
		return vars
	}

	vars.RoomID = state.RoomID
	vars.QueueLength = len(state.Queue)
	vars.NowPlaying, vars.HasTrack = state.NowPlaying()
	if user, ok := state.FindUser(userID); ok {
		vars.User = user
	}
	return vars
}
