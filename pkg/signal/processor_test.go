package signal

import (
	"testing"
	"time"

	"github.com/albatrocity/radio-room-server-sub000/pkg/room"
)

func fixedClock() func() time.Time {
	ts := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	return func() time.Time { return ts }
}

func TestProcessor_ProcessReactionEvent(t *testing.T) {
	tests := []struct {
		name      string
		roomID    string
		event     *ReactionEvent
		expectErr bool
	}{
		{
			name:   "valid track reaction",
			roomID: "room-1",
			event: &ReactionEvent{
				Emoji:   ":-1:",
				ReactTo: room.Ref{Kind: room.KindTrack, Identifier: "t1"},
				UserID:  "u1",
			},
		},
		{
			name:      "nil event",
			roomID:    "room-1",
			expectErr: true,
		},
		{
			name:   "missing room",
			roomID: "",
			event: &ReactionEvent{
				Emoji:   ":-1:",
				ReactTo: room.Ref{Kind: room.KindTrack, Identifier: "t1"},
			},
			expectErr: true,
		},
		{
			name:   "empty emoji",
			roomID: "room-1",
			event: &ReactionEvent{
				ReactTo: room.Ref{Kind: room.KindTrack, Identifier: "t1"},
			},
			expectErr: true,
		},
		{
			name:   "unknown subject kind",
			roomID: "room-1",
			event: &ReactionEvent{
				Emoji:   ":+1:",
				ReactTo: room.Ref{Kind: "album", Identifier: "a1"},
			},
			expectErr: true,
		},
		{
			name:   "missing subject identifier",
			roomID: "room-1",
			event: &ReactionEvent{
				Emoji:   ":+1:",
				ReactTo: room.Ref{Kind: room.KindMessage},
			},
			expectErr: true,
		},
	}

	processor := NewProcessor().WithClock(fixedClock())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, err := processor.ProcessReactionEvent(tt.roomID, tt.event)
			if tt.expectErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			reaction, ok := sig.(*ReactionSignal)
			if !ok {
				t.Fatalf("expected *ReactionSignal, got %T", sig)
			}
			if reaction.Kind() != KindReaction {
				t.Errorf("Kind() = %s, expected %s", reaction.Kind(), KindReaction)
			}
			if reaction.RoomID() != tt.roomID {
				t.Errorf("RoomID() = %s, expected %s", reaction.RoomID(), tt.roomID)
			}
			if reaction.UserID() != tt.event.UserID {
				t.Errorf("UserID() = %s, expected %s", reaction.UserID(), tt.event.UserID)
			}
			if !reaction.Timestamp().Equal(fixedClock()()) {
				t.Errorf("Timestamp() = %v, expected clock time", reaction.Timestamp())
			}
			if reaction.Metadata()["emoji"] != tt.event.Emoji {
				t.Errorf("metadata emoji = %v, expected %s", reaction.Metadata()["emoji"], tt.event.Emoji)
			}
		})
	}
}

func TestProcessor_ProcessReactionEvent_KeepsSentAt(t *testing.T) {
	sentAt := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	processor := NewProcessor().WithClock(fixedClock())

	sig, err := processor.ProcessReactionEvent("room-1", &ReactionEvent{
		Emoji:   ":fire:",
		ReactTo: room.Ref{Kind: room.KindMessage, Identifier: "m1"},
		Removed: true,
		SentAt:  sentAt,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !sig.Timestamp().Equal(sentAt) {
		t.Errorf("Timestamp() = %v, expected %v", sig.Timestamp(), sentAt)
	}
	if !sig.(*ReactionSignal).Removed {
		t.Error("expected Removed to be carried over")
	}
}

func TestProcessor_ProcessMessageEvent(t *testing.T) {
	processor := NewProcessor().WithClock(fixedClock())

	sig, err := processor.ProcessMessageEvent("room-1", &MessageEvent{
		ID:       "m1",
		Content:  "please skip",
		UserID:   "u1",
		Mentions: []string{"u2"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg, ok := sig.(*MessageSignal)
	if !ok {
		t.Fatalf("expected *MessageSignal, got %T", sig)
	}
	if msg.Kind() != KindMessage {
		t.Errorf("Kind() = %s, expected %s", msg.Kind(), KindMessage)
	}
	if msg.Message.Content != "please skip" {
		t.Errorf("Content = %s, expected 'please skip'", msg.Message.Content)
	}
	if !msg.Message.Timestamp.Equal(fixedClock()()) {
		t.Errorf("message timestamp = %v, expected clock time", msg.Message.Timestamp)
	}

	if _, err := processor.ProcessMessageEvent("room-1", nil); err == nil {
		t.Error("expected error for nil message event")
	}
	if _, err := processor.ProcessMessageEvent("", &MessageEvent{}); err == nil {
		t.Error("expected error for missing room")
	}
}
