package signal

import (
	"fmt"
	"time"

	"github.com/albatrocity/radio-room-server-sub000/pkg/room"
	"github.com/sirupsen/logrus"
)

// Processor converts raw host payloads into signals.
type Processor struct {
	now func() time.Time
}

// NewProcessor creates a new signal processor.
func NewProcessor() *Processor {
	return &Processor{now: time.Now}
}

// WithClock overrides the time source, mostly for tests.
func (p *Processor) WithClock(now func() time.Time) *Processor {
	p.now = now
	return p
}

// ProcessReactionEvent converts a reaction payload into a ReactionSignal.
func (p *Processor) ProcessReactionEvent(roomID string, event *ReactionEvent) (Signal, error) {
	if event == nil {
		return nil, fmt.Errorf("reaction event is nil")
	}
	if roomID == "" {
		return nil, fmt.Errorf("room ID is empty in reaction event")
	}
	if event.Emoji == "" {
		return nil, fmt.Errorf("emoji is empty in reaction event")
	}
	switch event.ReactTo.Kind {
	case room.KindTrack, room.KindMessage:
	default:
		return nil, fmt.Errorf("unknown reactTo kind %q in reaction event", event.ReactTo.Kind)
	}
	if event.ReactTo.Identifier == "" {
		return nil, fmt.Errorf("reactTo identifier is empty in reaction event")
	}

	timestamp := event.SentAt
	if timestamp.IsZero() {
		timestamp = p.now()
	}

	sig := NewReactionSignal(roomID, timestamp, room.Reaction{
		Emoji:    event.Emoji,
		UserID:   event.UserID,
		Username: event.Username,
		ReactTo:  event.ReactTo,
	}, event.Removed)

	logrus.Debugf("processed reaction event in room %s into reaction signal (emoji=%s, removed=%v)",
		roomID, event.Emoji, event.Removed)
	return sig, nil
}

// ProcessMessageEvent converts a chat message payload into a MessageSignal.
func (p *Processor) ProcessMessageEvent(roomID string, event *MessageEvent) (Signal, error) {
	if event == nil {
		return nil, fmt.Errorf("message event is nil")
	}
	if roomID == "" {
		return nil, fmt.Errorf("room ID is empty in message event")
	}

	timestamp := event.Timestamp
	if timestamp.IsZero() {
		timestamp = p.now()
	}

	sig := NewMessageSignal(roomID, timestamp, room.ChatMessage{
		ID:        event.ID,
		Content:   event.Content,
		UserID:    event.UserID,
		Username:  event.Username,
		Timestamp: timestamp,
		Mentions:  event.Mentions,
	})

	logrus.Debugf("processed message event in room %s into message signal (user=%s)", roomID, event.UserID)
	return sig, nil
}
