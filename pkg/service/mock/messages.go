package mock

import (
	"context"
	"sync"
)

// MessageSender is a mock implementation of service.MessageSender for testing
type MessageSender struct {
	// SendSystemMessageFunc is called when SendSystemMessage is invoked
	SendSystemMessageFunc func(ctx context.Context, roomID, content string) error

	mu sync.Mutex

	// Call tracking
	Messages []SentMessage
}

// SentMessage tracks parameters for SendSystemMessage calls
type SentMessage struct {
	RoomID  string
	Content string
}

// NewMessageSender creates a new mock MessageSender that succeeds
func NewMessageSender() *MessageSender {
	return &MessageSender{}
}

// SendSystemMessage implements service.MessageSender
func (m *MessageSender) SendSystemMessage(ctx context.Context, roomID, content string) error {
	m.mu.Lock()
	m.Messages = append(m.Messages, SentMessage{RoomID: roomID, Content: content})
	m.mu.Unlock()

	if m.SendSystemMessageFunc != nil {
		return m.SendSystemMessageFunc(ctx, roomID, content)
	}
	return nil
}

// Sent returns a copy of the recorded messages
func (m *MessageSender) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentMessage(nil), m.Messages...)
}
