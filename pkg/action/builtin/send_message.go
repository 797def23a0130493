package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/albatrocity/radio-room-server-sub000/pkg/action"
	"github.com/albatrocity/radio-room-server-sub000/pkg/room"
	"github.com/albatrocity/radio-room-server-sub000/pkg/rule"
	"github.com/albatrocity/radio-room-server-sub000/pkg/service"
	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

const (
	// SendMessageActionID is the identifier for the send message action
	SendMessageActionID = "send_message"

	// paramDefaultTemplate is used when a rule carries no template.
	paramDefaultTemplate = "default_template"
)

// SendMessageAction renders the rule's message template against the room
// and posts it as a system message.
type SendMessageAction struct {
	config   action.ActionConfig
	messages service.MessageSender
	renderer service.TemplateRenderer
}

func NewSendMessageAction(config action.ActionConfig, messages service.MessageSender, renderer service.TemplateRenderer) *SendMessageAction {
	return &SendMessageAction{
		config:   config,
		messages: messages,
		renderer: renderer,
	}
}

func (a *SendMessageAction) ID() string {
	return a.config.ID
}

func (a *SendMessageAction) Name() string {
	return "Send Message"
}

func (a *SendMessageAction) Type() rule.ActionType {
	return rule.ActionSendMessage
}

func (a *SendMessageAction) Config() action.ActionConfig {
	return a.config
}

func (a *SendMessageAction) Execute(ctx context.Context, state *room.State, intent rule.FiringIntent) error {
	source := intent.Rule.Meta.MessageTemplate
	if strings.TrimSpace(source) == "" {
		source = a.config.GetParameterString(paramDefaultTemplate, "")
	}
	if strings.TrimSpace(source) == "" {
		return backoff.Permanent(action.ErrMissingTemplate)
	}

	userID := ""
	if intent.Event != nil {
		userID = intent.Event.UserID()
	}

	content, err := a.renderer.Render(source, service.VariablesFor(state, userID))
	if err != nil {
		return backoff.Permanent(err)
	}

	roomID := roomFor(state, intent)
	if err := a.messages.SendSystemMessage(ctx, roomID, content); err != nil {
		return fmt.Errorf("failed to send system message: %w", err)
	}

	logrus.Infof("sent system message in room %s (rule %s)", roomID, intent.Rule.ID)
	return nil
}
