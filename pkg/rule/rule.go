package rule

import (
	"time"

	"github.com/albatrocity/radio-room-server-sub000/pkg/room"
	"github.com/albatrocity/radio-room-server-sub000/pkg/signal"
)

// ActionType names the effect a rule produces when it fires.
type ActionType string

const (
	ActionSkipTrack   ActionType = "skipTrack"
	ActionLikeTrack   ActionType = "likeTrack"
	ActionSendMessage ActionType = "sendMessage"
)

// Valid reports whether a is a known action type.
func (a ActionType) Valid() bool {
	switch a {
	case ActionSkipTrack, ActionLikeTrack, ActionSendMessage:
		return true
	}
	return false
}

// TriggerRule is an administrator-configured rule. Rules are immutable
// once compiled into a room's rule set.
type TriggerRule struct {
	ID         string      `yaml:"id" json:"id"`
	On         signal.Kind `yaml:"on" json:"on"`
	Subject    room.Ref    `yaml:"subject" json:"subject"`
	Target     *room.Ref   `yaml:"target,omitempty" json:"target,omitempty"`
	ActionType ActionType  `yaml:"actionType" json:"actionType"`
	Conditions Conditions  `yaml:"conditions" json:"conditions"`
	Meta       Meta        `yaml:"meta,omitempty" json:"meta,omitempty"`
}

// Meta carries optional action parameters.
type Meta struct {
	MessageTemplate string `yaml:"messageTemplate,omitempty" json:"messageTemplate,omitempty"`
}

// RuleSet is the full rule configuration of one room.
type RuleSet struct {
	ReactionRules []TriggerRule `yaml:"reactionRules" json:"reactionRules"`
	MessageRules  []TriggerRule `yaml:"messageRules" json:"messageRules"`
}

// RulesFor returns the rules listening to the given event kind.
func (rs RuleSet) RulesFor(kind signal.Kind) []TriggerRule {
	switch kind {
	case signal.KindReaction:
		return rs.ReactionRules
	case signal.KindMessage:
		return rs.MessageRules
	}
	return nil
}

// Len returns the total number of rules in the set.
func (rs RuleSet) Len() int {
	return len(rs.ReactionRules) + len(rs.MessageRules)
}

// CapturedRule is a copy of a TriggerRule whose symbolic identifiers were
// replaced by the concrete ones resolved at evaluation time. History
// comparisons only ever see captured rules.
type CapturedRule struct {
	TriggerRule
}

// FiringIntent is the engine's output: a captured rule that passed
// evaluation for one triggering event.
type FiringIntent struct {
	Rule    CapturedRule  `json:"rule"`
	Event   signal.Signal `json:"-"`
	FiredAt time.Time     `json:"firedAt"`
}

// TrackID returns the concrete track the intent concerns, preferring the
// resolved target over the subject.
func (i FiringIntent) TrackID() (string, bool) {
	if t := i.Rule.Target; t != nil && t.Kind == room.KindTrack {
		return t.Identifier, true
	}
	if i.Rule.Subject.Kind == room.KindTrack && !i.Rule.Subject.IsLatest() {
		return i.Rule.Subject.Identifier, true
	}
	return "", false
}
