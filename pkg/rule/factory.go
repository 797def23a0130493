package rule

import (
	"fmt"
	"strings"

	"github.com/albatrocity/radio-room-server-sub000/pkg/room"
	"github.com/albatrocity/radio-room-server-sub000/pkg/signal"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// TemplateValidator reports whether a sendMessage template can be rendered.
type TemplateValidator func(source string) error

// Validate checks that the rule carries every field evaluation needs.
// All failures wrap ErrInvalidRule.
func (r TriggerRule) Validate() error {
	if err := r.validate(); err != nil {
		return fmt.Errorf("%w %s: %v", ErrInvalidRule, r.ID, err)
	}
	return nil
}

func (r TriggerRule) validate() error {
	if !r.On.Valid() {
		return fmt.Errorf("on %q is unknown", r.On)
	}

	switch r.Subject.Kind {
	case room.KindTrack, room.KindMessage:
	default:
		return fmt.Errorf("subject kind %q is unknown", r.Subject.Kind)
	}
	if r.Subject.Identifier == "" {
		return fmt.Errorf("subject identifier is required")
	}
	if r.On == signal.KindMessage && r.Subject.Kind != room.KindMessage {
		return fmt.Errorf("message rules must have a message subject")
	}

	if r.Target != nil {
		if r.Target.Kind != room.KindTrack {
			return fmt.Errorf("target kind %q is not supported", r.Target.Kind)
		}
		if r.Target.Identifier == "" {
			return fmt.Errorf("target identifier is required")
		}
	}

	if !r.ActionType.Valid() {
		return fmt.Errorf("actionType %q is unknown", r.ActionType)
	}
	if r.ActionType == ActionSendMessage && strings.TrimSpace(r.Meta.MessageTemplate) == "" {
		return fmt.Errorf("meta.messageTemplate is required for %s", ActionSendMessage)
	}

	c := r.Conditions
	if err := c.Qualifier.Validate(r.On); err != nil {
		return err
	}
	if !c.Comparator.Valid() {
		return fmt.Errorf("comparator %q is unknown", c.Comparator)
	}
	if !c.ThresholdType.Valid() {
		return fmt.Errorf("thresholdType %q is unknown", c.ThresholdType)
	}
	if c.Threshold < 0 {
		return fmt.Errorf("threshold must be non-negative, got %v", c.Threshold)
	}
	if c.CompareTo != "" && !c.CompareTo.Valid() {
		return fmt.Errorf("compareTo %q is unknown", c.CompareTo)
	}
	if c.MaxTimes != nil && *c.MaxTimes < 1 {
		return fmt.Errorf("maxTimes must be at least 1, got %d", *c.MaxTimes)
	}
	return nil
}

// validateMessageTemplate runs validate over a sendMessage rule's template.
// A nil validate accepts every template.
func (r TriggerRule) validateMessageTemplate(validate TemplateValidator) error {
	if validate == nil || r.ActionType != ActionSendMessage {
		return nil
	}
	if err := validate(r.Meta.MessageTemplate); err != nil {
		return fmt.Errorf("%w %s: meta.messageTemplate: %v", ErrInvalidRule, r.ID, err)
	}
	return nil
}

// CompileRules assigns missing IDs and validates the rules of one kind.
// Rules whose on field is empty take the kind of the list they are in.
// Invalid rules are left out of the result and reported as errors.
func CompileRules(kind signal.Kind, rules []TriggerRule, validateTemplate TemplateValidator) ([]TriggerRule, []error) {
	var compiled []TriggerRule
	var errs []error
	seen := make(map[string]bool)

	for _, r := range rules {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if r.On == "" {
			r.On = kind
		}
		if r.On != kind {
			errs = append(errs, fmt.Errorf("%w %s: listed with %s rules but on is %q", ErrInvalidRule, r.ID, kind, r.On))
			continue
		}
		if seen[r.ID] {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateRuleID, r.ID))
			continue
		}
		if err := r.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := r.validateMessageTemplate(validateTemplate); err != nil {
			errs = append(errs, err)
			continue
		}
		seen[r.ID] = true
		compiled = append(compiled, r)
	}

	return compiled, errs
}

// CompileRuleSet compiles both halves of a rule set. Rule IDs must be unique
// across the whole set.
func CompileRuleSet(set RuleSet, validateTemplate TemplateValidator) (RuleSet, []error) {
	reactionRules, errs := CompileRules(signal.KindReaction, set.ReactionRules, validateTemplate)
	messageRules, messageErrs := CompileRules(signal.KindMessage, set.MessageRules, validateTemplate)
	errs = append(errs, messageErrs...)

	ids := make(map[string]bool, len(reactionRules))
	for _, r := range reactionRules {
		ids[r.ID] = true
	}
	unique := messageRules[:0]
	for _, r := range messageRules {
		if ids[r.ID] {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateRuleID, r.ID))
			continue
		}
		unique = append(unique, r)
	}

	return RuleSet{ReactionRules: reactionRules, MessageRules: unique}, errs
}

// RegisterRuleSet compiles a rule set with the registry's template validator
// and installs it for the room.
// Compile errors are logged once here and returned to the caller; the valid
// remainder is always installed.
func RegisterRuleSet(registry *Registry, roomID string, set RuleSet) (RuleSet, []error) {
	compiled, errs := CompileRuleSet(set, registry.TemplateValidator())

	if len(errs) > 0 {
		logrus.Warnf("encountered %d errors while compiling rules for room %s", len(errs), roomID)
		for _, err := range errs {
			logrus.Warnf("rule compile error: %v", err)
		}
	}

	registry.Set(roomID, compiled)
	logrus.Infof("registered %d reaction rules and %d message rules for room %s",
		len(compiled.ReactionRules), len(compiled.MessageRules), roomID)
	return compiled, errs
}
