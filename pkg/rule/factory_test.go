package rule

import (
	"errors"
	"strings"
	"testing"

	"github.com/albatrocity/radio-room-server-sub000/pkg/room"
	"github.com/albatrocity/radio-room-server-sub000/pkg/signal"
)

func validMessageRule(id string) TriggerRule {
	return TriggerRule{
		ID:         id,
		On:         signal.KindMessage,
		Subject:    room.Ref{Kind: room.KindMessage, Identifier: room.Latest},
		ActionType: ActionSendMessage,
		Conditions: Conditions{
			Qualifier:     Qualifier{AttrContent, QualifierIncludes, "hello"},
			Comparator:    GreaterThanOrEqual,
			Threshold:     1,
			ThresholdType: ThresholdCount,
		},
		Meta: Meta{MessageTemplate: "Hello {{.User.Username}}"},
	}
}

func TestTriggerRule_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *TriggerRule)
		expectErr bool
	}{
		{"valid", func(r *TriggerRule) {}, false},
		{"unknown on", func(r *TriggerRule) { r.On = "presence" }, true},
		{"unknown subject kind", func(r *TriggerRule) { r.Subject.Kind = "album" }, true},
		{"empty subject identifier", func(r *TriggerRule) { r.Subject.Identifier = "" }, true},
		{"message rule on track subject", func(r *TriggerRule) { r.Subject.Kind = room.KindTrack }, true},
		{"message target", func(r *TriggerRule) { r.Target = &room.Ref{Kind: room.KindMessage, Identifier: "m1"} }, true},
		{"track target", func(r *TriggerRule) { r.Target = &room.Ref{Kind: room.KindTrack, Identifier: room.Latest} }, false},
		{"empty target identifier", func(r *TriggerRule) { r.Target = &room.Ref{Kind: room.KindTrack} }, true},
		{"unknown action", func(r *TriggerRule) { r.ActionType = "banUser" }, true},
		{"sendMessage without template", func(r *TriggerRule) { r.Meta.MessageTemplate = "  " }, true},
		{"skipTrack without template", func(r *TriggerRule) { r.ActionType = ActionSkipTrack; r.Meta = Meta{} }, false},
		{"missing qualifier", func(r *TriggerRule) { r.Conditions.Qualifier = Qualifier{} }, true},
		{"unknown comparator", func(r *TriggerRule) { r.Conditions.Comparator = "!=" }, true},
		{"unknown threshold type", func(r *TriggerRule) { r.Conditions.ThresholdType = "ratio" }, true},
		{"negative threshold", func(r *TriggerRule) { r.Conditions.Threshold = -1 }, true},
		{"unknown compareTo", func(r *TriggerRule) { r.Conditions.CompareTo = "everyone" }, true},
		{"known compareTo", func(r *TriggerRule) { r.Conditions.CompareTo = GroupParticipants }, false},
		{"zero maxTimes", func(r *TriggerRule) { r.Conditions.MaxTimes = intPtr(0) }, true},
		{"positive maxTimes", func(r *TriggerRule) { r.Conditions.MaxTimes = intPtr(2) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validMessageRule("r1")
			tt.mutate(&r)
			err := r.Validate()
			if (err != nil) != tt.expectErr {
				t.Fatalf("Validate() error = %v, expectErr %v", err, tt.expectErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidRule) {
				t.Errorf("Validate() error = %v, expected it to wrap ErrInvalidRule", err)
			}
		})
	}
}

func TestCompileRules_AssignsIDsAndKind(t *testing.T) {
	r := validMessageRule("")
	r.On = ""

	compiled, errs := CompileRules(signal.KindMessage, []TriggerRule{r}, nil)
	if len(errs) != 0 {
		t.Fatalf("Unexpected errors: %v", errs)
	}
	if len(compiled) != 1 {
		t.Fatalf("len(compiled) = %d, expected 1", len(compiled))
	}
	if compiled[0].ID == "" {
		t.Error("expected an ID to be generated")
	}
	if compiled[0].On != signal.KindMessage {
		t.Errorf("On = %s, expected %s", compiled[0].On, signal.KindMessage)
	}
}

func TestCompileRules_ExcludesInvalid(t *testing.T) {
	bad := validMessageRule("bad")
	bad.Conditions.Comparator = ""
	wrongList := validMessageRule("wrong-list")
	wrongList.On = signal.KindReaction

	compiled, errs := CompileRules(signal.KindMessage, []TriggerRule{
		validMessageRule("good"),
		bad,
		wrongList,
		validMessageRule("good"),
	}, nil)

	if len(compiled) != 1 || compiled[0].ID != "good" {
		t.Errorf("compiled = %+v, expected only the first 'good' rule", compiled)
	}
	if len(errs) != 3 {
		t.Fatalf("len(errs) = %d, expected 3", len(errs))
	}
	if !errors.Is(errs[2], ErrDuplicateRuleID) {
		t.Errorf("errs[2] = %v, expected ErrDuplicateRuleID", errs[2])
	}
}

func TestCompileRuleSet_UniqueAcrossKinds(t *testing.T) {
	reaction := thumbsDownRule(1, ThresholdCount, GreaterThanOrEqual)
	reaction.ID = "shared"

	compiled, errs := CompileRuleSet(RuleSet{
		ReactionRules: []TriggerRule{reaction},
		MessageRules:  []TriggerRule{validMessageRule("shared"), validMessageRule("other")},
	}, nil)

	if len(compiled.ReactionRules) != 1 {
		t.Errorf("len(ReactionRules) = %d, expected 1", len(compiled.ReactionRules))
	}
	if len(compiled.MessageRules) != 1 || compiled.MessageRules[0].ID != "other" {
		t.Errorf("MessageRules = %+v, expected only 'other'", compiled.MessageRules)
	}
	if len(errs) != 1 {
		t.Errorf("len(errs) = %d, expected 1", len(errs))
	}
}

func TestRegisterRuleSet(t *testing.T) {
	registry := NewRegistry()
	bad := validMessageRule("bad")
	bad.ActionType = ""

	compiled, errs := RegisterRuleSet(registry, "room-1", RuleSet{
		MessageRules: []TriggerRule{validMessageRule("good"), bad},
	})
	if len(errs) != 1 {
		t.Errorf("len(errs) = %d, expected 1", len(errs))
	}
	if compiled.Len() != 1 {
		t.Errorf("compiled.Len() = %d, expected 1", compiled.Len())
	}

	installed, _ := registry.Get("room-1")
	rules := installed.RulesFor(signal.KindMessage)
	if len(rules) != 1 || rules[0].ID != "good" {
		t.Errorf("RulesFor() = %+v, expected only 'good'", rules)
	}
}

// rejectUnclosed stands in for a template parser.
func rejectUnclosed(source string) error {
	if strings.Count(source, "{{") != strings.Count(source, "}}") {
		return errors.New("unclosed action")
	}
	return nil
}

func TestCompileRules_ValidatesMessageTemplates(t *testing.T) {
	broken := validMessageRule("broken")
	broken.Meta.MessageTemplate = "Hello {{.User.Username"
	skip := thumbsDownRule(1, ThresholdCount, GreaterThanOrEqual)
	skip.Meta.MessageTemplate = "{{ ignored"

	tests := []struct {
		name        string
		kind        signal.Kind
		rule        TriggerRule
		validate    TemplateValidator
		expectValid bool
	}{
		{"valid template", signal.KindMessage, validMessageRule("ok"), rejectUnclosed, true},
		{"unparseable template", signal.KindMessage, broken, rejectUnclosed, false},
		{"no validator", signal.KindMessage, broken, nil, true},
		{"template ignored for other actions", signal.KindReaction, skip, rejectUnclosed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compiled, errs := CompileRules(tt.kind, []TriggerRule{tt.rule}, tt.validate)
			if got := len(compiled) == 1; got != tt.expectValid {
				t.Fatalf("compiled = %+v, errs = %v, expected valid %v", compiled, errs, tt.expectValid)
			}
			if !tt.expectValid && (len(errs) != 1 || !errors.Is(errs[0], ErrInvalidRule)) {
				t.Errorf("errs = %v, expected one ErrInvalidRule", errs)
			}
		})
	}
}

func TestRegisterRuleSet_UsesRegistryTemplateValidator(t *testing.T) {
	registry := NewRegistry()
	registry.SetTemplateValidator(rejectUnclosed)
	broken := validMessageRule("broken")
	broken.Meta.MessageTemplate = "{{.User.Username"

	compiled, errs := RegisterRuleSet(registry, "room-1", RuleSet{
		MessageRules: []TriggerRule{broken, validMessageRule("good")},
	})

	if compiled.Len() != 1 || compiled.MessageRules[0].ID != "good" {
		t.Errorf("compiled = %+v, expected only 'good'", compiled)
	}
	if len(errs) != 1 || !errors.Is(errs[0], ErrInvalidRule) {
		t.Errorf("errs = %v, expected one ErrInvalidRule", errs)
	}
}
