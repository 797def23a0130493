package rule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/albatrocity/radio-room-server-sub000/pkg/metrics"
	"github.com/albatrocity/radio-room-server-sub000/pkg/room"
	"github.com/albatrocity/radio-room-server-sub000/pkg/signal"
	"github.com/sirupsen/logrus"
)

// evaluation results used for logging and metrics
const (
	resultFired          = "fired"
	resultNotApplicable  = "not_applicable"
	resultExhausted      = "exhausted"
	resultBelowThreshold = "below_threshold"
	resultLedgerError    = "ledger_error"
)

// Engine evaluates room events against trigger rules and returns firing
// intents. Callers must serialise evaluations per room.
type Engine struct {
	ledger Ledger
	now    func() time.Time
}

// NewEngine creates a new rule evaluation engine backed by the given
// firing history.
func NewEngine(ledger Ledger) *Engine {
	return &Engine{
		ledger: ledger,
		now:    time.Now,
	}
}

// WithClock overrides the time source used for firedAt.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Ledger returns the firing history used by this engine.
func (e *Engine) Ledger() Ledger {
	return e.ledger
}

// EvaluateReaction evaluates a reaction against the room's reaction rules.
func (e *Engine) EvaluateReaction(ctx context.Context, roomID string, state *room.State, sig *signal.ReactionSignal, set RuleSet) ([]FiringIntent, error) {
	return e.Evaluate(ctx, roomID, state, sig, set.ReactionRules)
}

// EvaluateMessage evaluates a chat message against the room's message rules.
func (e *Engine) EvaluateMessage(ctx context.Context, roomID string, state *room.State, sig *signal.MessageSignal, set RuleSet) ([]FiringIntent, error) {
	return e.Evaluate(ctx, roomID, state, sig, set.MessageRules)
}

// Evaluate runs every rule whose kind matches the signal against the same
// snapshot, then records a firing for each passing rule.
//
// The returned intents are always usable. The error joins ledger failures:
// a failed read skips that rule, a failed write keeps the intent.
func (e *Engine) Evaluate(ctx context.Context, roomID string, state *room.State, sig signal.Signal, rules []TriggerRule) ([]FiringIntent, error) {
	if sig == nil {
		return nil, nil
	}

	kind := string(sig.Kind())
	logrus.Debugf("evaluating %s event in room %s against %d rules", kind, roomID, len(rules))

	var intents []FiringIntent
	var errs []error

	for _, r := range rules {
		intent, result, err := e.evaluateRule(ctx, roomID, state, sig, r)
		metrics.RuleEvaluationsTotal.WithLabelValues(kind, result).Inc()

		switch result {
		case resultFired:
			logrus.Infof("rule %s fired %s in room %s", r.ID, r.ActionType, roomID)
			intents = append(intents, intent)
		case resultLedgerError:
			logrus.Errorf("rule %s skipped in room %s: %v", r.ID, roomID, err)
			metrics.LedgerErrorsTotal.WithLabelValues("count").Inc()
			errs = append(errs, err)
		default:
			logrus.Debugf("rule %s did not fire in room %s: %s", r.ID, roomID, result)
		}
	}

	for _, intent := range intents {
		record := NewFiringRecord(roomID, intent.Rule, intent.FiredAt)
		if err := e.ledger.Record(ctx, roomID, record); err != nil {
			logrus.Errorf("failed to record firing of rule %s in room %s: %v", intent.Rule.ID, roomID, err)
			metrics.LedgerErrorsTotal.WithLabelValues("record").Inc()
			errs = append(errs, fmt.Errorf("record firing of rule %s: %w", intent.Rule.ID, err))
		}
		metrics.FiringsTotal.WithLabelValues(kind, string(intent.Rule.ActionType)).Inc()
	}

	return intents, errors.Join(errs...)
}

func (e *Engine) evaluateRule(ctx context.Context, roomID string, state *room.State, sig signal.Signal, r TriggerRule) (FiringIntent, string, error) {
	if r.On != sig.Kind() {
		return FiringIntent{}, resultNotApplicable, nil
	}
	if reaction, ok := sig.(*signal.ReactionSignal); ok && !subjectAccepts(r.Subject, reaction.Reaction.ReactTo) {
		return FiringIntent{}, resultNotApplicable, nil
	}

	captured, ok := Capture(r, state)
	if !ok {
		return FiringIntent{}, resultNotApplicable, nil
	}

	source := sourceCollection(state, captured, sig)
	eligible := r.Conditions.Qualifier.CountEligible(source)

	if r.Conditions.Limited() {
		prior, err := e.ledger.CountPriorFirings(ctx, roomID, captured)
		if err != nil {
			return FiringIntent{}, resultLedgerError, fmt.Errorf("count prior firings of rule %s: %w", r.ID, err)
		}
		if prior >= *r.Conditions.MaxTimes {
			return FiringIntent{}, resultExhausted, nil
		}
	}

	denominator := len(source)
	if group := r.Conditions.CompareTo; group != "" {
		denominator = len(ResolveGroup(state, group, groupRef(captured)))
	}

	if !Passes(eligible, r.Conditions, denominator) {
		return FiringIntent{}, resultBelowThreshold, nil
	}

	return FiringIntent{Rule: captured, Event: sig, FiredAt: e.now()}, resultFired, nil
}

// subjectAccepts reports whether a reaction on reactTo concerns a rule with
// the given subject.
func subjectAccepts(subject, reactTo room.Ref) bool {
	if subject.Kind != reactTo.Kind {
		return false
	}
	return subject.IsLatest() || subject.Matches(reactTo)
}

// sourceCollection returns the items a rule's qualifier filters: reactions
// on the resolved subject, or the message window. The triggering message is
// included even when the snapshot was taken before it was appended.
func sourceCollection(state *room.State, captured CapturedRule, sig signal.Signal) []Item {
	switch s := sig.(type) {
	case *signal.ReactionSignal:
		return ResolveGroup(state, GroupReactions, &captured.Subject)
	case *signal.MessageSignal:
		items := ResolveGroup(state, GroupAllMessages, nil)
		if _, found := state.FindMessage(s.Message.Key()); !found {
			items = append(items, s.Message)
		}
		return items
	}
	return nil
}

// groupRef picks the subject the reactions group counts: the resolved
// target when there is one, else the resolved subject.
func groupRef(captured CapturedRule) *room.Ref {
	if captured.Target != nil {
		return captured.Target
	}
	subject := captured.Subject
	return &subject
}
