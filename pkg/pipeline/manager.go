package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/albatrocity/radio-room-server-sub000/pkg/action"
	"github.com/albatrocity/radio-room-server-sub000/pkg/metrics"
	"github.com/albatrocity/radio-room-server-sub000/pkg/room"
	"github.com/albatrocity/radio-room-server-sub000/pkg/rule"
	"github.com/albatrocity/radio-room-server-sub000/pkg/service"
	"github.com/albatrocity/radio-room-server-sub000/pkg/signal"
	"github.com/sirupsen/logrus"
)

// Manager orchestrates the complete trigger pipeline:
// Event → Signal → Rules → Firing history → Actions
//
// Events for the same room are processed one at a time. Different rooms run
// concurrently.
type Manager struct {
	processor *signal.Processor
	engine    *rule.Engine
	rules     *rule.Registry
	store     service.RuleSetStore
	executor  *action.Executor

	mu    sync.Mutex
	rooms map[string]*sync.Mutex
}

// NewManager creates a new pipeline manager with all required components.
// store may be nil, in which case rule sets only live in the registry.
func NewManager(processor *signal.Processor, engine *rule.Engine, rules *rule.Registry, store service.RuleSetStore, executor *action.Executor) *Manager {
	return &Manager{
		processor: processor,
		engine:    engine,
		rules:     rules,
		store:     store,
		executor:  executor,
		rooms:     make(map[string]*sync.Mutex),
	}
}

// lockRoom acquires the room's evaluation lock and returns its release func.
func (m *Manager) lockRoom(roomID string) func() {
	m.mu.Lock()
	l, ok := m.rooms[roomID]
	if !ok {
		l = &sync.Mutex{}
		m.rooms[roomID] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// ProcessReactionEvent processes a reaction event through the complete pipeline.
// An error is returned only when the event is malformed or the room's rules
// cannot be loaded; evaluation and dispatch failures are reported in the Result.
func (m *Manager) ProcessReactionEvent(ctx context.Context, roomID string, state *room.State, event *signal.ReactionEvent) (*Result, error) {
	logrus.WithFields(logrus.Fields{
		"roomId": roomID,
		"userId": event.GetUserID(),
	}).Info("processing reaction event through pipeline")

	return m.process(ctx, roomID, state, signal.KindReaction, func() (signal.Signal, error) {
		return m.processor.ProcessReactionEvent(roomID, event)
	})
}

// ProcessMessageEvent processes a chat message event through the complete pipeline.
func (m *Manager) ProcessMessageEvent(ctx context.Context, roomID string, state *room.State, event *signal.MessageEvent) (*Result, error) {
	logrus.WithFields(logrus.Fields{
		"roomId": roomID,
		"userId": event.GetUserID(),
	}).Info("processing message event through pipeline")

	return m.process(ctx, roomID, state, signal.KindMessage, func() (signal.Signal, error) {
		return m.processor.ProcessMessageEvent(roomID, event)
	})
}

func (m *Manager) process(ctx context.Context, roomID string, state *room.State, kind signal.Kind, toSignal func() (signal.Signal, error)) (*Result, error) {
	log := logrus.WithFields(logrus.Fields{"roomId": roomID, "kind": kind})

	unlock := m.lockRoom(roomID)

	// Step 1: Convert event to signal
	sig, err := toSignal()
	if err != nil {
		unlock()
		metrics.EventsTotal.WithLabelValues(string(kind), "invalid").Inc()
		log.Errorf("failed to process event to signal: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}

	// Step 2: Evaluate rules against the snapshot and record firings
	set, err := m.ruleSet(ctx, roomID)
	if err != nil {
		unlock()
		metrics.EventsTotal.WithLabelValues(string(kind), "error").Inc()
		log.Errorf("failed to load rule set: %v", err)
		return nil, fmt.Errorf("rule lookup failed: %w", err)
	}

	result := &Result{}
	switch s := sig.(type) {
	case *signal.ReactionSignal:
		result.Intents, result.LedgerErr = m.engine.EvaluateReaction(ctx, roomID, state, s, set)
	case *signal.MessageSignal:
		result.Intents, result.LedgerErr = m.engine.EvaluateMessage(ctx, roomID, state, s, set)
	default:
		result.Intents, result.LedgerErr = m.engine.Evaluate(ctx, roomID, state, sig, set.RulesFor(sig.Kind()))
	}
	unlock()

	if result.LedgerErr != nil {
		log.Warnf("firing history error during evaluation: %v", result.LedgerErr)
	}

	if len(result.Intents) == 0 {
		metrics.EventsTotal.WithLabelValues(string(kind), "no_firing").Inc()
		log.Debug("no rules fired for event")
		return result, nil
	}
	metrics.EventsTotal.WithLabelValues(string(kind), "fired").Inc()

	log.WithField("firing_count", len(result.Intents)).Info("rules fired")

	// Step 3: Dispatch actions outside the room lock
	result.Actions, result.DispatchErr = m.executor.Dispatch(ctx, state, result.Intents)

	successCount := 0
	for _, r := range result.Actions {
		if r.Success {
			successCount++
		}
	}
	failureCount := len(result.Actions) - successCount

	log.WithFields(logrus.Fields{
		"success_count": successCount,
		"failure_count": failureCount,
	}).Info("action dispatch completed")

	if failureCount > 0 && successCount > 0 {
		log.Warnf("partial action dispatch failure: %v", result.DispatchErr)
	}

	return result, nil
}

// ruleSet returns the room's compiled rules, loading them from the store on
// a registry miss. Callers hold the room lock.
func (m *Manager) ruleSet(ctx context.Context, roomID string) (rule.RuleSet, error) {
	if set, ok := m.rules.Get(roomID); ok {
		return set, nil
	}
	if m.store == nil {
		return rule.RuleSet{}, nil
	}

	stored, found, err := m.store.GetRuleSet(ctx, roomID)
	if err != nil {
		return rule.RuleSet{}, err
	}
	if !found {
		return rule.RuleSet{}, nil
	}

	compiled, _ := rule.RegisterRuleSet(m.rules, roomID, stored)
	return compiled, nil
}

// GetRuleSet returns the compiled rules of a room. Rooms without rules get
// an empty set.
func (m *Manager) GetRuleSet(ctx context.Context, roomID string) (rule.RuleSet, error) {
	if roomID == "" {
		return rule.RuleSet{}, ErrEmptyRoomID
	}

	unlock := m.lockRoom(roomID)
	defer unlock()

	return m.ruleSet(ctx, roomID)
}

// SetRuleSet compiles, persists and installs a room's rules, replacing any
// previous set. Invalid rules are left out and reported in the returned
// slice; the error is set only when the set could not be stored.
func (m *Manager) SetRuleSet(ctx context.Context, roomID string, set rule.RuleSet) (rule.RuleSet, []error, error) {
	if roomID == "" {
		return rule.RuleSet{}, nil, ErrEmptyRoomID
	}

	unlock := m.lockRoom(roomID)
	defer unlock()

	compiled, errs := rule.CompileRuleSet(set, m.rules.TemplateValidator())
	for _, err := range errs {
		logrus.WithField("roomId", roomID).Warnf("rule compile error: %v", err)
	}

	if m.store != nil {
		if err := m.store.SaveRuleSet(ctx, roomID, compiled); err != nil {
			return rule.RuleSet{}, errs, fmt.Errorf("failed to store rule set: %w", err)
		}
	}

	m.rules.Set(roomID, compiled)
	logrus.WithField("roomId", roomID).Infof("installed %d reaction rules and %d message rules",
		len(compiled.ReactionRules), len(compiled.MessageRules))
	return compiled, errs, nil
}

// DeleteRuleSet removes a room's rules from the registry and the store.
// Firing history is left alone; use PruneHistory for that.
func (m *Manager) DeleteRuleSet(ctx context.Context, roomID string) error {
	unlock := m.lockRoom(roomID)
	defer unlock()

	if m.store != nil {
		if err := m.store.DeleteRuleSet(ctx, roomID); err != nil {
			return fmt.Errorf("failed to delete rule set: %w", err)
		}
	}

	if err := m.rules.Remove(roomID); err != nil {
		logrus.WithField("roomId", roomID).Debugf("no cached rule set to remove: %v", err)
	}
	return nil
}

// SeedRuleSet installs a configured rule set unless the store already holds
// one for the room, in which case the stored set wins.
func (m *Manager) SeedRuleSet(ctx context.Context, roomID string, set rule.RuleSet) (rule.RuleSet, []error, error) {
	if m.store != nil {
		unlock := m.lockRoom(roomID)
		stored, found, err := m.store.GetRuleSet(ctx, roomID)
		if err == nil && found {
			compiled, errs := rule.RegisterRuleSet(m.rules, roomID, stored)
			unlock()
			logrus.WithField("roomId", roomID).Info("keeping stored rule set over configured one")
			return compiled, errs, nil
		}
		unlock()
		if err != nil {
			return rule.RuleSet{}, nil, fmt.Errorf("failed to read stored rule set: %w", err)
		}
	}

	return m.SetRuleSet(ctx, roomID, set)
}

// PruneHistory removes the room's firing records matching predicate and
// returns how many were removed.
func (m *Manager) PruneHistory(ctx context.Context, roomID string, predicate rule.Predicate) (int, error) {
	if roomID == "" {
		return 0, ErrEmptyRoomID
	}

	unlock := m.lockRoom(roomID)
	defer unlock()

	removed, err := m.engine.Ledger().Prune(ctx, roomID, predicate)
	if err != nil {
		metrics.LedgerErrorsTotal.WithLabelValues("prune").Inc()
		return 0, fmt.Errorf("failed to prune firing history: %w", err)
	}

	logrus.WithField("roomId", roomID).Infof("pruned %d firing records", removed)
	return removed, nil
}

// PruneScope removes the room's firing records in scope.
func (m *Manager) PruneScope(ctx context.Context, roomID string, scope PruneScope) (int, error) {
	predicate, err := scope.Predicate()
	if err != nil {
		return 0, err
	}
	return m.PruneHistory(ctx, roomID, predicate)
}

// History returns the room's firing records, oldest first.
func (m *Manager) History(ctx context.Context, roomID string) ([]rule.FiringRecord, error) {
	if roomID == "" {
		return nil, ErrEmptyRoomID
	}

	records, err := m.engine.Ledger().Records(ctx, roomID)
	if err != nil {
		metrics.LedgerErrorsTotal.WithLabelValues("read").Inc()
		return nil, fmt.Errorf("failed to read firing history: %w", err)
	}
	return records, nil
}
