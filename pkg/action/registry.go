package action

import (
	"fmt"
	"sort"
	"sync"

	"github.com/albatrocity/radio-room-server-sub000/pkg/rule"
)

// Registry manages available actions, one per action type.
// It provides thread-safe registration and lookup of actions.
type Registry struct {
	actions map[rule.ActionType]Action
	mu      sync.RWMutex
}

// NewRegistry creates a new empty action registry.
func NewRegistry() *Registry {
	return &Registry{
		actions: make(map[rule.ActionType]Action),
	}
}

// Register adds an action to the registry.
// Returns an error if an action for the same type already exists.
func (r *Registry) Register(action Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.actions[action.Type()]; exists {
		return fmt.Errorf("action type %s already registered by %s", action.Type(), existing.ID())
	}

	r.actions[action.Type()] = action
	return nil
}

// Unregister removes the action for a type.
// Returns an error if none is registered.
func (r *Registry) Unregister(actionType rule.ActionType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.actions[actionType]; !exists {
		return fmt.Errorf("%w: %s", ErrActionNotFound, actionType)
	}

	delete(r.actions, actionType)
	return nil
}

// Get returns the action for a type.
// Returns nil if none is registered.
func (r *Registry) Get(actionType rule.ActionType) Action {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.actions[actionType]
}

// GetEnabled returns the action for a type only if it's enabled.
// Returns nil if the action doesn't exist or is disabled.
func (r *Registry) GetEnabled(actionType rule.ActionType) Action {
	r.mu.RLock()
	defer r.mu.RUnlock()

	action := r.actions[actionType]
	if action != nil && !action.Config().Enabled {
		return nil
	}

	return action
}

// Types returns the registered action types, sorted.
func (r *Registry) Types() []rule.ActionType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]rule.ActionType, 0, len(r.actions))
	for t := range r.actions {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Count returns the number of registered actions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.actions)
}
