package rule

import (
	"sort"
	"sync"
)

// Registry holds the compiled rule set of every room.
// It provides thread-safe registration and lookup.
type Registry struct {
	rooms            map[string]RuleSet
	validateTemplate TemplateValidator
	mu               sync.RWMutex
}

// NewRegistry creates a new empty rule registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]RuleSet),
	}
}

// SetTemplateValidator sets the check applied to sendMessage templates when
// rule sets are compiled for this registry.
func (r *Registry) SetTemplateValidator(validate TemplateValidator) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.validateTemplate = validate
}

// TemplateValidator returns the registry's template check, or nil.
func (r *Registry) TemplateValidator() TemplateValidator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.validateTemplate
}

// Set installs an already compiled rule set for a room, replacing any
// previous one. Use RegisterRuleSet for uncompiled input.
func (r *Registry) Set(roomID string, set RuleSet) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rooms[roomID] = set
}

// Get returns the rule set of a room.
func (r *Registry) Get(roomID string) (RuleSet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.rooms[roomID]
	return set, ok
}

// Remove drops a room's rule set.
// Returns ErrRoomNotFound if the room had none.
func (r *Registry) Remove(roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[roomID]; !exists {
		return ErrRoomNotFound
	}
	delete(r.rooms, roomID)
	return nil
}

// Rooms returns the IDs of every room with a rule set, sorted.
func (r *Registry) Rooms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.rooms))
	for id := range r.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
