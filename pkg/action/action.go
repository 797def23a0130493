package action

import (
	"context"

	"github.com/albatrocity/radio-room-server-sub000/pkg/room"
	"github.com/albatrocity/radio-room-server-sub000/pkg/rule"
)

// Action performs the effect of a firing intent.
// Actions are registered in a Registry by type and executed by the Executor.
type Action interface {
	// ID returns unique action identifier.
	ID() string

	// Name returns human-readable action name.
	Name() string

	// Type returns the rule action type this action handles.
	Type() rule.ActionType

	// Execute performs the action for one firing intent against the
	// snapshot the intent was evaluated on.
	// Returns error if the action fails; wrap with backoff.Permanent for
	// failures a retry cannot fix.
	Execute(ctx context.Context, state *room.State, intent rule.FiringIntent) error

	// Config returns the action's configuration.
	Config() ActionConfig
}

// ActionResult represents the outcome of an action execution.
type ActionResult struct {
	ActionID   string                 `json:"actionId"`
	ActionType rule.ActionType        `json:"actionType"`
	RuleID     string                 `json:"ruleId"`
	Success    bool                   `json:"success"`
	Attempts   int                    `json:"attempts"`
	Error      error                  `json:"-"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// NewActionResult creates a successful action result.
func NewActionResult(actionID string, intent rule.FiringIntent) *ActionResult {
	return &ActionResult{
		ActionID:   actionID,
		ActionType: intent.Rule.ActionType,
		RuleID:     intent.Rule.ID,
		Success:    true,
		Metadata:   make(map[string]interface{}),
	}
}

// NewActionError creates a failed action result with an error.
func NewActionError(actionID string, intent rule.FiringIntent, err error) *ActionResult {
	result := NewActionResult(actionID, intent)
	result.Success = false
	result.Error = err
	return result
}

// WithMetadata adds metadata to the result and returns it for chaining.
func (r *ActionResult) WithMetadata(key string, value interface{}) *ActionResult {
	r.Metadata[key] = value
	return r
}

// ErrorMessage returns the error text, or "" on success.
func (r *ActionResult) ErrorMessage() string {
	if r.Error == nil {
		return ""
	}
	return r.Error.Error()
}
