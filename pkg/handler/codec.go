package handler

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/albatrocity/radio-room-server-sub000/pkg/action"
	"github.com/albatrocity/radio-room-server-sub000/pkg/pipeline"
	"github.com/albatrocity/radio-room-server-sub000/pkg/room"
	"github.com/albatrocity/radio-room-server-sub000/pkg/rule"
	"github.com/albatrocity/radio-room-server-sub000/pkg/signal"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ReactionRequest is the payload of EvaluateReaction.
type ReactionRequest struct {
	RoomID string                `json:"roomId"`
	State  *room.State           `json:"state"`
	Event  *signal.ReactionEvent `json:"event"`
}

// MessageRequest is the payload of EvaluateMessage.
type MessageRequest struct {
	RoomID string               `json:"roomId"`
	State  *room.State          `json:"state"`
	Event  *signal.MessageEvent `json:"event"`
}

// RoomRequest names a room. Used by GetRuleSet and ListFirings.
type RoomRequest struct {
	RoomID string `json:"roomId"`
}

// SetRuleSetRequest is the payload of SetRuleSet.
type SetRuleSetRequest struct {
	RoomID string       `json:"roomId"`
	Rules  rule.RuleSet `json:"rules"`
}

// PruneRequest is the payload of PruneHistory. An empty scope prunes all.
type PruneRequest struct {
	RoomID string              `json:"roomId"`
	Scope  pipeline.PruneScope `json:"scope"`
}

// Firing describes one firing intent in an evaluation response.
type Firing struct {
	RuleID     string          `json:"ruleId"`
	ActionType rule.ActionType `json:"actionType"`
	Subject    room.Ref        `json:"subject"`
	Target     *room.Ref       `json:"target,omitempty"`
	FiredAt    time.Time       `json:"firedAt"`
}

// ActionOutcome describes one dispatched action.
type ActionOutcome struct {
	ActionID   string          `json:"actionId"`
	ActionType rule.ActionType `json:"actionType"`
	RuleID     string          `json:"ruleId"`
	Success    bool            `json:"success"`
	Attempts   int             `json:"attempts"`
	Error      string          `json:"error,omitempty"`
}

// EvaluateResponse is returned by EvaluateReaction and EvaluateMessage.
type EvaluateResponse struct {
	RoomID        string          `json:"roomId"`
	Fired         bool            `json:"fired"`
	Firings       []Firing        `json:"firings"`
	Actions       []ActionOutcome `json:"actions"`
	LedgerError   string          `json:"ledgerError,omitempty"`
	DispatchError string          `json:"dispatchError,omitempty"`
}

// RuleSetResponse is returned by GetRuleSet and SetRuleSet. Invalid lists
// the rules SetRuleSet left out.
type RuleSetResponse struct {
	RoomID  string       `json:"roomId"`
	Rules   rule.RuleSet `json:"rules"`
	Invalid []string     `json:"invalid,omitempty"`
}

// PruneResponse is returned by PruneHistory.
type PruneResponse struct {
	RoomID  string `json:"roomId"`
	Removed int    `json:"removed"`
}

// FiringsResponse is returned by ListFirings.
type FiringsResponse struct {
	RoomID  string              `json:"roomId"`
	Firings []rule.FiringRecord `json:"firings"`
}

// decode converts a Struct request into v.
func decode(in *structpb.Struct, v any) error {
	if in == nil {
		return fmt.Errorf("request is empty")
	}
	data, err := protojson.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to read request: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode request: %w", err)
	}
	return nil
}

// encode converts v into a Struct response.
func encode(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}
	return out, nil
}

func newEvaluateResponse(roomID string, result *pipeline.Result) EvaluateResponse {
	resp := EvaluateResponse{
		RoomID:  roomID,
		Fired:   result.Fired(),
		Firings: make([]Firing, 0, len(result.Intents)),
		Actions: make([]ActionOutcome, 0, len(result.Actions)),
	}

	for _, intent := range result.Intents {
		resp.Firings = append(resp.Firings, Firing{
			RuleID:     intent.Rule.ID,
			ActionType: intent.Rule.ActionType,
			Subject:    intent.Rule.Subject,
			Target:     intent.Rule.Target,
			FiredAt:    intent.FiredAt,
		})
	}
	for _, r := range result.Actions {
		resp.Actions = append(resp.Actions, newActionOutcome(r))
	}
	if result.LedgerErr != nil {
		resp.LedgerError = result.LedgerErr.Error()
	}
	if result.DispatchErr != nil {
		resp.DispatchError = result.DispatchErr.Error()
	}
	return resp
}

func newActionOutcome(r *action.ActionResult) ActionOutcome {
	return ActionOutcome{
		ActionID:   r.ActionID,
		ActionType: r.ActionType,
		RuleID:     r.RuleID,
		Success:    r.Success,
		Attempts:   r.Attempts,
		Error:      r.ErrorMessage(),
	}
}

func errorStrings(errs []error) []string {
	if len(errs) == 0 {
		return nil
	}
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}
