package pipeline

import (
	"fmt"

	"github.com/albatrocity/radio-room-server-sub000/pkg/action"
	"github.com/albatrocity/radio-room-server-sub000/pkg/rule"
)

// Result is the outcome of processing one room event.
type Result struct {
	// Intents are the firings produced by the event, in rule order.
	Intents []rule.FiringIntent
	// Actions holds one dispatch result per intent.
	Actions []*action.ActionResult
	// LedgerErr reports firing history failures. Intents are still returned.
	LedgerErr error
	// DispatchErr joins the errors of failed actions.
	DispatchErr error
}

// Fired reports whether any rule fired.
func (r *Result) Fired() bool {
	return r != nil && len(r.Intents) > 0
}

// PruneScope selects which firing records a prune removes.
type PruneScope string

const (
	// PruneScopePlaylist removes records tied to a track, e.g. when the
	// playlist is cleared.
	PruneScopePlaylist PruneScope = "playlist"
	// PruneScopeChat removes records tied to a message.
	PruneScopeChat PruneScope = "chat"
	// PruneScopeAll removes every record of the room.
	PruneScopeAll PruneScope = "all"
)

// Predicate returns the record filter for the scope.
func (s PruneScope) Predicate() (rule.Predicate, error) {
	switch s {
	case PruneScopePlaylist:
		return rule.TrackScoped, nil
	case PruneScopeChat:
		return rule.MessageScoped, nil
	case PruneScopeAll, "":
		return rule.AllRecords, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPruneScope, s)
	}
}
