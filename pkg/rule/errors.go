package rule

import "errors"

var (
	// ErrInvalidRule wraps every rule validation failure.
	ErrInvalidRule = errors.New("invalid trigger rule")

	// ErrDuplicateRuleID is returned when two rules in one set share an ID.
	ErrDuplicateRuleID = errors.New("duplicate rule id")

	// ErrRoomNotFound is returned when no rule set is registered for a room.
	ErrRoomNotFound = errors.New("room has no rule set")
)
