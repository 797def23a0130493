package pipeline

import "errors"

var (
	// ErrUnknownPruneScope indicates a prune request with an unsupported scope.
	ErrUnknownPruneScope = errors.New("unknown prune scope")

	// ErrInvalidEvent indicates an event that could not be turned into a signal.
	ErrInvalidEvent = errors.New("invalid room event")

	// ErrEmptyRoomID indicates a call that names no room.
	ErrEmptyRoomID = errors.New("room ID is empty")
)
