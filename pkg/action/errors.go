package action

import "errors"

var (
	// ErrActionDisabled indicates that an action is disabled in configuration.
	ErrActionDisabled = errors.New("action is disabled")

	// ErrActionNotFound indicates that no action is registered for an action type.
	ErrActionNotFound = errors.New("action not found in registry")

	// ErrInvalidConfig indicates that an action's configuration is invalid.
	ErrInvalidConfig = errors.New("invalid action configuration")

	// ErrMaxRetriesExceeded indicates that an action failed after all retry attempts.
	ErrMaxRetriesExceeded = errors.New("maximum retry attempts exceeded")

	// ErrNoTrack indicates that an intent does not name a track to act on.
	ErrNoTrack = errors.New("firing intent has no track")

	// ErrTrackNotPlaying indicates that the track to skip is no longer playing.
	ErrTrackNotPlaying = errors.New("track is no longer playing")

	// ErrMissingTemplate indicates that a sendMessage intent has no template.
	ErrMissingTemplate = errors.New("missing message template")
)
