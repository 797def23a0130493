package history

import "errors"

// ErrPruneConflict is returned when a prune kept racing concurrent writes.
var ErrPruneConflict = errors.New("firing history changed concurrently")
