package rule

import (
	"context"
	"time"

	"github.com/albatrocity/radio-room-server-sub000/pkg/room"
	"github.com/albatrocity/radio-room-server-sub000/pkg/signal"
	"github.com/google/uuid"
)

// FiringRecord marks one successful firing of a rule in a room.
type FiringRecord struct {
	ID         string      `json:"id"`
	RoomID     string      `json:"roomId"`
	On         signal.Kind `json:"on"`
	RuleID     string      `json:"ruleId"`
	Subject    room.Ref    `json:"subject"`
	Target     *room.Ref   `json:"target,omitempty"`
	ActionType ActionType  `json:"actionType"`
	Timestamp  time.Time   `json:"timestamp"`
}

// NewFiringRecord builds the history entry for a captured rule.
func NewFiringRecord(roomID string, captured CapturedRule, at time.Time) FiringRecord {
	record := FiringRecord{
		ID:         uuid.NewString(),
		RoomID:     roomID,
		On:         captured.On,
		RuleID:     captured.ID,
		Subject:    captured.Subject,
		ActionType: captured.ActionType,
		Timestamp:  at,
	}
	if captured.Target != nil {
		target := *captured.Target
		record.Target = &target
	}
	return record
}

// Matches reports whether the record was produced by the same captured
// rule: same event kind, rule, subject, resolved target and action.
func (f FiringRecord) Matches(captured CapturedRule) bool {
	if f.On != captured.On || f.RuleID != captured.ID || f.ActionType != captured.ActionType {
		return false
	}
	if f.Subject != captured.Subject {
		return false
	}
	switch {
	case f.Target == nil && captured.Target == nil:
		return true
	case f.Target == nil || captured.Target == nil:
		return false
	}
	return f.Target.Kind == captured.Target.Kind && f.Target.Identifier == captured.Target.Identifier
}

// CountMatching counts records produced by the captured rule.
func CountMatching(records []FiringRecord, captured CapturedRule) int {
	n := 0
	for _, r := range records {
		if r.Matches(captured) {
			n++
		}
	}
	return n
}

// Predicate selects firing records.
type Predicate func(FiringRecord) bool

// TrackScoped selects records tied to a track through their target or
// subject. These become irrelevant when the playlist is cleared.
func TrackScoped(r FiringRecord) bool {
	if r.Target != nil && r.Target.Kind == room.KindTrack {
		return true
	}
	return r.Subject.Kind == room.KindTrack
}

// MessageScoped selects records whose subject is a chat message. These
// become irrelevant when the chat is cleared.
func MessageScoped(r FiringRecord) bool {
	return r.Subject.Kind == room.KindMessage
}

// AllRecords selects every record.
func AllRecords(FiringRecord) bool {
	return true
}

// Ledger is the append-only firing history of each room. Implementations
// must be safe for concurrent use across rooms.
type Ledger interface {
	// CountPriorFirings returns how many recorded firings match the
	// captured rule.
	CountPriorFirings(ctx context.Context, roomID string, captured CapturedRule) (int, error)

	// Record appends a firing.
	Record(ctx context.Context, roomID string, record FiringRecord) error

	// Prune removes records selected by the predicate and returns how many
	// were removed.
	Prune(ctx context.Context, roomID string, predicate Predicate) (int, error)

	// Records returns the room's firings in recording order.
	Records(ctx context.Context, roomID string) ([]FiringRecord, error)
}
