package history

import (
	"context"
	"sync"

	"github.com/albatrocity/radio-room-server-sub000/pkg/rule"
)

// MemoryLedger keeps firing history in process memory.
// It is the ledger for single-instance and test deployments.
type MemoryLedger struct {
	mu      sync.Mutex
	records map[string][]rule.FiringRecord
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		records: make(map[string][]rule.FiringRecord),
	}
}

// CountPriorFirings implements rule.Ledger.
func (l *MemoryLedger) CountPriorFirings(ctx context.Context, roomID string, captured rule.CapturedRule) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return rule.CountMatching(l.records[roomID], captured), nil
}

// Record implements rule.Ledger.
func (l *MemoryLedger) Record(ctx context.Context, roomID string, record rule.FiringRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records[roomID] = append(l.records[roomID], record)
	return nil
}

// Prune implements rule.Ledger.
func (l *MemoryLedger) Prune(ctx context.Context, roomID string, predicate rule.Predicate) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept, removed := partition(l.records[roomID], predicate)
	if len(kept) == 0 {
		delete(l.records, roomID)
	} else {
		l.records[roomID] = kept
	}
	return removed, nil
}

// Records implements rule.Ledger.
func (l *MemoryLedger) Records(ctx context.Context, roomID string) ([]rule.FiringRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]rule.FiringRecord, len(l.records[roomID]))
	copy(out, l.records[roomID])
	return out, nil
}

// partition splits records into those to keep and a count of those the
// predicate selected for removal.
func partition(records []rule.FiringRecord, predicate rule.Predicate) ([]rule.FiringRecord, int) {
	kept := make([]rule.FiringRecord, 0, len(records))
	removed := 0
	for _, r := range records {
		if predicate(r) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	return kept, removed
}
