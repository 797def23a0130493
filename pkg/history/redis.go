package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/albatrocity/radio-room-server-sub000/pkg/rule"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultTTL is how long a room's firing history outlives its last write (7 days)
	DefaultTTL = 7 * 24 * time.Hour
	// KeyPrefix is the prefix for all firing history keys
	KeyPrefix = "radio_room:triggers:history:"

	maxPruneAttempts = 5
)

// RedisLedger stores each room's firing history as a Redis list of JSON
// records, oldest first.
type RedisLedger struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLedger creates a Redis-backed ledger. A non-positive ttl falls
// back to DefaultTTL.
func NewRedisLedger(client *redis.Client, ttl time.Duration) *RedisLedger {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisLedger{client: client, ttl: ttl}
}

// makeKey creates the Redis key for a room's history
func makeKey(roomID string) string {
	return fmt.Sprintf("%s%s", KeyPrefix, roomID)
}

// CountPriorFirings implements rule.Ledger.
func (l *RedisLedger) CountPriorFirings(ctx context.Context, roomID string, captured rule.CapturedRule) (int, error) {
	records, err := l.Records(ctx, roomID)
	if err != nil {
		return 0, err
	}
	return rule.CountMatching(records, captured), nil
}

// Record implements rule.Ledger. The append and the TTL refresh run in one
// transaction.
func (l *RedisLedger) Record(ctx context.Context, roomID string, record rule.FiringRecord) error {
	key := makeKey(roomID)

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal firing record: %w", err)
	}

	_, err = l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, data)
		pipe.Expire(ctx, key, l.ttl)
		return nil
	})
	if err != nil {
		logrus.Errorf("failed to record firing for room %s: %v", roomID, err)
		return fmt.Errorf("failed to record firing: %w", err)
	}

	logrus.Debugf("recorded firing of rule %s for room %s", record.RuleID, roomID)
	return nil
}

// Records implements rule.Ledger.
func (l *RedisLedger) Records(ctx context.Context, roomID string) ([]rule.FiringRecord, error) {
	entries, err := l.client.LRange(ctx, makeKey(roomID), 0, -1).Result()
	if err != nil {
		logrus.Errorf("failed to read firing history for room %s: %v", roomID, err)
		return nil, fmt.Errorf("failed to read firing history: %w", err)
	}
	return decodeRecords(roomID, entries), nil
}

// Prune implements rule.Ledger. The list is rewritten under WATCH so a
// concurrent Record forces a retry instead of being lost.
func (l *RedisLedger) Prune(ctx context.Context, roomID string, predicate rule.Predicate) (int, error) {
	key := makeKey(roomID)
	removed := 0

	prune := func(tx *redis.Tx) error {
		entries, err := tx.LRange(ctx, key, 0, -1).Result()
		if err != nil {
			return err
		}

		kept, n := partition(decodeRecords(roomID, entries), predicate)
		removed = n
		if n == 0 {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			if len(kept) == 0 {
				return nil
			}
			values := make([]interface{}, 0, len(kept))
			for _, r := range kept {
				data, err := json.Marshal(r)
				if err != nil {
					return err
				}
				values = append(values, data)
			}
			pipe.RPush(ctx, key, values...)
			pipe.Expire(ctx, key, l.ttl)
			return nil
		})
		return err
	}

	for attempt := 1; attempt <= maxPruneAttempts; attempt++ {
		err := l.client.Watch(ctx, prune, key)
		if err == nil {
			if removed > 0 {
				logrus.Infof("pruned %d firing records for room %s", removed, roomID)
			}
			return removed, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			logrus.Errorf("failed to prune firing history for room %s: %v", roomID, err)
			return 0, fmt.Errorf("failed to prune firing history: %w", err)
		}
		logrus.Debugf("firing history for room %s changed during prune (attempt %d/%d)", roomID, attempt, maxPruneAttempts)
	}

	return 0, fmt.Errorf("failed to prune firing history for room %s: %w", roomID, ErrPruneConflict)
}

// decodeRecords skips entries that fail to decode; they can never match.
func decodeRecords(roomID string, entries []string) []rule.FiringRecord {
	records := make([]rule.FiringRecord, 0, len(entries))
	for _, entry := range entries {
		var record rule.FiringRecord
		if err := json.Unmarshal([]byte(entry), &record); err != nil {
			logrus.Warnf("skipping malformed firing record for room %s: %v", roomID, err)
			continue
		}
		records = append(records, record)
	}
	return records
}
