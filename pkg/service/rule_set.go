package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/albatrocity/radio-room-server-sub000/pkg/rule"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// ruleSetStoreKeyPrefix is the prefix for all rule set keys
const ruleSetStoreKeyPrefix = "radio_room:triggers:rules:"

// RedisRuleSetStore implements RuleSetStore using Redis. Rule sets live for
// the room's lifetime, so keys carry no TTL.
type RedisRuleSetStore struct {
	client *redis.Client
}

// NewRedisRuleSetStore creates a new Redis-backed rule set store.
func NewRedisRuleSetStore(client *redis.Client) *RedisRuleSetStore {
	return &RedisRuleSetStore{client: client}
}

// makeRuleSetStoreKey creates a Redis key for a room
func makeRuleSetStoreKey(roomID string) string {
	return fmt.Sprintf("%s%s", ruleSetStoreKeyPrefix, roomID)
}

// GetRuleSet retrieves the rule set for a room from Redis
func (s *RedisRuleSetStore) GetRuleSet(ctx context.Context, roomID string) (rule.RuleSet, bool, error) {
	data, err := s.client.Get(ctx, makeRuleSetStoreKey(roomID)).Result()
	if err == redis.Nil {
		logrus.Debugf("no stored rule set for room %s", roomID)
		return rule.RuleSet{}, false, nil
	}
	if err != nil {
		logrus.Errorf("failed to get rule set for room %s: %v", roomID, err)
		return rule.RuleSet{}, false, fmt.Errorf("failed to get rule set: %w", err)
	}

	var set rule.RuleSet
	if err := json.Unmarshal([]byte(data), &set); err != nil {
		logrus.Errorf("failed to unmarshal rule set for room %s: %v", roomID, err)
		return rule.RuleSet{}, false, fmt.Errorf("failed to unmarshal rule set: %w", err)
	}

	return set, true, nil
}

// SaveRuleSet stores the rule set for a room in Redis
func (s *RedisRuleSetStore) SaveRuleSet(ctx context.Context, roomID string, set rule.RuleSet) error {
	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to marshal rule set: %w", err)
	}

	if err := s.client.Set(ctx, makeRuleSetStoreKey(roomID), data, 0).Err(); err != nil {
		logrus.Errorf("failed to save rule set for room %s: %v", roomID, err)
		return fmt.Errorf("failed to save rule set: %w", err)
	}

	logrus.Infof("saved rule set for room %s (%d rules)", roomID, set.Len())
	return nil
}

// DeleteRuleSet deletes the rule set for a room from Redis
func (s *RedisRuleSetStore) DeleteRuleSet(ctx context.Context, roomID string) error {
	if err := s.client.Del(ctx, makeRuleSetStoreKey(roomID)).Err(); err != nil {
		logrus.Errorf("failed to delete rule set for room %s: %v", roomID, err)
		return fmt.Errorf("failed to delete rule set: %w", err)
	}

	logrus.Infof("deleted rule set for room %s", roomID)
	return nil
}
