package service

import (
	"context"
	"sync"

	"github.com/albatrocity/radio-room-server-sub000/pkg/rule"
	"github.com/sirupsen/logrus"
)

// MemoryRuleSetStore implements RuleSetStore in process memory, for
// deployments running without Redis.
type MemoryRuleSetStore struct {
	mu   sync.RWMutex
	sets map[string]rule.RuleSet
}

// NewMemoryRuleSetStore creates an empty store.
func NewMemoryRuleSetStore() *MemoryRuleSetStore {
	return &MemoryRuleSetStore{sets: make(map[string]rule.RuleSet)}
}

func (s *MemoryRuleSetStore) GetRuleSet(ctx context.Context, roomID string) (rule.RuleSet, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.sets[roomID]
	return set, ok, nil
}

func (s *MemoryRuleSetStore) SaveRuleSet(ctx context.Context, roomID string, set rule.RuleSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets[roomID] = set
	return nil
}

func (s *MemoryRuleSetStore) DeleteRuleSet(ctx context.Context, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets, roomID)
	return nil
}

// LogSink implements MusicService and MessageSender by only logging. It is
// used when no command channel is configured.
type LogSink struct{}

func (LogSink) SkipTrack(ctx context.Context, roomID, trackID string) error {
	logSinkEntry(roomID).Infof("skip track %s", trackID)
	return nil
}

func (LogSink) LikeTrack(ctx context.Context, roomID, trackID string) error {
	logSinkEntry(roomID).Infof("like track %s", trackID)
	return nil
}

func (LogSink) SendSystemMessage(ctx context.Context, roomID, content string) error {
	logSinkEntry(roomID).Infof("system message: %s", content)
	return nil
}

func logSinkEntry(roomID string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{"roomId": roomID, "sink": "log"})
}
