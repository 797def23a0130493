package mock

import (
	"context"
	"sync"
)

// MusicService is a mock implementation of service.MusicService for testing
type MusicService struct {
	// SkipTrackFunc is called when SkipTrack is invoked
	SkipTrackFunc func(ctx context.Context, roomID, trackID string) error

	// LikeTrackFunc is called when LikeTrack is invoked
	LikeTrackFunc func(ctx context.Context, roomID, trackID string) error

	// DefaultError is returned when no func is set
	DefaultError error

	mu sync.Mutex

	// Call tracking
	SkipTrackCalls []TrackCall
	LikeTrackCalls []TrackCall
}

// TrackCall tracks parameters for SkipTrack and LikeTrack calls
type TrackCall struct {
	RoomID  string
	TrackID string
}

// NewMusicService creates a new mock MusicService that succeeds
func NewMusicService() *MusicService {
	return &MusicService{}
}

// SkipTrack implements service.MusicService
func (m *MusicService) SkipTrack(ctx context.Context, roomID, trackID string) error {
	m.mu.Lock()
	m.SkipTrackCalls = append(m.SkipTrackCalls, TrackCall{RoomID: roomID, TrackID: trackID})
	m.mu.Unlock()

	if m.SkipTrackFunc != nil {
		return m.SkipTrackFunc(ctx, roomID, trackID)
	}
	return m.DefaultError
}

// LikeTrack implements service.MusicService
func (m *MusicService) LikeTrack(ctx context.Context, roomID, trackID string) error {
	m.mu.Lock()
	m.LikeTrackCalls = append(m.LikeTrackCalls, TrackCall{RoomID: roomID, TrackID: trackID})
	m.mu.Unlock()

	if m.LikeTrackFunc != nil {
		return m.LikeTrackFunc(ctx, roomID, trackID)
	}
	return m.DefaultError
}

// SkipCount returns how many times SkipTrack was called
func (m *MusicService) SkipCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SkipTrackCalls)
}

// LikeCount returns how many times LikeTrack was called
func (m *MusicService) LikeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.LikeTrackCalls)
}
