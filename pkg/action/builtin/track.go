package builtin

import (
	"context"
	"fmt"

	"github.com/albatrocity/radio-room-server-sub000/pkg/action"
	"github.com/albatrocity/radio-room-server-sub000/pkg/room"
	"github.com/albatrocity/radio-room-server-sub000/pkg/rule"
	"github.com/albatrocity/radio-room-server-sub000/pkg/service"
	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

const (
	// SkipTrackActionID is the identifier for the skip track action
	SkipTrackActionID = "skip_track"
	// LikeTrackActionID is the identifier for the like track action
	LikeTrackActionID = "like_track"

	// paramOnlyIfPlaying makes skipTrack a no-op failure when the target
	// track has already stopped playing.
	paramOnlyIfPlaying = "only_if_playing"
)

// SkipTrackAction skips the track the firing rule resolved to.
type SkipTrackAction struct {
	config action.ActionConfig
	music  service.MusicService
}

func NewSkipTrackAction(config action.ActionConfig, music service.MusicService) *SkipTrackAction {
	return &SkipTrackAction{
		config: config,
		music:  music,
	}
}

func (a *SkipTrackAction) ID() string {
	return a.config.ID
}

func (a *SkipTrackAction) Name() string {
	return "Skip Track"
}

func (a *SkipTrackAction) Type() rule.ActionType {
	return rule.ActionSkipTrack
}

func (a *SkipTrackAction) Config() action.ActionConfig {
	return a.config
}

func (a *SkipTrackAction) Execute(ctx context.Context, state *room.State, intent rule.FiringIntent) error {
	trackID, ok := intent.TrackID()
	if !ok {
		return backoff.Permanent(action.ErrNoTrack)
	}

	if a.config.GetParameterBool(paramOnlyIfPlaying, true) {
		playing, ok := state.NowPlaying()
		if !ok || playing.TrackID != trackID {
			return backoff.Permanent(fmt.Errorf("%w: %s", action.ErrTrackNotPlaying, trackID))
		}
	}

	roomID := roomFor(state, intent)
	if err := a.music.SkipTrack(ctx, roomID, trackID); err != nil {
		return fmt.Errorf("failed to skip track %s: %w", trackID, err)
	}

	logrus.Infof("skipped track %s in room %s (rule %s)", trackID, roomID, intent.Rule.ID)
	return nil
}

// LikeTrackAction saves the track the firing rule resolved to.
type LikeTrackAction struct {
	config action.ActionConfig
	music  service.MusicService
}

func NewLikeTrackAction(config action.ActionConfig, music service.MusicService) *LikeTrackAction {
	return &LikeTrackAction{
		config: config,
		music:  music,
	}
}

func (a *LikeTrackAction) ID() string {
	return a.config.ID
}

func (a *LikeTrackAction) Name() string {
	return "Like Track"
}

func (a *LikeTrackAction) Type() rule.ActionType {
	return rule.ActionLikeTrack
}

func (a *LikeTrackAction) Config() action.ActionConfig {
	return a.config
}

func (a *LikeTrackAction) Execute(ctx context.Context, state *room.State, intent rule.FiringIntent) error {
	trackID, ok := intent.TrackID()
	if !ok {
		return backoff.Permanent(action.ErrNoTrack)
	}

	roomID := roomFor(state, intent)
	if err := a.music.LikeTrack(ctx, roomID, trackID); err != nil {
		return fmt.Errorf("failed to like track %s: %w", trackID, err)
	}

	logrus.Infof("liked track %s in room %s (rule %s)", trackID, roomID, intent.Rule.ID)
	return nil
}

func roomFor(state *room.State, intent rule.FiringIntent) string {
	if intent.Event != nil {
		return intent.Event.RoomID()
	}
	if state != nil {
		return state.RoomID
	}
	return ""
}
