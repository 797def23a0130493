package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// DefaultChannelPrefix is the prefix of the pub/sub channels commands are
// published on.
const DefaultChannelPrefix = "radio_room:commands"

// RedisCommandPublisher implements MusicService and MessageSender by
// publishing JSON commands that the room host's socket server consumes.
type RedisCommandPublisher struct {
	client *redis.Client
	cfg    RedisCommandPublisherConfig
	now    func() time.Time
}

type RedisCommandPublisherConfig struct {
	ChannelPrefix string
}

// NewRedisCommandPublisher creates a publisher. An empty channel prefix
// falls back to DefaultChannelPrefix.
func NewRedisCommandPublisher(
	client *redis.Client,
	cfg RedisCommandPublisherConfig,
) *RedisCommandPublisher {
	if cfg.ChannelPrefix == "" {
		cfg.ChannelPrefix = DefaultChannelPrefix
	}
	return &RedisCommandPublisher{
		client: client,
		cfg:    cfg,
		now:    time.Now,
	}
}

// MusicChannel is the channel playback commands are published on.
func (p *RedisCommandPublisher) MusicChannel() string {
	return p.cfg.ChannelPrefix + ":music"
}

// MessageChannel is the channel system messages are published on.
func (p *RedisCommandPublisher) MessageChannel() string {
	return p.cfg.ChannelPrefix + ":messages"
}

// SkipTrack implements MusicService.
func (p *RedisCommandPublisher) SkipTrack(ctx context.Context, roomID, trackID string) error {
	return p.publish(ctx, p.MusicChannel(), Command{Type: CommandSkipTrack, RoomID: roomID, TrackID: trackID})
}

// LikeTrack implements MusicService.
func (p *RedisCommandPublisher) LikeTrack(ctx context.Context, roomID, trackID string) error {
	return p.publish(ctx, p.MusicChannel(), Command{Type: CommandLikeTrack, RoomID: roomID, TrackID: trackID})
}

// SendSystemMessage implements MessageSender.
func (p *RedisCommandPublisher) SendSystemMessage(ctx context.Context, roomID, content string) error {
	return p.publish(ctx, p.MessageChannel(), Command{Type: CommandSystemMessage, RoomID: roomID, Content: content})
}

func (p *RedisCommandPublisher) publish(ctx context.Context, channel string, cmd Command) error {
	cmd.IssuedAt = p.now()

	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("failed to marshal %s command: %w", cmd.Type, err)
	}

	receivers, err := p.client.Publish(ctx, channel, data).Result()
	if err != nil {
		logrus.Errorf("failed to publish %s command for room %s: %v", cmd.Type, cmd.RoomID, err)
		return fmt.Errorf("failed to publish %s command: %w", cmd.Type, err)
	}
	if receivers == 0 {
		logrus.Warnf("%s command for room %s published on %s with no subscribers", cmd.Type, cmd.RoomID, channel)
	}

	logrus.Debugf("published %s command for room %s on %s", cmd.Type, cmd.RoomID, channel)
	return nil
}
