// Package events broadcasts catalog and playlist changes on a Redis channel.
// Delivery is best effort: failures are logged and never reach the caller.
package events

import (
	"context"
	"encoding/json"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"streamly/internal/logging"
)

// Channel is the pub/sub channel every event is published on.
const Channel = "broadcast"

const (
	SongCreated     = "song.created"
	SongUpdated     = "song.updated"
	SongDeleted     = "song.deleted"
	SongPlayed      = "song.played"
	SongLiked       = "song.liked"
	PlaylistCreated = "playlist.created"
	PlaylistUpdated = "playlist.updated"
	PlaylistDeleted = "playlist.deleted"
	PlaylistPlayed  = "playlist.played"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, evt Event)
}

// Nop discards every event. Used when no Redis URL is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}

type RedisPublisher struct {
	rdb    *redis.Client
	logger *log.Logger
}

func NewRedisPublisher(rdb *redis.Client, logger *log.Logger) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, logger: logging.With(logger, "component", "events")}
}

// Connect parses a redis:// URL and returns a client for it.
func Connect(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opt), nil
}

func (p *RedisPublisher) Publish(ctx context.Context, evt Event) {
	if p == nil || p.rdb == nil {
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		p.logger.Error("marshal event", "type", evt.Type, "err", err)
		return
	}
	if err := p.rdb.Publish(ctx, Channel, string(data)).Err(); err != nil {
		p.logger.Warn("publish event", "type", evt.Type, "err", err)
	}
}
