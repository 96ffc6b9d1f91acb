// Package dedupe records processed inbound message IDs so webhook
// redeliveries are dropped. Backed by Redis; without Redis every message is
// treated as first-seen (at-least-once).
package dedupe

import (
	"context"
	"time"

	"storebot_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "storebot:msg:"
	defaultTTL = 6 * time.Hour
)

// Store marks message IDs as processed.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// New creates a Redis-backed dedupe store. Returns nil when redisURL is
// empty; a nil Store treats every message as first-seen.
func New(redisURL string, log *logger.Logger) (*Store, error) {
	if redisURL == "" {
		return nil, nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	return &Store{
		client: redis.NewClient(opt),
		ttl:    defaultTTL,
		log:    log,
	}, nil
}

// FirstSeen atomically claims the message ID. Returns true the first time an
// ID is presented, false on redelivery. Redis failures are logged and treated
// as first-seen: dropping a message is worse than answering it twice.
func (s *Store) FirstSeen(ctx context.Context, messageID string) bool {
	if s == nil || messageID == "" {
		return true
	}

	claimed, err := s.client.SetNX(ctx, keyPrefix+messageID, 1, s.ttl).Result()
	if err != nil {
		s.log.Error("dedupe check failed", "messageId", messageID, "error", err)
		return true
	}
	return claimed
}

// Close releases the Redis connection.
func (s *Store) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}
