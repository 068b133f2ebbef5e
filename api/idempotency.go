package api

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDeduper stores processed board-event idempotency keys in Redis so a
// retried drop or resize is applied exactly once.
type RedisDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDeduper creates a deduper using the provided Redis client and TTL.
func NewRedisDeduper(client *redis.Client, ttl time.Duration) *RedisDeduper {
	return &RedisDeduper{client: client, ttl: ttl}
}

func (r *RedisDeduper) key(doc, key string) string {
	return fmt.Sprintf("ev:%s:%s", doc, key)
}

// Add records the key if it does not already exist. It returns true when the
// key was newly added.
func (r *RedisDeduper) Add(ctx context.Context, doc, key string) (bool, error) {
	return r.client.SetNX(ctx, r.key(doc, key), 1, r.ttl).Result()
}

// Remove deletes a previously recorded key so the client may retry the event
// after a failed writeback.
func (r *RedisDeduper) Remove(ctx context.Context, doc, key string) error {
	return r.client.Del(ctx, r.key(doc, key)).Err()
}

// noopDeduper accepts every event; used when Redis is not configured.
type noopDeduper struct{}

func (noopDeduper) Add(context.Context, string, string) (bool, error) { return true, nil }
func (noopDeduper) Remove(context.Context, string, string) error      { return nil }
