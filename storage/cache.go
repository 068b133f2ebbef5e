package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type backend interface {
	Load(ctx context.Context, name string) (string, error)
	Save(ctx context.Context, name, content string) error
	List(ctx context.Context) ([]DocumentInfo, error)
}

// Cache wraps a Store with Redis-backed caching of document reads. Saves
// evict so the next read observes the new text; listings always hit the
// backing store.
type Cache struct {
	base  backend
	redis *redis.Client
	ttl   time.Duration
}

// NewCache creates a caching wrapper using the provided Redis client and TTL.
func NewCache(base backend, client *redis.Client, ttl time.Duration) *Cache {
	if base == nil {
		panic("storage.NewCache: base storage is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{base: base, redis: client, ttl: ttl}
}

func (c *Cache) Load(ctx context.Context, name string) (string, error) {
	if content, ok := c.loadFromCache(ctx, name); ok {
		return content, nil
	}
	content, err := c.base.Load(ctx, name)
	if err != nil {
		return "", err
	}
	c.store(ctx, name, content)
	return content, nil
}

func (c *Cache) Save(ctx context.Context, name, content string) error {
	if err := c.base.Save(ctx, name, content); err != nil {
		return err
	}
	c.evict(ctx, name)
	return nil
}

func (c *Cache) List(ctx context.Context) ([]DocumentInfo, error) {
	return c.base.List(ctx)
}

func (c *Cache) loadFromCache(ctx context.Context, name string) (string, bool) {
	if c.redis == nil {
		return "", false
	}
	content, err := c.redis.Get(ctx, documentCacheKey(name)).Result()
	if err != nil {
		if err != redis.Nil {
			// On redis errors fall back to the backing storage without failing.
			_ = c.redis.Del(ctx, documentCacheKey(name)).Err()
		}
		return "", false
	}
	return content, true
}

func (c *Cache) store(ctx context.Context, name, content string) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	_ = c.redis.Set(ctx, documentCacheKey(name), content, c.ttl).Err()
}

func (c *Cache) evict(ctx context.Context, name string) {
	if c.redis == nil {
		return
	}
	_ = c.redis.Del(ctx, documentCacheKey(name)).Err()
}

func documentCacheKey(name string) string {
	return "doc:" + name
}
