package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/singleflight"
)

// Cache is a JSON read-through cache in redis. A nil *Cache is valid and
// caches nothing.
type Cache struct {
	rdb   *redis.Client
	ttl   time.Duration
	group singleflight.Group
}

func New(rdb *redis.Client, ttl time.Duration) *Cache {
	if rdb == nil {
		return nil
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

func ProductKey(id uint64) string {
	return fmt.Sprintf("product:%d", id)
}

func UserOrdersKey(userID uint64) string {
	return fmt.Sprintf("orders:user:%d", userID)
}

// Fetch returns the cached value under key, or calls load once for all
// concurrent callers that missed and stores its result.
func Fetch[T any](ctx context.Context, c *Cache, key string, load func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return load(ctx)
	}

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var v T
		if err := json.Unmarshal(b, &v); err == nil {
			return v, nil
		}
		log.Printf("cache: dropping undecodable value at %s", key)
	} else if err != redis.Nil {
		log.Printf("cache: get %s: %v", key, err)
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		v, err := load(ctx)
		if err != nil {
			return v, err
		}
		c.Set(ctx, key, v)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Set stores v under key with the cache TTL, with errors only logged.
func (c *Cache) Set(ctx context.Context, key string, v any) {
	if c == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("cache: marshal %s: %v", key, err)
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("cache: set %s: %v", key, err)
	}
}

func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("cache: del %v: %v", keys, err)
	}
}
