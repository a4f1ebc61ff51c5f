// Package redissvc caches per-user unread notification counts in redis. The
// cache is strictly best-effort: every method is safe on a nil *Cache and any
// redis failure falls through to the store.
package redissvc

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const unreadCountTTL = time.Minute

type Cache struct {
	rdb *redis.Client
}

// New connects to redis and returns the cache, or nil (with a warning) when
// addr is empty or redis is unreachable.
func New(addr string) *Cache {
	if addr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", addr).Msg("redis unavailable, unread-count cache disabled")
		return nil
	}
	return &Cache{rdb: rdb}
}

// Close releases the redis connection.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

func unreadCountKey(userID int) string {
	return fmt.Sprintf("notifications:unread:%d", userID)
}

// UnreadCount returns the cached count and whether it was present.
func (c *Cache) UnreadCount(userID int) (int, bool) {
	if c == nil {
		return 0, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	count, err := c.rdb.Get(ctx, unreadCountKey(userID)).Int()
	if err != nil {
		return 0, false
	}
	return count, true
}

// SetUnreadCount stores the count with a short TTL.
func (c *Cache) SetUnreadCount(userID, count int) {
	if c == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := c.rdb.Set(ctx, unreadCountKey(userID), count, unreadCountTTL).Err(); err != nil {
		log.Warn().Err(err).Int("user_id", userID).Msg("failed to cache unread count")
	}
}

// InvalidateUnreadCount drops the cached count after any notification write.
func (c *Cache) InvalidateUnreadCount(userID int) {
	if c == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := c.rdb.Del(ctx, unreadCountKey(userID)).Err(); err != nil {
		log.Warn().Err(err).Int("user_id", userID).Msg("failed to invalidate unread count")
	}
}
