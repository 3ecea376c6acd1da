package feed

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKey = "feed:posts"

// Source produces the current post list. Implemented by Aggregator.
type Source interface {
	Fetch(ctx context.Context) []Post
}

// Cache keeps the reshaped post list in Redis so render cycles do not hit the
// external feed. Redis being unavailable degrades to a direct fetch.
type Cache struct {
	redis  *redis.Client
	source Source
	ttl    time.Duration
	logger *slog.Logger
}

// NewCache wraps source with a Redis-backed cache.
func NewCache(redisClient *redis.Client, source Source, ttl time.Duration, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		redis:  redisClient,
		source: source,
		ttl:    ttl,
		logger: logger,
	}
}

// Posts returns cached posts when present, refreshing on a miss.
func (c *Cache) Posts(ctx context.Context) []Post {
	raw, err := c.redis.Get(ctx, cacheKey).Bytes()
	if err == nil {
		var posts []Post
		if err := json.Unmarshal(raw, &posts); err == nil {
			return posts
		}
		c.logger.Warn("discarding unreadable feed cache entry")
	} else if err != redis.Nil {
		c.logger.Warn("feed cache read failed", slog.String("error", err.Error()))
	}

	posts, _ := c.Refresh(ctx)
	return posts
}

// Refresh re-fetches the feed and stores the result. An empty fetch result is
// not cached so a transient upstream failure cannot poison a whole TTL.
func (c *Cache) Refresh(ctx context.Context) ([]Post, error) {
	posts := c.source.Fetch(ctx)
	if len(posts) == 0 {
		return posts, nil
	}

	raw, err := json.Marshal(posts)
	if err != nil {
		return posts, err
	}
	if err := c.redis.Set(ctx, cacheKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("feed cache write failed", slog.String("error", err.Error()))
		return posts, err
	}
	return posts, nil
}
