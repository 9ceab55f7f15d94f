package football

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/footyclub/backend/internal/metrics"
)

// Cache stores successful upstream payloads in Redis so repeated page
// loads do not burn through the upstream rate limit. Entries expire
// after the configured TTL. A nil Cache (Redis not configured) is a
// valid no-op.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCache creates a football response cache over a Redis client.
// Returns nil when client is nil, which disables caching.
func NewCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached payload for a key, if present
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("football cache read failed", "key", key, "error", err)
		}
		metrics.FootballCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	metrics.FootballCacheTotal.WithLabelValues("hit").Inc()
	return payload, true
}

// Set stores a payload under a key with the cache TTL. Failures are
// logged and swallowed; the response was already served from upstream.
func (c *Cache) Set(ctx context.Context, key string, payload []byte) {
	if c == nil {
		return
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("football cache write failed", "key", key, "error", err)
	}
}
