// Package redis provides the optional response cache for the search read
// path. The cache is an availability optimization only: every failure path
// degrades to an uncached read.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/turtacn/patent-prophet/internal/config"
	"github.com/turtacn/patent-prophet/internal/infrastructure/monitoring/logging"
)

// SearchCache stores serialized search responses keyed by (query, limit).
// A nil *SearchCache is valid and behaves as a permanent miss, so callers
// never branch on whether caching is configured.
type SearchCache struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
	logger logging.Logger
}

// NewSearchCache connects to Redis when cfg.Addr is set; an empty Addr
// disables caching and returns nil.
func NewSearchCache(cfg config.RedisConfig, log logging.Logger) *SearchCache {
	if cfg.Addr == "" {
		return nil
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &SearchCache{
		client: client,
		prefix: cfg.KeyPrefix,
		ttl:    cfg.TTL,
		logger: log.Named("search_cache"),
	}
}

// Key builds the cache key for one search request.
func (c *SearchCache) Key(query string, limit int) string {
	prefix := "prophet:search:"
	if c != nil && c.prefix != "" {
		prefix = c.prefix
	}
	return fmt.Sprintf("%s%s:%d", prefix, query, limit)
}

// Get unmarshals the cached value at key into dest and reports whether a
// usable entry was found. Connection and decode errors count as misses.
func (c *SearchCache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.logger.Warn("cache read failed", logging.String("key", key), logging.Err(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn("cache entry corrupt", logging.String("key", key), logging.Err(err))
		return false
	}
	return true
}

// Set stores value at key for the configured TTL. Failures are logged and
// otherwise ignored.
func (c *SearchCache) Set(ctx context.Context, key string, value any) {
	if c == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache encode failed", logging.String("key", key), logging.Err(err))
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", logging.String("key", key), logging.Err(err))
	}
}

// Close releases the client. Safe on a nil cache.
func (c *SearchCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
