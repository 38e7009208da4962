package markdown

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/viccon/sturdyc"

	"github.com/goliatone/go-blog/internal/identity"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// CachedRenderer memoises another renderer by a digest of the Markdown input.
// Cache failures are treated as misses.
type CachedRenderer struct {
	inner  interfaces.MarkdownRenderer
	cache  interfaces.RenderCache
	logger interfaces.Logger
}

var _ interfaces.MarkdownRenderer = (*CachedRenderer)(nil)

// NewCachedRenderer wraps inner. A nil cache returns a pass-through renderer.
func NewCachedRenderer(inner interfaces.MarkdownRenderer, cache interfaces.RenderCache, logger interfaces.Logger) *CachedRenderer {
	return &CachedRenderer{inner: inner, cache: cache, logger: logging.OrNoOp(logger)}
}

func (r *CachedRenderer) Render(ctx context.Context, markdown []byte) ([]byte, error) {
	if r.cache == nil {
		return r.inner.Render(ctx, markdown)
	}

	key := identity.RenderKey(markdown)
	if cached, ok := r.cache.Get(ctx, key); ok {
		r.logger.Trace("markdown.cache_hit", "key", key)
		return bytes.Clone(cached), nil
	}

	out, err := r.inner.Render(ctx, markdown)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, key, bytes.Clone(out))
	return out, nil
}

// MemoryCacheConfig sizes the in-process cache.
type MemoryCacheConfig struct {
	Capacity           int
	Shards             int
	TTL                time.Duration
	EvictionPercentage int
}

// DefaultMemoryCacheConfig holds a few hundred rendered posts for an hour.
func DefaultMemoryCacheConfig() MemoryCacheConfig {
	return MemoryCacheConfig{
		Capacity:           512,
		Shards:             8,
		TTL:                time.Hour,
		EvictionPercentage: 10,
	}
}

// MemoryCache is an in-process RenderCache backed by sturdyc.
type MemoryCache struct {
	client *sturdyc.Client[[]byte]
}

var _ interfaces.RenderCache = (*MemoryCache)(nil)

// NewMemoryCache builds a sturdyc client. Zero fields fall back to
// DefaultMemoryCacheConfig.
func NewMemoryCache(cfg MemoryCacheConfig) *MemoryCache {
	defaults := DefaultMemoryCacheConfig()
	if cfg.Capacity <= 0 {
		cfg.Capacity = defaults.Capacity
	}
	if cfg.Shards <= 0 {
		cfg.Shards = defaults.Shards
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaults.TTL
	}
	if cfg.EvictionPercentage <= 0 {
		cfg.EvictionPercentage = defaults.EvictionPercentage
	}
	return &MemoryCache{
		client: sturdyc.New[[]byte](cfg.Capacity, cfg.Shards, cfg.TTL, cfg.EvictionPercentage),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	return c.client.Get(key)
}

func (c *MemoryCache) Set(_ context.Context, key string, html []byte) {
	c.client.Set(key, html)
}

// RedisClient is the subset of the go-redis client used by RedisCache.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisCache is a RenderCache shared between processes through Redis.
type RedisCache struct {
	client RedisClient
	ttl    time.Duration
	logger interfaces.Logger
}

var _ interfaces.RenderCache = (*RedisCache)(nil)

// NewRedisCache stores entries with ttl (0 keeps them until evicted).
func NewRedisCache(client RedisClient, ttl time.Duration, logger interfaces.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, logger: logging.OrNoOp(logger)}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("markdown.cache_get_failed", "key", key, "error", err)
		}
		return nil, false
	}
	return value, true
}

func (c *RedisCache) Set(ctx context.Context, key string, html []byte) {
	if err := c.client.Set(ctx, key, html, c.ttl).Err(); err != nil {
		c.logger.Warn("markdown.cache_set_failed", "key", key, "error", err)
	}
}
