package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CachedNameResolver wraps a NameResolver with Redis caching.
// Concurrent lookups for the same code share one upstream call.
type CachedNameResolver struct {
	resolver NameResolver
	cache    *redis.Client
	ttl      time.Duration
	group    singleflight.Group
	log      *zap.SugaredLogger
}

// NewCachedNameResolver creates a new CachedNameResolver. A nil cache disables caching.
func NewCachedNameResolver(resolver NameResolver, cache *redis.Client, ttl time.Duration, logger *zap.SugaredLogger) *CachedNameResolver {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &CachedNameResolver{
		resolver: resolver,
		cache:    cache,
		ttl:      ttl,
		log:      logger,
	}
}

func (c *CachedNameResolver) cacheKey(code string) string {
	return fmt.Sprintf("fund_name:{%s}", code)
}

// ResolveName reads the cache before calling the underlying resolver. Failures are never cached.
func (c *CachedNameResolver) ResolveName(ctx context.Context, code string) (string, error) {
	key := c.cacheKey(code)

	if c.cache != nil {
		vals, err := c.cache.HMGet(ctx, key, "name", "resolved_at").Result()
		if err == nil && len(vals) == 2 && vals[0] != nil {
			if name, ok := vals[0].(string); ok && name != "" {
				return name, nil
			}
		}
	}

	v, err, _ := c.group.Do(code, func() (any, error) {
		return c.resolver.ResolveName(ctx, code)
	})
	if err != nil {
		c.log.Debugw("Name lookup failed", "code", code, "error", err)
		return "", err
	}
	name := v.(string)

	if c.cache != nil {
		pipe := c.cache.Pipeline()
		pipe.HSet(ctx, key, "name", name, "resolved_at", time.Now().UTC().Format(time.RFC3339))
		pipe.Expire(ctx, key, c.ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			c.log.Warnw("Failed to cache fund name", "code", code, "error", err)
		}
	}

	return name, nil
}

var _ NameResolver = (*CachedNameResolver)(nil)
