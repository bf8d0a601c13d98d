package roles

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/adboard/backend/internal/models"
)

// CachedResolver memoizes role resolution per address in Redis so each
// account change costs one pair of factory queries, not one per page.
type CachedResolver struct {
	inner  Resolver
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedResolver wraps inner with a Redis cache.
func NewCachedResolver(inner Resolver, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedResolver{inner: inner, client: client, ttl: ttl, logger: logger}
}

func roleKey(address string) string {
	return "role:" + address
}

// Resolve returns the cached role when present, otherwise resolves and
// caches. Cache errors degrade to a direct resolution.
func (r *CachedResolver) Resolve(ctx context.Context, address string) models.Role {
	cached, err := r.client.Get(ctx, roleKey(address)).Result()
	if err == nil && cached != "" {
		return models.Role(cached)
	}
	if err != nil && err != redis.Nil {
		r.logger.Warn("role cache read failed", zap.Error(err))
	}

	role := r.inner.Resolve(ctx, address)
	if err := r.client.Set(ctx, roleKey(address), string(role), r.ttl).Err(); err != nil {
		r.logger.Warn("role cache write failed", zap.Error(err))
	}
	return role
}

// Invalidate drops the cached role for an address. Called when a session is
// (re)issued so a fresh account change re-queries the factory.
func (r *CachedResolver) Invalidate(ctx context.Context, address string) {
	if err := r.client.Del(ctx, roleKey(address)).Err(); err != nil {
		r.logger.Warn("role cache invalidate failed", zap.Error(err))
	}
}
