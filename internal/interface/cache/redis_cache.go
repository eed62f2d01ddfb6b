package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"medtour-itinerary-service/internal/domain/entity"
	"medtour-itinerary-service/internal/domain/repository"

	"github.com/redis/go-redis/v9"
)

// RedisCommands is the subset of the Redis client the cache uses
type RedisCommands interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisRouteCache stores routes as JSON with a native Redis expiry
type RedisRouteCache struct {
	client RedisCommands
}

// NewRedisRouteCache creates a Redis-backed route cache
func NewRedisRouteCache(client RedisCommands) repository.RouteCache {
	return &RedisRouteCache{client: client}
}

// Get retrieves a route. A missing key is a miss, not an error.
func (c *RedisRouteCache) Get(ctx context.Context, key string) (*entity.Route, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get from cache: %w", err)
	}

	var route entity.Route
	if err := json.Unmarshal(data, &route); err != nil {
		return nil, fmt.Errorf("failed to decode cached route: %w", err)
	}
	return &route, nil
}

// Put stores a route with expiration
func (c *RedisRouteCache) Put(ctx context.Context, key string, route *entity.Route, ttl time.Duration) error {
	data, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("failed to encode route: %w", err)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in cache: %w", err)
	}
	return nil
}
