package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fieldops-backend/internal/models"

	redis "github.com/redis/go-redis/v9"
)

// RedisCache is a Cache backed by redis so geocode results survive restarts
// and are shared across instances.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (r *RedisCache) key(address string) string {
	return "geocode:" + address
}

func (r *RedisCache) Get(ctx context.Context, address string) (models.Coordinates, bool, error) {
	val, err := r.rdb.Get(ctx, r.key(address)).Result()
	if errors.Is(err, redis.Nil) {
		return models.Coordinates{}, false, nil
	}
	if err != nil {
		return models.Coordinates{}, false, fmt.Errorf("geocoding.RedisCache.Get: %w", err)
	}

	var coords models.Coordinates
	if err := json.Unmarshal([]byte(val), &coords); err != nil {
		// Treat a corrupt entry as a miss; the next Put overwrites it.
		return models.Coordinates{}, false, nil
	}
	return coords, true, nil
}

func (r *RedisCache) Put(ctx context.Context, address string, coords models.Coordinates) error {
	data, err := json.Marshal(coords)
	if err != nil {
		return fmt.Errorf("geocoding.RedisCache.Put marshal: %w", err)
	}
	if err := r.rdb.Set(ctx, r.key(address), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("geocoding.RedisCache.Put: %w", err)
	}
	return nil
}
