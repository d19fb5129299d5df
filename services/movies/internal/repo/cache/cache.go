package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/AmirAliEidivandi/movie/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces every catalog cache entry so a schema change can be
// rolled out by bumping the version segment.
const KeyPrefix = "movies_api_v1_"

// Cache is a read-through JSON cache on Redis. Redis failures are never
// surfaced to callers: a failed read is a miss and a failed write is dropped,
// so the catalog keeps working without the cache.
type Cache struct {
	client *redis.Client
	logger *logger.Logger
}

func New(client *redis.Client, log *logger.Logger) *Cache {
	return &Cache{client: client, logger: log}
}

// Get unmarshals the cached value for key into dest and reports whether the
// key was present.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	data, err := c.client.Get(ctx, KeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Cache read failed for %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn("Cache entry corrupt for %s: %v", key, err)
		return false
	}
	return true
}

func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("Cache marshal failed for %s: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, KeyPrefix+key, data, ttl).Err(); err != nil {
		c.logger.Warn("Cache write failed for %s: %v", key, err)
	}
}
