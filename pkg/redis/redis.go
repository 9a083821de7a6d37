package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ikkim/license-backend/config"
	"github.com/ikkim/license-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection")
		return client.Close()
	}
	return nil
}

// JSONCache stores JSON encoded values under "<prefix>:<id>" with a fixed TTL.
// Redis failures are logged and treated as cache misses.
type JSONCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewJSONCache(client *redis.Client, prefix string, ttl time.Duration) *JSONCache {
	return &JSONCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *JSONCache) key(id string) string {
	return fmt.Sprintf("%s:%s", c.prefix, id)
}

// Get decodes the entry for id into v and reports whether it was found.
func (c *JSONCache) Get(ctx context.Context, id string, v interface{}) bool {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		logger.Error("Failed to read from cache", err, map[string]interface{}{
			"key": c.key(id),
		})
		return false
	}

	if err := json.Unmarshal(data, v); err != nil {
		logger.Warn("Discarding undecodable cache entry", map[string]interface{}{
			"key":   c.key(id),
			"error": err.Error(),
		})
		c.Invalidate(ctx, id)
		return false
	}
	return true
}

func (c *JSONCache) Set(ctx context.Context, id string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error("Failed to encode value for cache", err, map[string]interface{}{
			"key": c.key(id),
		})
		return
	}
	if err := c.client.Set(ctx, c.key(id), data, c.ttl).Err(); err != nil {
		logger.Error("Failed to write to cache", err, map[string]interface{}{
			"key": c.key(id),
		})
	}
}

func (c *JSONCache) Invalidate(ctx context.Context, id string) {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		logger.Error("Failed to invalidate cache entry", err, map[string]interface{}{
			"key": c.key(id),
		})
	}
}
