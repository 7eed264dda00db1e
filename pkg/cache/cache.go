package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache TTLs
const (
	TTLDirectory = 2 * time.Minute // user directory (grows slowly)
	TTLDefault   = 5 * time.Minute
)

// Cache key prefixes
const (
	PrefixDirectory = "directory:"
	PrefixUser      = "user:"
)

// Service is a Redis-backed cache for read-mostly documents
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	// User directory cache
	GetDirectory(ctx context.Context, dest interface{}) error
	SetDirectory(ctx context.Context, data interface{}) error
	InvalidateDirectory(ctx context.Context) error

	IsAvailable() bool
}

type redisCache struct {
	client *redis.Client
}

// NewService creates a new cache service
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return fmt.Errorf("redis not available")
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil // no cache, best effort
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *redisCache) GetDirectory(ctx context.Context, dest interface{}) error {
	return c.Get(ctx, PrefixDirectory+"all", dest)
}

func (c *redisCache) SetDirectory(ctx context.Context, data interface{}) error {
	return c.Set(ctx, PrefixDirectory+"all", data, TTLDirectory)
}

func (c *redisCache) InvalidateDirectory(ctx context.Context) error {
	return c.Delete(ctx, PrefixDirectory+"all")
}
