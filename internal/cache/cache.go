package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	catalogPrefix = "sitrus:catalog:"

	// Bumped on every invalidation, kept outside the entry prefix
	generationKey = "sitrus:catalog-generation"
)

// setIfCurrent writes an entry only while the generation it was built
// under is still current.
var setIfCurrent = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if not current then current = '0' end
if current ~= ARGV[1] then return 0 end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[2], ARGV[2])
end
return 1
`)

// Cache stores rendered catalog views between property writes.
//
// Readers take the Generation before loading data and pass it to SetJSON,
// so a view built before an invalidation is never stored after it.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	Generation(ctx context.Context) (int64, error)
	SetJSON(ctx context.Context, key string, value interface{}, generation int64) (bool, error)
	Invalidate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// RedisCache keeps entries in Redis with a fixed TTL
type RedisCache struct {
	Client *redis.Client
	ttl    time.Duration
}

// Options mirrors the cache section of the server config
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedis creates a Redis backed cache
func NewRedis(opts Options) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})
	return &RedisCache{Client: rdb, ttl: opts.TTL}
}

// Ping tests the Redis connection
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}

// GetJSON decodes the entry for key into dest. It reports false on a miss.
func (c *RedisCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.Client.Get(ctx, catalogPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return true, nil
}

// Generation returns the current invalidation counter
func (c *RedisCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.Client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read cache generation: %w", err)
	}
	return gen, nil
}

// SetJSON stores value under key unless the cache was invalidated since
// generation was read. It reports whether the entry was written.
func (c *RedisCache) SetJSON(ctx context.Context, key string, value interface{}, generation int64) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("failed to encode cache entry: %w", err)
	}

	keys := []string{generationKey, catalogPrefix + key}
	written, err := setIfCurrent.Run(ctx, c.Client, keys,
		strconv.FormatInt(generation, 10), data, c.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("failed to write cache entry: %w", err)
	}
	return written == 1, nil
}

// Invalidate bumps the generation and drops every catalog entry
func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.Client.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("failed to bump cache generation: %w", err)
	}

	iter := c.Client.Scan(ctx, 0, catalogPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache entries: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.Client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache entries: %w", err)
	}
	return nil
}

// Nop is used when no Redis address is configured; every read misses
type Nop struct{}

func (Nop) GetJSON(context.Context, string, interface{}) (bool, error) { return false, nil }
func (Nop) Generation(context.Context) (int64, error) { return 0, nil }
func (Nop) SetJSON(context.Context, string, interface{}, int64) (bool, error) { return false, nil }
func (Nop) Invalidate(context.Context) error { return nil }
func (Nop) Ping(context.Context) error { return nil }
func (Nop) Close() error { return nil }
