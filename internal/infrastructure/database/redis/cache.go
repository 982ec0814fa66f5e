package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
)

var (
	ErrCacheMiss           = errors.New(errors.ErrCodeNotFound, "cache miss")
	ErrSerializationFailed = errors.New(errors.ErrCodeSerialization, "cache serialization failed")
)

// Cache is a JSON value cache keyed under the client prefix.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)
	Ping(ctx context.Context) error
}

// CacheObserver is told about hits and misses.
type CacheObserver interface {
	RecordCacheHit(cache string)
	RecordCacheMiss(cache string)
}

type redisCache struct {
	client   *Client
	logger   logging.Logger
	name     string
	observer CacheObserver
	jitter   bool
	group    singleflight.Group
}

// CacheOption configures NewRedisCache.
type CacheOption func(*redisCache)

// WithCacheName labels hit/miss observations.
func WithCacheName(name string) CacheOption {
	return func(c *redisCache) { c.name = name }
}

// WithCacheObserver reports hits and misses to o.
func WithCacheObserver(o CacheObserver) CacheOption {
	return func(c *redisCache) { c.observer = o }
}

// WithoutJitter keeps TTLs exact. Used by tests that assert on TTLs.
func WithoutJitter() CacheOption {
	return func(c *redisCache) { c.jitter = false }
}

// NewRedisCache builds a Cache over client.
func NewRedisCache(client *Client, log logging.Logger, opts ...CacheOption) Cache {
	c := &redisCache{client: client, logger: log, name: "default", jitter: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *redisCache) fullKey(key string) string {
	return c.client.Prefix() + key
}

// ttlFor applies the default and a +/-10% jitter so entries written together
// do not expire together.
func (c *redisCache) ttlFor(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		ttl = c.client.DefaultTTL()
	}
	if !c.jitter {
		return ttl
	}
	return ttl + time.Duration(float64(ttl)*0.1*(rand.Float64()*2-1))
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, c.fullKey(key)).Bytes()
	if err == redis.Nil {
		c.observeMiss()
		return ErrCacheMiss
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache get failed")
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return ErrSerializationFailed.WithCause(err).WithDetail("key=" + key)
	}
	c.observeHit()
	return nil
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return ErrSerializationFailed.WithCause(err).WithDetail("key=" + key)
	}
	if err := c.client.Set(ctx, c.fullKey(key), data, c.ttlFor(ttl)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache set failed")
	}
	return nil
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.fullKey(k)
	}
	if err := c.client.Del(ctx, full...).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache delete failed")
	}
	return nil
}

// GetOrSet reads key into dest; on a miss it calls loader once per key
// across concurrent callers and stores the result. A failed store is logged
// and the loaded value is still returned.
func (c *redisCache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error {
	err := c.Get(ctx, key, dest)
	if err == nil {
		return nil
	}
	if err != ErrCacheMiss {
		c.logger.Warn("cache read failed, loading directly", logging.String("key", key), logging.Err(err))
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		val, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		if setErr := c.Set(ctx, key, val, ttl); setErr != nil {
			c.logger.Warn("cache store failed", logging.String("key", key), logging.Err(setErr))
		}
		return val, nil
	})
	if err != nil {
		return err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return ErrSerializationFailed.WithCause(err).WithDetail("key=" + key)
	}
	return json.Unmarshal(data, dest)
}

func (c *redisCache) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	var (
		deleted int64
		cursor  uint64
	)
	match := c.fullKey(prefix) + "*"
	for {
		keys, next, err := c.client.Scan(ctx, cursor, match, 100).Result()
		if err != nil {
			return deleted, errors.Wrap(err, errors.ErrCodeCacheError, "cache scan failed")
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, errors.Wrap(err, errors.ErrCodeCacheError, "cache delete failed")
			}
			deleted += n
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

func (c *redisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx)
}

func (c *redisCache) observeHit() {
	if c.observer != nil {
		c.observer.RecordCacheHit(c.name)
	}
}

func (c *redisCache) observeMiss() {
	if c.observer != nil {
		c.observer.RecordCacheMiss(c.name)
	}
}

//Personal.AI order the ending
