package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// ErrMiss is returned by Get when the key does not exist.
var ErrMiss = errors.New("cache miss")

type Cache struct {
	RDB    *redis.Client
	Prefix string
	sf     singleflight.Group
}

func New(addr, pass string, db int) *Cache {
	return &Cache{
		RDB: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
	}
}

func (c *Cache) key(k string) string { return c.Prefix + k }

func (c *Cache) Ping(ctx context.Context) error { return c.RDB.Ping(ctx).Err() }

func (c *Cache) Close() error { return c.RDB.Close() }

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.RDB.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return b, err
}

// Set stores b under key; ttl 0 keeps it until deleted.
func (c *Cache) Set(ctx context.Context, key string, b []byte, ttl time.Duration) error {
	return c.RDB.Set(ctx, c.key(key), b, ttl).Err()
}

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	return c.RDB.Del(ctx, full...).Err()
}

// Incr bumps the counter at key and returns its new value.
func (c *Cache) Incr(ctx context.Context, key string) (int64, error) {
	return c.RDB.Incr(ctx, c.key(key)).Result()
}

// Counter reads the counter at key; a missing key reads as 0.
func (c *Cache) Counter(ctx context.Context, key string) (int64, error) {
	n, err := c.RDB.Get(ctx, c.key(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if b, err := c.Get(ctx, key); err == nil {
		return b, nil
	}
	// concurrent misses on one key share a single load
	v, err, _ := c.sf.Do(key, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		_ = c.Set(ctx, key, b, ttl)
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}
