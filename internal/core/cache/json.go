package cache

import (
	"context"
	"encoding/json"
	"time"
)

// GetOrLoadJSON is GetOrLoad for JSON values. A cached value that no longer
// decodes into T is dropped and loaded again.
func GetOrLoadJSON[T any](
	c *Cache,
	ctx context.Context,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (*T, error),
) (*T, error) {
	encode := func(ctx context.Context) ([]byte, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	}
	b, err := c.GetOrLoad(ctx, key, ttl, encode)
	if err != nil {
		return nil, err
	}
	if out, err := decodeJSON[T](b); err == nil {
		return out, nil
	}

	_ = c.Del(ctx, key)
	if b, err = encode(ctx); err != nil {
		return nil, err
	}
	_ = c.Set(ctx, key, b, ttl)
	return decodeJSON[T](b)
}

func decodeJSON[T any](b []byte) (*T, error) {
	if string(b) == "null" {
		return nil, nil
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
