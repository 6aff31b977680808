package session

import (
	"context"
	"errors"
	"time"

	"lottery-forum/internal/core/cache"
)

// RedisSlots stores each session slot as a redis string under "session:<key>".
// TTL 0 keeps slots until logout.
type RedisSlots struct {
	Cache *cache.Cache
	TTL   time.Duration
}

func (r RedisSlots) Slot(key string) Slot { return redisSlot{r: r, key: "session:" + key} }

type redisSlot struct {
	r   RedisSlots
	key string
}

func (s redisSlot) Load(ctx context.Context) ([]byte, error) {
	b, err := s.r.Cache.Get(ctx, s.key)
	if errors.Is(err, cache.ErrMiss) {
		return nil, ErrEmpty
	}
	return b, err
}

func (s redisSlot) Save(ctx context.Context, b []byte) error {
	return s.r.Cache.Set(ctx, s.key, b, s.r.TTL)
}

func (s redisSlot) Remove(ctx context.Context) error { return s.r.Cache.Del(ctx, s.key) }
