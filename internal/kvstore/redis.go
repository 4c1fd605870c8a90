package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "pharmacert:"
	redisTimeout   = 3 * time.Second
)

// Redis implements Backend on a Redis server so that several machines can
// share one audit log. Concurrent writers overwrite each other.
type Redis struct {
	client  *redis.Client
	timeout time.Duration
}

// NewRedis connects lazily to the Redis server at addr.
func NewRedis(addr string) *Redis {
	return NewRedisWithOptions(&redis.Options{
		Addr:        addr,
		DialTimeout: redisTimeout,
		ReadTimeout: redisTimeout,
	})
}

// NewRedisWithOptions builds a backend from explicit client options.
func NewRedisWithOptions(opts *redis.Options) *Redis {
	return &Redis{client: redis.NewClient(opts), timeout: redisTimeout}
}

func (r *Redis) Get(key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	value, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kvstore: redis get %s: %w", key, err)
	}
	return value, nil
}

func (r *Redis) Set(key string, value []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.client.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("kvstore: redis set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
