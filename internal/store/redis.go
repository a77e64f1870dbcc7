package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/spotsearch/internal/shared"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "spotsearch:"

// RedisStore implements [Store] on a Redis server. Keys are namespaced with "spotsearch:".
type RedisStore struct {
	client  *redis.Client
	timeout time.Duration
}

// NewRedisStore connects to the server described by a redis:// URL and pings it.
func NewRedisStore(rawURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid redis_url: %v", shared.ErrInvalidConfig, err)
	}

	s := &RedisStore{client: redis.NewClient(opts), timeout: 5 * time.Second}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.client.Ping(ctx).Err(); err != nil {
		s.client.Close()
		return nil, fmt.Errorf("%w: redis ping failed: %v", shared.ErrStorage, err)
	}

	return s, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	value, err := s.client.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: failed to read %s: %v", shared.ErrStorage, key, err)
	}
	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.client.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", shared.ErrStorage, key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("%w: failed to delete %s: %v", shared.ErrStorage, key, err)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.client.Close() }
