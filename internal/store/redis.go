package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisStore implements Store on a redis client with a per-record TTL that is
// refreshed on read.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	// Refresh TTL on read
	_ = s.client.Expire(ctx, key, s.ttl).Err()

	return value, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value, s.ttl).Err()
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
