package counterRepo

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisSequenceStore keeps counters as plain Redis integers (SETNX + INCR).
type RedisSequenceStore struct {
	client *redis.Client
	prefix string
}

func NewRedisSequenceStore(client *redis.Client) *RedisSequenceStore {
	return &RedisSequenceStore{client: client, prefix: "seq:"}
}

func (s *RedisSequenceStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.prefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check counter %s: %w", key, err)
	}
	return n > 0, nil
}

func (s *RedisSequenceStore) SeedIfAbsent(ctx context.Context, key string, value int64) error {
	if err := s.client.SetNX(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to seed counter %s: %w", key, err)
	}
	return nil
}

func (s *RedisSequenceStore) Increment(ctx context.Context, key string) (int64, error) {
	v, err := s.client.Incr(ctx, s.prefix+key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment counter %s: %w", key, err)
	}
	return v, nil
}
