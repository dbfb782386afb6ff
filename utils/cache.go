package utils

import (
	"context"
	"fmt"
	"time"

	"caretrust/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient backs the quality leaderboard and the Redis sequence counter.
	CacheClient *redis.Client
	// QueueClient points at the asynq database and is only pinged for health.
	QueueClient *redis.Client
)

func newRedisClient(db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis (db %d): %w", db, err)
	}
	return client, nil
}

// InitCache connects the cache and queue clients.
func InitCache() error {
	cache, err := newRedisClient(config.AppConfig.RedisCacheDB)
	if err != nil {
		return err
	}
	queue, err := newRedisClient(config.AppConfig.RedisQueueDB)
	if err != nil {
		cache.Close()
		return err
	}
	CacheClient, QueueClient = cache, queue
	return nil
}

// CloseCache releases both clients.
func CloseCache() {
	for _, c := range []*redis.Client{CacheClient, QueueClient} {
		if c != nil {
			c.Close()
		}
	}
}
