package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HealthStatus represents current status of external services. A nil field means the
// dependency is not configured in this process.
type HealthStatus struct {
	Store     string    `json:"store,omitempty"`
	Mongo     *bool     `json:"mongo,omitempty"`
	Redis     []bool    `json:"redis,omitempty"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Healthy is false when any configured dependency failed its last ping.
func (h HealthStatus) Healthy() bool {
	if h.Mongo != nil && !*h.Mongo {
		return false
	}
	for _, ok := range h.Redis {
		if !ok {
			return false
		}
	}
	return true
}

var (
	currentHealth = HealthStatus{}
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// CheckHealth pings every configured dependency once and stores the result.
func CheckHealth(ctx context.Context, redisClients []*redis.Client, mongoClient *mongo.Client) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	status := HealthStatus{CheckedAt: time.Now().UTC()}
	for _, client := range redisClients {
		status.Redis = append(status.Redis, client.Ping(ctx).Err() == nil)
	}
	if mongoClient != nil {
		ok := mongoClient.Ping(ctx, nil) == nil
		status.Mongo = &ok
		status.Store = "mongo"
	}

	mu.Lock()
	currentHealth = status
	mu.Unlock()
	return status
}

// ReportInMemoryStore records that the process runs on the in-memory store, which has
// nothing to ping.
func ReportInMemoryStore() {
	mu.Lock()
	currentHealth = HealthStatus{Store: "memory", CheckedAt: time.Now().UTC()}
	mu.Unlock()
}

// StartHealthMonitor performs periodic health checks until ctx is cancelled.
func StartHealthMonitor(ctx context.Context, interval time.Duration, redisClients []*redis.Client, mongoClient *mongo.Client, logger *zap.Logger) {
	CheckHealth(ctx, redisClients, mongoClient)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if s := CheckHealth(ctx, redisClients, mongoClient); !s.Healthy() {
					logger.Warn("Dependency health check failed", zap.Any("status", s))
				}
			}
		}
	}()
}
