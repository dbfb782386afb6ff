package rankingRepo

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const defaultLeaderboardKey = "quality:leaderboard"

// Entry is one caregiver's position on the leaderboard.
type Entry struct {
	CaregiverID  string  `json:"caregiverId"`
	QualityScore float64 `json:"qualityScore"`
}

// Ranking keeps the latest quality score per caregiver for ordered reads.
type Ranking interface {
	Record(ctx context.Context, caregiverID string, score float64) error
	Top(ctx context.Context, n int) ([]Entry, error)
}

// RedisRanking stores scores in a sorted set; ZADD overwrites, so only the latest score survives.
type RedisRanking struct {
	client *redis.Client
	key    string
}

func NewRedisRanking(client *redis.Client) *RedisRanking {
	return &RedisRanking{client: client, key: defaultLeaderboardKey}
}

func (r *RedisRanking) Record(ctx context.Context, caregiverID string, score float64) error {
	if err := r.client.ZAdd(ctx, r.key, &redis.Z{Score: score, Member: caregiverID}).Err(); err != nil {
		return fmt.Errorf("failed to record score for %s: %w", caregiverID, err)
	}
	return nil
}

func (r *RedisRanking) Top(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	zs, err := r.client.ZRevRangeWithScores(ctx, r.key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}
	out := make([]Entry, 0, len(zs))
	for _, z := range zs {
		id, _ := z.Member.(string)
		out = append(out, Entry{CaregiverID: id, QualityScore: z.Score})
	}
	return out, nil
}
