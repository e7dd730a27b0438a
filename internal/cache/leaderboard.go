package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"hotornot/internal/models"
)

// Leaderboard keeps image ratings in a sorted set. The sorted set is a
// projection of the image store: the worker writes it, the API reads it,
// and a rebuild replaces it wholesale.
type Leaderboard struct {
	client *redis.Client
	key    string
	size   int
}

func NewLeaderboard(client *redis.Client, key string, size int) *Leaderboard {
	if size <= 0 {
		size = 100
	}
	return &Leaderboard{client: client, key: key, size: size}
}

// Record sets the score of each image and trims the set to its size.
func (l *Leaderboard) Record(ctx context.Context, ratings map[string]int) error {
	if len(ratings) == 0 {
		return nil
	}
	members := make([]redis.Z, 0, len(ratings))
	for id, score := range ratings {
		members = append(members, redis.Z{Score: float64(score), Member: id})
	}

	pipe := l.client.TxPipeline()
	pipe.ZAdd(ctx, l.key, members...)
	pipe.ZRemRangeByRank(ctx, l.key, 0, int64(-l.size-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record leaderboard scores: %w", err)
	}
	return nil
}

func (l *Leaderboard) Replace(ctx context.Context, images []models.Image) error {
	pipe := l.client.TxPipeline()
	pipe.Del(ctx, l.key)
	if len(images) > 0 {
		members := make([]redis.Z, 0, len(images))
		for _, img := range images {
			members = append(members, redis.Z{Score: float64(img.Rating), Member: img.ID})
		}
		pipe.ZAdd(ctx, l.key, members...)
		pipe.ZRemRangeByRank(ctx, l.key, 0, int64(-l.size-1))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("replace leaderboard: %w", err)
	}
	return nil
}

func (l *Leaderboard) TopIDs(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}
	ids, err := l.client.ZRevRange(ctx, l.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	return ids, nil
}
