package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"quizlive/internal/model"
)

const (
	leaderboardKey         = "quiz:lb"
	leaderboardSnapshotKey = "quiz:lb:snapshot"
)

// LeaderboardCache mirrors the computed standings into Redis: a ZSET for rank
// lookups plus a JSON snapshot for cheap full reads. The cache is a
// projection only; the aggregator recomputes the truth from answer events.
type LeaderboardCache interface {
	Sync(ctx context.Context, lb model.Leaderboard) error
	Snapshot(ctx context.Context) (*model.Leaderboard, error)
	Rank(ctx context.Context, participantID string) (int64, error)
	Clear(ctx context.Context) error
}

type leaderboardCache struct {
	client *redis.Client
}

// NewLeaderboardCache creates a new leaderboard cache.
func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{client: client}
}

func (c *leaderboardCache) Sync(ctx context.Context, lb model.Leaderboard) error {
	data, err := json.Marshal(lb)
	if err != nil {
		return err
	}
	pipe := c.client.Pipeline()
	// Full rewrite each sync: standings are recomputed from scratch, so a
	// participant can only disappear via a reset, never via drift.
	pipe.Del(ctx, leaderboardKey)
	for _, s := range lb.Standings {
		pipe.ZAdd(ctx, leaderboardKey, redis.Z{Score: s.Points, Member: s.ParticipantID})
	}
	pipe.Set(ctx, leaderboardSnapshotKey, data, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("sync leaderboard: %w", err)
	}
	return nil
}

func (c *leaderboardCache) Snapshot(ctx context.Context) (*model.Leaderboard, error) {
	data, err := c.client.Get(ctx, leaderboardSnapshotKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var lb model.Leaderboard
	if err := json.Unmarshal([]byte(data), &lb); err != nil {
		return nil, err
	}
	return &lb, nil
}

func (c *leaderboardCache) Rank(ctx context.Context, participantID string) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, leaderboardKey, participantID).Result()
	if err == redis.Nil {
		return -1, nil
	}
	if err != nil {
		return 0, err
	}
	return rank + 1, nil // 1-indexed
}

func (c *leaderboardCache) Clear(ctx context.Context) error {
	return c.client.Del(ctx, leaderboardKey, leaderboardSnapshotKey).Err()
}
