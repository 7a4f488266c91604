// Package redis caches the best-score leaderboard in a Redis sorted set.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rajaryan190/world-map/internal/domain/entities"
)

const DefaultLeaderboardKey = "worldmap:leaderboard:best"

// Leaderboard handles Redis ZSet operations for the best-score leaderboard.
// Player display names live in a hash next to the set.
type Leaderboard struct {
	client   redis.UniversalClient
	key      string
	namesKey string
}

type Options struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, opts Options) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func NewLeaderboard(client redis.UniversalClient, key string) *Leaderboard {
	if key == "" {
		key = DefaultLeaderboardKey
	}
	return &Leaderboard{
		client:   client,
		key:      key,
		namesKey: key + ":names",
	}
}

// Submit records score for the player, keeping only the best one.
func (l *Leaderboard) Submit(ctx context.Context, playerID, playerName string, score int) error {
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		// GT only ever raises a member's score
		pipe.ZAddArgs(ctx, l.key, redis.ZAddArgs{
			GT:      true,
			Members: []redis.Z{{Score: float64(score), Member: playerID}},
		})
		if playerName != "" {
			pipe.HSet(ctx, l.namesKey, playerID, playerName)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("submit score: %w", err)
	}
	return nil
}

// Top returns the best n players, highest score first.
func (l *Leaderboard) Top(ctx context.Context, n int) ([]entities.LeaderboardEntry, error) {
	if n <= 0 {
		return nil, nil
	}

	results, err := l.client.ZRevRangeWithScores(ctx, l.key, 0, int64(n)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = fmt.Sprint(r.Member)
	}

	names, err := l.client.HMGet(ctx, l.namesKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("read leaderboard names: %w", err)
	}

	entries := make([]entities.LeaderboardEntry, len(results))
	for i, r := range results {
		entries[i] = entities.LeaderboardEntry{
			Rank:      i + 1,
			PlayerID:  ids[i],
			BestScore: int(r.Score),
		}
		if i < len(names) {
			if name, ok := names[i].(string); ok {
				entries[i].PlayerName = name
			}
		}
	}

	return entries, nil
}

// Rank returns the player's 1-based rank, or 0 if the player is not on the board.
func (l *Leaderboard) Rank(ctx context.Context, playerID string) (int, error) {
	rank, err := l.client.ZRevRank(ctx, l.key, playerID).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read rank: %w", err)
	}
	return int(rank) + 1, nil
}
