package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rajaryan190/world-map/internal/domain/entities"
)

const (
	DefaultLeaderboardSize = 10
	MaxLeaderboardSize     = 100
)

// LeaderboardService handles result recording and ranking (cache with repository fallback).
type LeaderboardService struct {
	results ResultRepository
	cache   LeaderboardCache
	log     *zap.Logger
}

// NewLeaderboardService creates a new leaderboard service. cache may be nil.
func NewLeaderboardService(results ResultRepository, cache LeaderboardCache, log *zap.Logger) *LeaderboardService {
	return &LeaderboardService{
		results: results,
		cache:   cache,
		log:     log,
	}
}

// Record persists a finished game and pushes the score to the cache.
// A cache failure is logged, not returned.
func (s *LeaderboardService) Record(ctx context.Context, r *entities.GameResult) error {
	if err := s.results.Save(ctx, r); err != nil {
		return fmt.Errorf("save result: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Submit(ctx, r.PlayerID, r.PlayerName, r.Score); err != nil {
			s.log.Warn("failed to update leaderboard cache",
				zap.String("player_id", r.PlayerID),
				zap.Error(err),
			)
		}
	}

	return nil
}

// Top returns the best players from the cache; fallback to the repository.
func (s *LeaderboardService) Top(ctx context.Context, limit int) ([]entities.LeaderboardEntry, error) {
	limit = clampLimit(limit)

	if s.cache != nil {
		entries, err := s.cache.Top(ctx, limit)
		if err == nil && len(entries) > 0 {
			return entries, nil
		}
		if err != nil {
			s.log.Warn("leaderboard cache unavailable, reading repository", zap.Error(err))
		}
	}

	entries, err := s.results.Top(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	return entries, nil
}

// Stats returns the aggregate of one player's games.
func (s *LeaderboardService) Stats(ctx context.Context, playerID string) (*entities.PlayerStats, error) {
	return s.results.Stats(ctx, playerID)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLeaderboardSize
	}
	if limit > MaxLeaderboardSize {
		return MaxLeaderboardSize
	}
	return limit
}
