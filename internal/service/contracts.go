package service

import (
	"context"

	"github.com/rajaryan190/world-map/internal/domain/entities"
)

type LandmarkRepository interface {
	GetAll(ctx context.Context) ([]entities.Landmark, error)
}

// ResultRepository persists finished games and per-player aggregates.
type ResultRepository interface {
	Save(ctx context.Context, r *entities.GameResult) error
	Stats(ctx context.Context, playerID string) (*entities.PlayerStats, error)
	Top(ctx context.Context, limit int) ([]entities.LeaderboardEntry, error)
}

// LeaderboardCache is a fast best-score ranking kept next to the result repository.
type LeaderboardCache interface {
	Submit(ctx context.Context, playerID, playerName string, score int) error
	Top(ctx context.Context, n int) ([]entities.LeaderboardEntry, error)
}

// ResultRecorder receives every finished game.
type ResultRecorder interface {
	Record(ctx context.Context, r *entities.GameResult) error
}
