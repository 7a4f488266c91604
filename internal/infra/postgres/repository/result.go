package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rajaryan190/world-map/internal/domain/entities"
	"github.com/rajaryan190/world-map/internal/infra/postgres"
	shared "github.com/rajaryan190/world-map/internal/repository"
)

// ResultRepository provides access to finished games and per-player stats in the database.
type ResultRepository struct {
	db postgres.DBTX
}

// NewResultRepository creates a new ResultRepository with the provided database handle.
func NewResultRepository(db postgres.DBTX) *ResultRepository {
	return &ResultRepository{db: db}
}

// Insert stores a finished game.
func (r *ResultRepository) Insert(ctx context.Context, res *entities.GameResult) error {
	query := `
		INSERT INTO game_results (
			id, player_id, player_name, score, level_reached, level_name, answered, finished_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(
		ctx,
		query,
		res.ID,
		res.PlayerID,
		res.PlayerName,
		res.Score,
		res.LevelReached,
		res.LevelName,
		res.Answered,
		res.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert game result: %w", err)
	}

	return nil
}

// UpsertStats folds a finished game into the player's aggregate row.
func (r *ResultRepository) UpsertStats(ctx context.Context, res *entities.GameResult) error {
	query := `
		INSERT INTO player_stats (
			player_id, player_name, games_played, total_score, best_score, best_at, updated_at
		) VALUES ($1, $2, 1, $3, $3, $4, $4)
		ON CONFLICT (player_id) DO UPDATE SET
			player_name = CASE WHEN EXCLUDED.player_name <> '' THEN EXCLUDED.player_name ELSE player_stats.player_name END,
			games_played = player_stats.games_played + 1,
			total_score = player_stats.total_score + EXCLUDED.total_score,
			best_at = CASE WHEN EXCLUDED.best_score > player_stats.best_score THEN EXCLUDED.best_at ELSE player_stats.best_at END,
			best_score = GREATEST(player_stats.best_score, EXCLUDED.best_score),
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(ctx, query, res.PlayerID, res.PlayerName, res.Score, res.FinishedAt)
	if err != nil {
		return fmt.Errorf("upsert player stats: %w", err)
	}

	return nil
}

// Stats retrieves the aggregate row of one player.
func (r *ResultRepository) Stats(ctx context.Context, playerID string) (*entities.PlayerStats, error) {
	query := `
		SELECT player_id, player_name, games_played, total_score, best_score
		FROM player_stats
		WHERE player_id = $1
	`

	var st entities.PlayerStats
	err := r.db.QueryRow(ctx, query, playerID).Scan(
		&st.PlayerID,
		&st.PlayerName,
		&st.GamesPlayed,
		&st.TotalScore,
		&st.BestScore,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("get player stats: %w", err)
	}

	return &st, nil
}

// Top ranks players by best score; earlier bests win ties.
func (r *ResultRepository) Top(ctx context.Context, limit int) ([]entities.LeaderboardEntry, error) {
	query := `
		SELECT player_id, player_name, best_score
		FROM player_stats
		ORDER BY best_score DESC, best_at ASC NULLS LAST
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var out []entities.LeaderboardEntry
	for rows.Next() {
		e := entities.LeaderboardEntry{Rank: len(out) + 1}
		if err := rows.Scan(&e.PlayerID, &e.PlayerName, &e.BestScore); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
