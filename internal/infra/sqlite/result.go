// Package sqlite stores finished games in an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rajaryan190/world-map/internal/domain/entities"
	"github.com/rajaryan190/world-map/internal/repository"
)

// ResultStore implements result persistence using SQLite.
type ResultStore struct {
	db *sql.DB
	mu sync.Mutex // serialises writers to avoid SQLITE_BUSY
}

// NewResultStore opens (creating if needed) the database at path.
func NewResultStore(path string) (*ResultStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &ResultStore{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return s, nil
}

func (s *ResultStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS game_results (
		id TEXT PRIMARY KEY,
		player_id TEXT NOT NULL,
		player_name TEXT NOT NULL DEFAULT '',
		score INTEGER NOT NULL,
		level_reached INTEGER NOT NULL,
		level_name TEXT NOT NULL DEFAULT '',
		answered INTEGER NOT NULL,
		finished_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_game_results_player ON game_results(player_id);

	CREATE TABLE IF NOT EXISTS player_stats (
		player_id TEXT PRIMARY KEY,
		player_name TEXT NOT NULL DEFAULT '',
		games_played INTEGER NOT NULL DEFAULT 0,
		total_score INTEGER NOT NULL DEFAULT 0,
		best_score INTEGER NOT NULL DEFAULT 0,
		best_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_player_stats_best ON player_stats(best_score DESC, best_at ASC);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *ResultStore) Close() error {
	return s.db.Close()
}

const saveAttempts = 3

// Save records a finished game and updates the player's stats atomically. Lock
// contention from other processes is retried briefly.
func (s *ResultStore) Save(ctx context.Context, res *entities.GameResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	for attempt := 1; attempt <= saveAttempts; attempt++ {
		if err = s.save(ctx, res); !IsBusy(err) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 50 * time.Millisecond):
		}
	}
	return err
}

func (s *ResultStore) save(ctx context.Context, res *entities.GameResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	finished := res.FinishedAt.UnixMilli()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO game_results (id, player_id, player_name, score, level_reached, level_name, answered, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID, res.PlayerID, res.PlayerName, res.Score, res.LevelReached, res.LevelName, res.Answered, finished,
	)
	if err != nil {
		return fmt.Errorf("insert game result: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO player_stats (player_id, player_name, games_played, total_score, best_score, best_at, updated_at)
		VALUES (?, ?, 1, ?, ?, ?, ?)
		ON CONFLICT(player_id) DO UPDATE SET
			player_name = CASE WHEN excluded.player_name <> '' THEN excluded.player_name ELSE player_stats.player_name END,
			games_played = player_stats.games_played + 1,
			total_score = player_stats.total_score + excluded.total_score,
			best_at = CASE WHEN excluded.best_score > player_stats.best_score THEN excluded.best_at ELSE player_stats.best_at END,
			best_score = MAX(player_stats.best_score, excluded.best_score),
			updated_at = excluded.updated_at`,
		res.PlayerID, res.PlayerName, res.Score, res.Score, finished, finished,
	)
	if err != nil {
		return fmt.Errorf("upsert player stats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Stats retrieves the aggregate row of one player.
func (s *ResultStore) Stats(ctx context.Context, playerID string) (*entities.PlayerStats, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT player_id, player_name, games_played, total_score, best_score
		FROM player_stats WHERE player_id = ?`, playerID)

	var st entities.PlayerStats
	err := row.Scan(&st.PlayerID, &st.PlayerName, &st.GamesPlayed, &st.TotalScore, &st.BestScore)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan player stats: %w", err)
	}
	return &st, nil
}

// Top ranks players by best score; earlier bests win ties.
func (s *ResultStore) Top(ctx context.Context, limit int) ([]entities.LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT player_id, player_name, best_score
		FROM player_stats
		ORDER BY best_score DESC, best_at ASC
		LIMIT ?`, limit)
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

// IsBusy reports whether err is a SQLite lock contention error worth retrying.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
