package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rajaryan190/world-map/internal/domain/entities"
	"github.com/rajaryan190/world-map/internal/infra/postgres"
)

// ResultStore persists finished games in Postgres. Saving writes the game row and
// the player's stats in one transaction.
type ResultStore struct {
	tr   *postgres.Transactor
	repo *ResultRepository
}

func NewResultStore(pool *pgxpool.Pool) *ResultStore {
	return &ResultStore{
		tr:   postgres.NewTransactor(pool),
		repo: NewResultRepository(pool),
	}
}

func (s *ResultStore) Save(ctx context.Context, res *entities.GameResult) error {
	return s.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		repo := NewResultRepository(tx)

		if err := repo.Insert(ctx, res); err != nil {
			return err
		}
		if err := repo.UpsertStats(ctx, res); err != nil {
			return err
		}

		return nil
	})
}

func (s *ResultStore) Stats(ctx context.Context, playerID string) (*entities.PlayerStats, error) {
	return s.repo.Stats(ctx, playerID)
}

func (s *ResultStore) Top(ctx context.Context, limit int) ([]entities.LeaderboardEntry, error) {
	return s.repo.Top(ctx, limit)
}
