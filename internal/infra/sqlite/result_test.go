package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"gotest.tools/v3/assert"

	"github.com/rajaryan190/world-map/internal/domain/entities"
	"github.com/rajaryan190/world-map/internal/repository"
)

func newTestStore(t *testing.T) *ResultStore {
	t.Helper()
	s, err := NewResultStore(filepath.Join(t.TempDir(), "db", "results.db"))
	assert.NilError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func result(player, name string, score int, at time.Time) *entities.GameResult {
	return &entities.GameResult{
		ID:           uuid.NewString(),
		PlayerID:     player,
		PlayerName:   name,
		Score:        score,
		LevelReached: 1,
		LevelName:    "Level 1",
		Answered:     score,
		FinishedAt:   at,
	}
}

func TestResultStore_SaveAndStats(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	_, err := s.Stats(ctx, "p1")
	assert.Assert(t, errors.Is(err, repository.ErrPlayerNotFound))

	assert.NilError(t, s.Save(ctx, result("p1", "Ann", 4, base)))
	assert.NilError(t, s.Save(ctx, result("p1", "", 11, base.Add(time.Minute))))
	assert.NilError(t, s.Save(ctx, result("p1", "Annie", 2, base.Add(2*time.Minute))))

	st, err := s.Stats(ctx, "p1")
	assert.NilError(t, err)
	assert.DeepEqual(t, st, &entities.PlayerStats{
		PlayerID:    "p1",
		PlayerName:  "Annie",
		GamesPlayed: 3,
		TotalScore:  17,
		BestScore:   11,
	})
}

func TestResultStore_Top(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.NilError(t, s.Save(ctx, result("a", "Ann", 7, base)))
	assert.NilError(t, s.Save(ctx, result("b", "Bob", 9, base.Add(time.Second))))
	assert.NilError(t, s.Save(ctx, result("c", "Cid", 7, base.Add(-time.Second))))
	assert.NilError(t, s.Save(ctx, result("d", "Dee", 1, base)))

	top, err := s.Top(ctx, 3)
	assert.NilError(t, err)
	assert.DeepEqual(t, top, []entities.LeaderboardEntry{
		{Rank: 1, PlayerID: "b", PlayerName: "Bob", BestScore: 9},
		{Rank: 2, PlayerID: "c", PlayerName: "Cid", BestScore: 7},
		{Rank: 3, PlayerID: "a", PlayerName: "Ann", BestScore: 7},
	})
}

func TestResultStore_DuplicateIDRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	r := result("p", "Pat", 3, time.Now())
	assert.NilError(t, s.Save(ctx, r))
	assert.ErrorContains(t, s.Save(ctx, r), "insert game result")

	st, err := s.Stats(ctx, "p")
	assert.NilError(t, err)
	assert.Equal(t, st.GamesPlayed, 1)
}

func TestIsBusy(t *testing.T) {
	assert.Assert(t, !IsBusy(nil))
	assert.Assert(t, IsBusy(errors.New("database is locked (5) (SQLITE_BUSY)")))
	assert.Assert(t, !IsBusy(errors.New("no such table")))
}
