package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/rajaryan190/world-map/internal/domain/entities"
	"github.com/rajaryan190/world-map/internal/storage"
)

type fakeCache struct {
	submitted map[string]int
	top       []entities.LeaderboardEntry
	err       error
}

func (c *fakeCache) Submit(_ context.Context, playerID, _ string, score int) error {
	if c.err != nil {
		return c.err
	}
	if c.submitted == nil {
		c.submitted = make(map[string]int)
	}
	c.submitted[playerID] = max(c.submitted[playerID], score)
	return nil
}

func (c *fakeCache) Top(_ context.Context, n int) ([]entities.LeaderboardEntry, error) {
	if c.err != nil {
		return nil, c.err
	}
	if len(c.top) > n {
		return c.top[:n], nil
	}
	return c.top, nil
}

func result(player string, score int) *entities.GameResult {
	return &entities.GameResult{ID: player + "-game", PlayerID: player, PlayerName: player, Score: score}
}

func TestLeaderboardService_Record(t *testing.T) {
	ctx := context.Background()
	results := storage.NewMemoryResults()
	cache := &fakeCache{}
	svc := NewLeaderboardService(results, cache, zap.NewNop())

	assert.NilError(t, svc.Record(ctx, result("ann", 7)))
	assert.NilError(t, svc.Record(ctx, result("ann", 3)))

	assert.Equal(t, cache.submitted["ann"], 7)

	stats, err := svc.Stats(ctx, "ann")
	assert.NilError(t, err)
	assert.Equal(t, stats.GamesPlayed, 2)
	assert.Equal(t, stats.TotalScore, 10)
}

func TestLeaderboardService_RecordIgnoresCacheFailure(t *testing.T) {
	ctx := context.Background()
	results := storage.NewMemoryResults()
	svc := NewLeaderboardService(results, &fakeCache{err: errors.New("connection refused")}, zap.NewNop())

	assert.NilError(t, svc.Record(ctx, result("bob", 4)))

	stats, err := results.Stats(ctx, "bob")
	assert.NilError(t, err)
	assert.Equal(t, stats.BestScore, 4)
}

func TestLeaderboardService_Top(t *testing.T) {
	ctx := context.Background()

	cached := []entities.LeaderboardEntry{{Rank: 1, PlayerID: "cached", BestScore: 99}}

	tests := []struct {
		name  string
		cache LeaderboardCache
		want  string
	}{
		{name: "cache hit", cache: &fakeCache{top: cached}, want: "cached"},
		{name: "cache error falls back", cache: &fakeCache{err: errors.New("down")}, want: "ann"},
		{name: "empty cache falls back", cache: &fakeCache{}, want: "ann"},
		{name: "no cache", cache: nil, want: "ann"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := storage.NewMemoryResults()
			assert.NilError(t, results.Save(ctx, result("ann", 5)))

			svc := NewLeaderboardService(results, tt.cache, zap.NewNop())
			top, err := svc.Top(ctx, 0)
			assert.NilError(t, err)
			assert.Assert(t, is.Len(top, 1))
			assert.Equal(t, top[0].PlayerID, tt.want)
		})
	}
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, clampLimit(0), DefaultLeaderboardSize)
	assert.Equal(t, clampLimit(-3), DefaultLeaderboardSize)
	assert.Equal(t, clampLimit(25), 25)
	assert.Equal(t, clampLimit(1000), MaxLeaderboardSize)
}
