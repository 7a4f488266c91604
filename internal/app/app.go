// Package app wires the game services shared by the bot and the API server.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rajaryan190/world-map/internal/config"
	"github.com/rajaryan190/world-map/internal/geo"
	"github.com/rajaryan190/world-map/internal/infra/postgres"
	pgrepo "github.com/rajaryan190/world-map/internal/infra/postgres/repository"
	"github.com/rajaryan190/world-map/internal/infra/redis"
	"github.com/rajaryan190/world-map/internal/infra/sqlite"
	"github.com/rajaryan190/world-map/internal/repository"
	"github.com/rajaryan190/world-map/internal/service"
	"github.com/rajaryan190/world-map/internal/storage"
)

// App holds the long-lived services. Close releases the stores behind them.
type App struct {
	Games       *service.GameService
	Leaderboard *service.LeaderboardService
	Atlas       *geo.Atlas

	closers []func()
}

// New loads the landmark dataset and the map, opens the configured result store
// and the optional Redis cache, and builds the game services.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{}

	landmarks, err := repository.NewLandmarkRepository(cfg.LandmarksPath)
	if err != nil {
		return nil, fmt.Errorf("load landmarks: %w", err)
	}
	logger.Info("landmarks loaded", zap.Int("count", landmarks.Len()))

	atlas, err := geo.LoadAtlas(cfg.Map.GeoJSONPath)
	if err != nil {
		return nil, fmt.Errorf("load map: %w", err)
	}
	a.Atlas = atlas
	logger.Info("map loaded", zap.Int("countries", atlas.Len()))

	results, err := a.openResults(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	var cache service.LeaderboardCache
	if cfg.Redis.Enabled() {
		client, err := redis.NewClient(ctx, redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		cache = redis.NewLeaderboard(client, cfg.Redis.Key)
		logger.Info("leaderboard cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	a.Leaderboard = service.NewLeaderboardService(results, cache, logger)

	a.Games, err = service.NewGameService(landmarks, atlas, cfg.Game.QuizConfig(), a.Leaderboard, logger,
		service.WithSeed(cfg.Game.Seed),
		service.WithIdleTTL(cfg.Sessions.IdleTTL),
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("game service: %w", err)
	}

	return a, nil
}

func (a *App) openResults(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.ResultRepository, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, err
		}
		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		a.closers = append(a.closers, pool.Close)

		if err := postgres.Migrate(ctx, pool); err != nil {
			return nil, fmt.Errorf("postgres migrate: %w", err)
		}
		logger.Info("results stored in postgres")
		return pgrepo.NewResultStore(pool), nil

	case config.DriverSQLite:
		store, err := sqlite.NewResultStore(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		a.closers = append(a.closers, func() { _ = store.Close() })
		logger.Info("results stored in sqlite", zap.String("path", cfg.Storage.SQLitePath))
		return store, nil
	}

	logger.Info("results kept in memory")
	return storage.NewMemoryResults(), nil
}

// StartSweeper runs the idle-session eviction job until ctx is done.
func (a *App) StartSweeper(ctx context.Context, spec string, logger *zap.Logger) {
	go func() {
		if err := a.Games.StartSweeper(ctx, spec); err != nil {
			logger.Error("session sweeper failed", zap.Error(err))
		}
	}()
}

// Close waits for pending result writes, then releases stores in reverse order of opening.
func (a *App) Close() {
	if a.Games != nil {
		a.Games.Wait()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
