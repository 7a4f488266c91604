package api

import (
	"context"

	"github.com/paulmach/orb"

	"github.com/rajaryan190/world-map/internal/domain/entities"
	"github.com/rajaryan190/world-map/internal/service"
)

type GameService interface {
	Start(ctx context.Context, player service.Player) (entities.Snapshot, error)
	Guess(ctx context.Context, playerID, country string, clicked *orb.Point) (entities.Snapshot, error)
	GuessAt(ctx context.Context, playerID string, p orb.Point) (entities.Snapshot, error)
	Hint(ctx context.Context, playerID string) (entities.Snapshot, error)
	DismissHint(ctx context.Context, playerID string) (entities.Snapshot, error)
	Restart(ctx context.Context, playerID string) (entities.Snapshot, error)
	Snapshot(ctx context.Context, playerID string) (entities.Snapshot, error)
	End(ctx context.Context, playerID string) error
	Subscribe(playerID string, fn func(entities.Snapshot)) (func(), error)
}

type LeaderboardService interface {
	Top(ctx context.Context, limit int) ([]entities.LeaderboardEntry, error)
	Stats(ctx context.Context, playerID string) (*entities.PlayerStats, error)
}

// MapIndex answers point-in-country questions for the map view.
type MapIndex interface {
	Locate(p orb.Point) (string, bool)
	Names() []string
}
