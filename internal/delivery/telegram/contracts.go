package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/paulmach/orb"

	"github.com/rajaryan190/world-map/internal/domain/entities"
	"github.com/rajaryan190/world-map/internal/service"
	"github.com/rajaryan190/world-map/internal/storage"
)

// Bot is the part of the Telegram API the handler talks to.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

type GameService interface {
	Start(ctx context.Context, player service.Player) (entities.Snapshot, error)
	Guess(ctx context.Context, playerID, country string, clicked *orb.Point) (entities.Snapshot, error)
	GuessText(ctx context.Context, playerID, text string) (entities.Snapshot, error)
	GuessAt(ctx context.Context, playerID string, p orb.Point) (entities.Snapshot, error)
	Hint(ctx context.Context, playerID string) (entities.Snapshot, error)
	DismissHint(ctx context.Context, playerID string) (entities.Snapshot, error)
	Restart(ctx context.Context, playerID string) (entities.Snapshot, error)
	Snapshot(ctx context.Context, playerID string) (entities.Snapshot, error)
	End(ctx context.Context, playerID string) error
	Subscribe(playerID string, fn func(entities.Snapshot)) (func(), error)
	Options(playerID string, snap entities.Snapshot) []string
}

type LeaderboardService interface {
	Top(ctx context.Context, limit int) ([]entities.LeaderboardEntry, error)
	Stats(ctx context.Context, playerID string) (*entities.PlayerStats, error)
}

type MessageStorage interface {
	Get(chatID int64) (storage.BoardMessage, bool)
	Delete(chatID int64)
	UpsertAndGetPrev(chatID int64, messageID int, key string) (storage.BoardMessage, bool)
}
