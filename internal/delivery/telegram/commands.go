package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"github.com/rajaryan190/world-map/internal/domain/entities"
	"github.com/rajaryan190/world-map/internal/repository"
	"github.com/rajaryan190/world-map/internal/service"
)

const topSize = 10

func (h *Handler) handleHelp() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.send(newMessage(chatID, WelcomeMarkdownV2()))
	}
}

func (h *Handler) handleUnknown() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.send(newMessage(chatID, md(msgUnknownCommand)))
	}
}

// handlePlay starts a new game in the chat, replacing any game in progress.
func (h *Handler) handlePlay(from *tgbotapi.User) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.startGame(ctx, chatID, from)
	}
}

func (h *Handler) startGame(ctx context.Context, chatID int64, from *tgbotapi.User) error {
	player := service.Player{ID: playerID(chatID), Name: displayName(from)}

	snap, err := h.games.Start(ctx, player)
	if err != nil {
		if errors.Is(err, repository.ErrEmptyDataset) {
			return h.send(newMessage(chatID, md(msgNoLandmarks)))
		}
		return fmt.Errorf("start game: %w", err)
	}

	_, err = h.games.Subscribe(player.ID, func(s entities.Snapshot) {
		h.enqueue(chatID, s)
	})
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	h.logger.Info("telegram game started",
		zap.Int64("chat_id", chatID),
		zap.Int("landmarks", snap.DatasetSize),
	)

	h.enqueue(chatID, snap)
	return nil
}

// handleGuess treats free text as a country name, tolerating small typos.
func (h *Handler) handleGuess(text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if strings.TrimSpace(text) == "" {
			return nil
		}

		_, err := h.games.GuessText(ctx, playerID(chatID), text)
		return err
	}
}

// handleLocation treats a shared location as a click on the map.
func (h *Handler) handleLocation(loc *tgbotapi.Location) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		_, err := h.games.GuessAt(ctx, playerID(chatID), orb.Point{loc.Longitude, loc.Latitude})
		return err
	}
}

func (h *Handler) handleHint() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		before, err := h.games.Snapshot(ctx, playerID(chatID))
		if err != nil {
			return err
		}

		after, err := h.games.Hint(ctx, playerID(chatID))
		if err != nil {
			return err
		}

		if reason := hintRefusal(before, after); reason != "" {
			return h.send(newMessage(chatID, md(reason)))
		}
		return nil
	}
}

func (h *Handler) handleRestart() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		_, err := h.games.Restart(ctx, playerID(chatID))
		return err
	}
}

func (h *Handler) handleStop() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := h.games.End(ctx, playerID(chatID)); err != nil {
			return err
		}

		if prev, ok := h.messages.Get(chatID); ok {
			h.clearKeyboard(chatID, prev.MessageID)
			h.messages.Delete(chatID)
		}
		return h.send(newGameOffer(chatID, msgGameStopped))
	}
}

func (h *Handler) handleScore() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		stats, err := h.leaderboard.Stats(ctx, playerID(chatID))
		if err != nil {
			if errors.Is(err, repository.ErrPlayerNotFound) {
				return h.send(newMessage(chatID, md(msgNoGamesYet)))
			}
			return fmt.Errorf("player stats: %w", err)
		}

		return h.send(newMessage(chatID, formatStats(stats)))
	}
}

func (h *Handler) handleTop() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		entries, err := h.leaderboard.Top(ctx, topSize)
		if err != nil {
			return fmt.Errorf("leaderboard: %w", err)
		}

		return h.send(newMessage(chatID, formatLeaderboard(entries, playerID(chatID))))
	}
}

// hintRefusal explains why a hint request changed nothing.
func hintRefusal(before, after entities.Snapshot) string {
	switch {
	case after.Phase != entities.PhasePlaying:
		return msgHintNotNow
	case before.ActiveHint != nil:
		return msgHintShown
	case after.ActiveHint != nil:
		return ""
	case after.HintBudget <= 0:
		return msgNoHintsLeft
	}
	return msgNoMoreHints
}

func displayName(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	if u.UserName != "" {
		return "@" + u.UserName
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
