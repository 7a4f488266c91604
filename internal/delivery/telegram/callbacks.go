package telegram

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/rajaryan190/world-map/internal/service"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb.ID, "")
		return
	}

	chatID := cb.Message.Chat.ID
	data := decodeCallback(cb.Data)

	if data.Action != actionGame || len(data.Params) == 0 {
		h.logger.Warn("unknown callback", zap.String("data", cb.Data))
		h.answerCallback(cb.ID, "")
		return
	}

	var (
		notice string
		err    error
	)

	switch data.Params[0] {
	case gameHint:
		before, serr := h.games.Snapshot(ctx, playerID(chatID))
		if serr != nil {
			err = serr
			break
		}
		after, herr := h.games.Hint(ctx, playerID(chatID))
		if herr != nil {
			err = herr
			break
		}
		notice = hintRefusal(before, after)

	case gameGuess:
		if len(data.Params) < 2 {
			break
		}
		country := strings.Join(data.Params[1:], ":")
		_, err = h.games.Guess(ctx, playerID(chatID), country, nil)

	case gameDismiss:
		_, err = h.games.DismissHint(ctx, playerID(chatID))

	case gameRestart:
		_, err = h.games.Restart(ctx, playerID(chatID))

	case gamePlay:
		err = h.startGame(ctx, chatID, cb.From)

	default:
		h.logger.Warn("unknown game callback", zap.String("data", cb.Data))
	}

	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			notice = msgNoGame
		} else {
			h.logger.Error("callback failed",
				zap.Int64("chat_id", chatID),
				zap.String("data", cb.Data),
				zap.Error(err),
			)
			notice = msgInternalError
		}
	}

	// Remove the user's "clock".
	h.answerCallback(cb.ID, notice)
}

func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.logger.Warn("callback answer error", zap.Error(err))
	}
}
