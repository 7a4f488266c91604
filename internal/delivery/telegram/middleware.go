package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/rajaryan190/world-map/internal/service"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, service.ErrSessionNotFound):
			return h.send(newGameOffer(chatID, msgNoGame))
		case errors.Is(err, service.ErrNoCountryAtPoint):
			return h.send(newMessage(chatID, md(msgNoCountryHere)))
		case errors.Is(err, service.ErrUnknownCountry):
			return h.send(newMessage(chatID, md(msgUnknownCountry)))
		}

		h.logger.Error("handle error",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		return h.send(newMessage(chatID, md(msgInternalError)))
	}
}
