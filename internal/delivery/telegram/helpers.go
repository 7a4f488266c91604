package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// newGameOffer creates a message with a button that starts a new game.
func newGameOffer(chatID int64, text string) tgbotapi.MessageConfig {
	msg := newMessage(chatID, md(text))
	msg.ReplyMarkup = buildNewGameKeyboard()
	return msg
}
