package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rajaryan190/world-map/internal/domain/entities"
)

const optionsPerRow = 2

// buildBoardKeyboard builds the keyboard under the game board for the snapshot's phase.
// While a question is open the answer options come first.
func buildBoardKeyboard(snap entities.Snapshot, options []string) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	switch snap.Phase {
	case entities.PhasePlaying:
		rows = append(rows, buildOptionRows(options)...)

		var row []tgbotapi.InlineKeyboardButton
		if snap.ActiveHint != nil {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData("✖️ Close hint", buildGameCallback(gameDismiss)))
		} else if snap.HintBudget > 0 {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(hintButtonLabel(snap.HintBudget), buildGameCallback(gameHint)))
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("🔄 Restart", buildGameCallback(gameRestart)))
		rows = append(rows, row)

	case entities.PhaseGameOver:
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌍 Play again", buildGameCallback(gameRestart)),
		))

	default:
		return nil
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func buildOptionRows(options []string) [][]tgbotapi.InlineKeyboardButton {
	var (
		rows [][]tgbotapi.InlineKeyboardButton
		row  []tgbotapi.InlineKeyboardButton
	)
	for _, country := range options {
		data, ok := buildGuessCallback(country)
		if !ok {
			continue
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(country, data))
		if len(row) == optionsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

// buildNewGameKeyboard offers a fresh game once the old one is gone.
func buildNewGameKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌍 New game", buildGameCallback(gamePlay)),
		),
	)
}

func emptyKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
}
