// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rajaryan190/world-map/internal/domain/entities"
)

// Plain-text messages. Escape with md before sending.
const (
	msgNoGame         = "You have no game running. Send /play to start one."
	msgNoCountryHere  = "That spot is not inside any country. Try again closer to land."
	msgUnknownCountry = "I don't know that country. Check the spelling or pick one of the options."
	msgNoLandmarks    = "There are no landmarks to play with yet."
	msgGameStopped    = "Game stopped."
	msgNoGamesYet     = "You have not finished a game yet. Send /play to start."
	msgHintNotNow     = "Hints are only available while a question is open."
	msgHintShown      = "A hint is already on screen."
	msgNoHintsLeft    = "No hints left for this level."
	msgNoMoreHints    = "No more hints for this landmark."
	msgInternalError  = "Something went wrong. Please try again later."
	msgUnknownCommand = "Unknown command. Available commands:\n\n/play — start a game\n/hint — get a clue\n/restart — start over\n/stop — end the game\n/score — your stats\n/top — leaderboard"
	msgLevelComplete  = "Level complete!"
	msgGameOver       = "Game over!"
	msgEmptyBoard     = "Nobody has finished a game yet."
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func italic(s string) string {
	return "_" + md(s) + "_"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// WelcomeMarkdownV2 builds welcome message safely for MarkdownV2.
func WelcomeMarkdownV2() string {
	var sb strings.Builder

	sb.WriteString(bold("World Map Quiz"))
	sb.WriteString("\n\n")
	sb.WriteString(md("You will see a photo of a famous landmark. Name the country it is in."))
	sb.WriteString("\n\n")

	sb.WriteString(md("How to answer:"))
	sb.WriteString("\n")
	sb.WriteString(md("• type the country name, e.g. France"))
	sb.WriteString("\n")
	sb.WriteString(md("• or share a location inside the country"))
	sb.WriteString("\n\n")

	sb.WriteString(md("A wrong answer tells you how far off you were and in which direction. "))
	sb.WriteString(md("Each level gives you a few hints."))
	sb.WriteString("\n\n")

	sb.WriteString(md("/play — start a game"))
	sb.WriteString("\n")
	sb.WriteString(md("/hint — reveal a clue"))
	sb.WriteString("\n")
	sb.WriteString(md("/restart — reshuffle and start over"))
	sb.WriteString("\n")
	sb.WriteString(md("/stop — end the current game"))
	sb.WriteString("\n")
	sb.WriteString(md("/score — your stats"))
	sb.WriteString("\n")
	sb.WriteString(md("/top — leaderboard"))

	return sb.String()
}

func hintButtonLabel(budget int) string {
	return fmt.Sprintf("💡 Hint (%d)", budget)
}

// formatStats formats one player's aggregate (MarkdownV2 safe).
func formatStats(s *entities.PlayerStats) string {
	return fmt.Sprintf(
		"%s\n\n%s %s\n%s %s\n%s %s",
		bold("📊 Your stats"),
		md("Games played:"), bold(fmt.Sprint(s.GamesPlayed)),
		md("Best score:"), bold(fmt.Sprint(s.BestScore)),
		md("Total score:"), bold(fmt.Sprint(s.TotalScore)),
	)
}

// formatLeaderboard formats the ranking, marking the caller's row.
func formatLeaderboard(entries []entities.LeaderboardEntry, self string) string {
	if len(entries) == 0 {
		return md(msgEmptyBoard)
	}

	var sb strings.Builder
	sb.WriteString(bold("🏆 Leaderboard"))
	sb.WriteString("\n")

	for _, e := range entries {
		name := e.PlayerName
		if name == "" {
			name = "anonymous"
		}

		line := md(fmt.Sprintf("%d. %s — %d", e.Rank, name, e.BestScore))
		if e.PlayerID == self {
			line = "*" + line + "*"
		}

		sb.WriteString("\n")
		sb.WriteString(line)
	}

	return sb.String()
}
