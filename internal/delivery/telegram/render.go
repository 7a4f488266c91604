package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/rajaryan190/world-map/internal/domain/entities"
)

// render draws a snapshot into the chat. A new question gets a new photo message;
// every other change edits the caption of the current one.
func (h *Handler) render(job renderJob) {
	chatID, snap := job.chatID, job.snap
	caption := renderCaption(snap)
	kb := buildBoardKeyboard(snap, h.games.Options(playerID(chatID), snap))

	switch {
	case snap.Question != nil:
		key := boardKey(snap)
		if prev, ok := h.messages.Get(chatID); ok && prev.Key == key {
			h.editCaption(chatID, prev.MessageID, caption, kb)
			return
		}

		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(snap.Question.ImageURL))
		photo.Caption = caption
		photo.ParseMode = tgbotapi.ModeMarkdownV2
		if kb != nil {
			photo.ReplyMarkup = kb
		}

		sent, err := h.bot.Send(photo)
		if err != nil {
			h.logger.Error("failed to send landmark photo",
				zap.Int64("chat_id", chatID),
				zap.String("image_url", snap.Question.ImageURL),
				zap.Error(err),
			)
			return
		}

		if prev, hadPrev := h.messages.UpsertAndGetPrev(chatID, sent.MessageID, key); hadPrev {
			h.clearKeyboard(chatID, prev.MessageID)
		}

	case snap.Phase == entities.PhaseGameOver:
		if prev, ok := h.messages.Get(chatID); ok {
			h.clearKeyboard(chatID, prev.MessageID)
			h.messages.Delete(chatID)
		}

		msg := newMessage(chatID, caption)
		if kb != nil {
			msg.ReplyMarkup = kb
		}
		_ = h.send(msg)

	default:
		if prev, ok := h.messages.Get(chatID); ok {
			h.editCaption(chatID, prev.MessageID, caption, nil)
			return
		}
		_ = h.send(newMessage(chatID, caption))
	}
}

func (h *Handler) editCaption(chatID int64, messageID int, caption string, kb *tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageCaption(chatID, messageID, caption)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	edit.ReplyMarkup = kb
	_ = h.send(edit)
}

func (h *Handler) clearKeyboard(chatID int64, messageID int) {
	_ = h.send(tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, emptyKeyboard()))
}

// boardKey identifies the question a board message shows.
func boardKey(snap entities.Snapshot) string {
	return fmt.Sprintf("%d:%d", snap.Generation, snap.QuestionIndex)
}

// renderCaption renders the board text for a snapshot (MarkdownV2 safe).
func renderCaption(snap entities.Snapshot) string {
	var sb strings.Builder

	switch snap.Phase {
	case entities.PhaseLevelComplete:
		sb.WriteString(bold("🎉 " + msgLevelComplete))
		sb.WriteString("\n\n")
		sb.WriteString(md(fmt.Sprintf("Score: %d. Next up: %s.", snap.Score, snap.LevelName)))
		return sb.String()

	case entities.PhaseGameOver:
		sb.WriteString(bold("🏁 " + msgGameOver))
		sb.WriteString("\n\n")
		sb.WriteString(md(fmt.Sprintf("Final score: %d", snap.Score)))
		sb.WriteString("\n")
		sb.WriteString(md(fmt.Sprintf("Reached: %s", snap.LevelName)))
		if snap.Notice != "" {
			sb.WriteString("\n\n")
			sb.WriteString(italic(snap.Notice))
		}
		return sb.String()
	}

	sb.WriteString(bold(snap.LevelName))
	if snap.TotalQuestionsInLevel > 0 {
		sb.WriteString(md(fmt.Sprintf(" · question %d/%d", snap.QuestionNumberInLevel, snap.TotalQuestionsInLevel)))
	}

	if snap.Question != nil {
		sb.WriteString("\n\n")
		sb.WriteString(md("Which country is "))
		sb.WriteString(bold(snap.Question.Name))
		sb.WriteString(md(" in?"))
	}

	sb.WriteString("\n\n")
	sb.WriteString(md(fmt.Sprintf("Score: %d · Hints: %d · Countries found: %d",
		snap.Score, snap.HintBudget, len(snap.RevealedCountries))))

	if snap.ShowFeedback() {
		sb.WriteString("\n\n")
		sb.WriteString(feedbackIcon(snap.Feedback.Status))
		sb.WriteString(md(snap.Feedback.Message))
	}

	if h := snap.ActiveHint; h != nil {
		sb.WriteString("\n\n💡 ")
		sb.WriteString(md(h.Text))
		if h.ImageURL != "" {
			sb.WriteString(" ")
			sb.WriteString(fmt.Sprintf("[%s](%s)", md("flag"), escapeLinkURL(h.ImageURL)))
		}
	}

	return sb.String()
}

func feedbackIcon(s entities.FeedbackStatus) string {
	switch s {
	case entities.FeedbackCorrect:
		return "✅ "
	case entities.FeedbackIncorrect:
		return "❌ "
	}
	return ""
}

// escapeLinkURL escapes the characters MarkdownV2 reserves inside a link target.
func escapeLinkURL(u string) string {
	return strings.NewReplacer(`\`, `\\`, `)`, `\)`).Replace(u)
}
