package telegram

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/rajaryan190/world-map/internal/domain/entities"
)

const renderQueueSize = 256

// renderJob is a snapshot waiting to be drawn into its chat.
type renderJob struct {
	chatID int64
	snap   entities.Snapshot
}

type Handler struct {
	bot         Bot
	logger      *zap.Logger
	games       GameService
	leaderboard LeaderboardService
	messages    MessageStorage

	renders chan renderJob
}

func NewHandler(
	bot Bot,
	logger *zap.Logger,
	games GameService,
	leaderboard LeaderboardService,
	messages MessageStorage,
) *Handler {
	return &Handler{
		bot:         bot,
		logger:      logger,
		games:       games,
		leaderboard: leaderboard,
		messages:    messages,
		renders:     make(chan renderJob, renderQueueSize),
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	go h.renderLoop(ctx)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	m := update.Message
	chatID := m.Chat.ID

	h.logger.Debug("update received",
		zap.Int64("chat_id", chatID),
		zap.String("text", m.Text),
	)

	if m.IsCommand() {
		var fn HandlerFunc
		switch m.Command() {
		case "start", "help":
			fn = h.handleHelp()
		case "play":
			fn = h.handlePlay(m.From)
		case "hint":
			fn = h.handleHint()
		case "restart":
			fn = h.handleRestart()
		case "stop":
			fn = h.handleStop()
		case "score":
			fn = h.handleScore()
		case "top":
			fn = h.handleTop()
		default:
			fn = h.handleUnknown()
		}

		_ = h.withErrorHandling(fn)(ctx, chatID)
		return
	}

	if m.Location != nil {
		_ = h.withErrorHandling(h.handleLocation(m.Location))(ctx, chatID)
		return
	}

	if m.Text != "" {
		_ = h.withErrorHandling(h.handleGuess(m.Text))(ctx, chatID)
	}
}

// enqueue hands a snapshot to the render loop. It never blocks the game engine:
// when the queue is full the snapshot is dropped and the next one redraws the board.
func (h *Handler) enqueue(chatID int64, snap entities.Snapshot) {
	select {
	case h.renders <- renderJob{chatID: chatID, snap: snap}:
	default:
		h.logger.Warn("render queue full, snapshot dropped", zap.Int64("chat_id", chatID))
	}
}

func (h *Handler) renderLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-h.renders:
			h.render(job)
		}
	}
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return err
	}
	return nil
}

// playerID maps a chat to its game session; each chat plays one game.
func playerID(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}
