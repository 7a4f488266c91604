package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/rajaryan190/world-map/internal/app"
	"github.com/rajaryan190/world-map/internal/config"
	"github.com/rajaryan190/world-map/internal/delivery/telegram"
	"github.com/rajaryan190/world-map/internal/logger"
	"github.com/rajaryan190/world-map/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		lg.Fatal("failed to create bot", zap.Error(err))
	}
	bot.Debug = cfg.Telegram.Debug

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{Command: "play", Description: "Start a new game"},
		{Command: "hint", Description: "Reveal a clue about the country"},
		{Command: "restart", Description: "Restart the current game"},
		{Command: "stop", Description: "End the current game"},
		{Command: "score", Description: "Show your statistics"},
		{Command: "top", Description: "Show the leaderboard"},
		{Command: "help", Description: "How to play"},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	lg.Info("authorized", zap.String("account", bot.Self.UserName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("failed to initialize", zap.Error(err))
	}
	defer a.Close()

	a.StartSweeper(ctx, cfg.Sessions.SweepSpec, lg)

	handler := telegram.NewHandler(bot, lg, a.Games, a.Leaderboard, storage.NewMessageStorage())
	if err := handler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		lg.Error("bot stopped", zap.Error(err))
	}

	<-ctx.Done()
	lg.Info("shutdown signal received")
}
