package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ivanoskov/splitease/internal/bot"
	"github.com/ivanoskov/splitease/internal/config"
	"github.com/ivanoskov/splitease/internal/logging"
	"github.com/ivanoskov/splitease/internal/repository"
	"github.com/ivanoskov/splitease/internal/service"
	"github.com/ivanoskov/splitease/internal/store"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	if err := cfg.RequireTelegram(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	repo, err := repository.NewSupabaseRepository(cfg.SupabaseURL, cfg.SupabaseKey, cfg.ExpensesTable)
	if err != nil {
		slog.Error("failed to create repository", "error", err)
		os.Exit(1)
	}

	tracker := service.NewExpenseTracker(repo, store.New())

	b, err := bot.NewBot(cfg.TelegramToken, tracker)
	if err != nil {
		slog.Error("failed to start bot", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := b.Start(ctx); err != nil {
		slog.Error("bot stopped", "error", err)
		os.Exit(1)
	}
}
