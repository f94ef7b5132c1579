package main

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ivanoskov/splitease/internal/bot"
	"github.com/ivanoskov/splitease/internal/config"
	"github.com/ivanoskov/splitease/internal/logging"
	"github.com/ivanoskov/splitease/internal/repository"
	"github.com/ivanoskov/splitease/internal/service"
	"github.com/ivanoskov/splitease/internal/store"
)

// Request is the incoming API Gateway request.
type Request struct {
	Body string `json:"body"`
}

// Response is returned to API Gateway.
type Response struct {
	StatusCode int               `json:"statusCode"`
	Body       string            `json:"body"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// Built once per warm instance so conversations and the local cache
// carry over between updates.
var (
	initOnce sync.Once
	instance *bot.Bot
	initErr  error
)

func setup() (*bot.Bot, error) {
	initOnce.Do(func() {
		cfg, err := config.LoadConfig()
		if err != nil {
			initErr = err
			return
		}
		logging.Setup(cfg.LogLevel)
		if err := cfg.RequireTelegram(); err != nil {
			initErr = err
			return
		}

		repo, err := repository.NewSupabaseRepository(cfg.SupabaseURL, cfg.SupabaseKey, cfg.ExpensesTable)
		if err != nil {
			initErr = err
			return
		}

		instance, initErr = bot.NewBot(cfg.TelegramToken, service.NewExpenseTracker(repo, store.New()))
	})
	return instance, initErr
}

func Handler(ctx context.Context, request Request) (*Response, error) {
	b, err := setup()
	if err != nil {
		slog.ErrorContext(ctx, "function setup failed", "error", err)
		return errorResponse(err)
	}

	if err := b.HandleWebhook(ctx, []byte(request.Body)); err != nil {
		slog.ErrorContext(ctx, "webhook update failed", "error", err)
		return errorResponse(err)
	}

	return &Response{
		StatusCode: 200,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func errorResponse(err error) (*Response, error) {
	return &Response{
		StatusCode: 500,
		Body:       err.Error(),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func main() {
	// the platform calls Handler directly
}
