package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ivanoskov/splitease/internal/charts"
	"github.com/ivanoskov/splitease/internal/model"
	"github.com/ivanoskov/splitease/internal/service"
)

// step is where a chat is in the add-expense conversation.
type step int

const (
	stepAmount step = iota + 1
	stepDescription
	stepGroup
	stepPayer
	// stepRetry holds a form whose last submission failed remotely.
	stepRetry
)

// conversation keeps the form a chat is filling in.
type conversation struct {
	form model.Form
	step step
}

// sender is the part of *tgbotapi.BotAPI the handlers use.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Bot struct {
	client  *tgbotapi.BotAPI
	api     sender
	service *service.ExpenseTracker
	charts  *charts.ChartGenerator

	mu     sync.Mutex
	states map[int64]conversation // by chat ID
}

func NewBot(token string, service *service.ExpenseTracker) (*Bot, error) {
	client, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}

	b := newBot(client, service)
	b.client = client
	return b, nil
}

func newBot(api sender, service *service.ExpenseTracker) *Bot {
	return &Bot{
		api:     api,
		service: service,
		charts:  charts.NewChartGenerator(),
		states:  make(map[int64]conversation),
	}
}

// Start runs the bot in long polling mode until ctx is done.
func (b *Bot) Start(ctx context.Context) error {
	if b.client == nil {
		return errors.New("bot has no telegram client")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.client.GetUpdatesChan(u)
	slog.Info("bot started", "username", b.client.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.client.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if err := b.handleUpdate(ctx, update); err != nil {
				slog.Error("error handling update", "update_id", update.UpdateID, "error", err)
			}
		}
	}
}

// HandleWebhook processes a single update delivered by a webhook.
func (b *Bot) HandleWebhook(ctx context.Context, body []byte) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return fmt.Errorf("decode update: %w", err)
	}

	return b.handleUpdate(ctx, update)
}

func (b *Bot) conversation(chatID int64) (conversation, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.states[chatID]
	return c, ok
}

func (b *Bot) setConversation(chatID int64, c conversation) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.states[chatID] = c
}

func (b *Bot) endConversation(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.states, chatID)
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		slog.Error("telegram send failed", "error", err)
	}
}

func (b *Bot) sendText(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) sendErrorMessage(chatID int64, text string) {
	b.sendText(chatID, "❌ "+text)
}
