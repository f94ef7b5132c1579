package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/ivanoskov/splitease/internal/model"
)

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	switch {
	case update.CallbackQuery != nil:
		return b.handleCallback(ctx, update.CallbackQuery)
	case update.Message == nil || update.Message.Chat == nil:
		return nil
	case update.Message.IsCommand():
		return b.handleCommand(ctx, update.Message)
	default:
		return b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID

	switch message.Command() {
	case "start":
		b.handleStart(ctx, chatID)
	case "list":
		b.handleList(ctx, chatID)
	case "add":
		b.handleAdd(chatID)
	case "balances":
		b.handleBalances(ctx, chatID)
	case "retry":
		b.handleRetry(ctx, chatID)
	case "cancel":
		b.endConversation(chatID)
		msg := tgbotapi.NewMessage(chatID, "Cancelled.")
		msg.ReplyMarkup = b.getMainKeyboard()
		b.send(msg)
	default:
		b.sendText(chatID, "Commands: /list, /add, /balances, /retry, /cancel")
	}
	return nil
}

func (b *Bot) handleStart(ctx context.Context, chatID int64) {
	msg := tgbotapi.NewMessage(chatID,
		"Welcome! 💰\n\n"+
			"Record what you paid for friends, roommates, or travel buddies "+
			"and see who owes whom.")
	msg.ReplyMarkup = b.getMainKeyboard()
	b.send(msg)

	b.handleList(ctx, chatID)
}

// handleList is the refresh trigger: it always asks the store again.
func (b *Bot) handleList(ctx context.Context, chatID int64) {
	expenses, err := b.service.Expenses(ctx)
	if err != nil {
		b.sendErrorMessage(chatID, "Could not load expenses.")
	}

	msg := tgbotapi.NewMessage(chatID, formatExpenses(expenses))
	msg.ReplyMarkup = b.getListKeyboard()
	b.send(msg)
}

func (b *Bot) handleAdd(chatID int64) {
	b.setConversation(chatID, conversation{
		form: model.Form{ClientRef: uuid.New().String()},
		step: stepAmount,
	})
	b.sendText(chatID, "💰 Amount (e.g. 50)")
}

func (b *Bot) handleBalances(ctx context.Context, chatID int64) {
	balances, err := b.service.Balances(ctx)
	if err != nil {
		b.sendErrorMessage(chatID, "Could not load expenses.")
	}
	b.sendText(chatID, formatBalances(balances))

	img, err := b.charts.GenerateBalanceChart(balances)
	if err != nil || img == nil {
		return
	}
	b.send(tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "balances.png", Bytes: img}))
}

func (b *Bot) handleRetry(ctx context.Context, chatID int64) {
	conv, ok := b.conversation(chatID)
	if !ok || conv.step != stepRetry {
		b.sendText(chatID, "Nothing to retry.")
		return
	}
	b.submit(ctx, chatID, conv)
}

func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	// answer first so the client drops its loading indicator
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	if callback.Message == nil || callback.Message.Chat == nil {
		return nil
	}
	chatID := callback.Message.Chat.ID

	switch {
	case callback.Data == callbackAdd:
		b.handleAdd(chatID)
	case callback.Data == callbackList:
		b.handleList(ctx, chatID)
	case callback.Data == callbackBalances:
		b.handleBalances(ctx, chatID)
	case strings.HasPrefix(callback.Data, callbackPayerPrefix):
		b.handlePayer(ctx, chatID, strings.TrimPrefix(callback.Data, callbackPayerPrefix))
	}
	return nil
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID

	switch message.Text {
	case buttonAdd:
		b.handleAdd(chatID)
		return nil
	case buttonList:
		b.handleList(ctx, chatID)
		return nil
	case buttonBalances:
		b.handleBalances(ctx, chatID)
		return nil
	}

	conv, ok := b.conversation(chatID)
	if !ok {
		msg := tgbotapi.NewMessage(chatID, "Choose an action:")
		msg.ReplyMarkup = b.getMainKeyboard()
		b.send(msg)
		return nil
	}

	text := strings.TrimSpace(message.Text)
	switch conv.step {
	case stepAmount:
		if _, err := model.ParseAmount(text); err != nil {
			b.sendErrorMessage(chatID, "Please enter a number, e.g. 50 or 12.50")
			return nil
		}
		conv.form.Amount = text
		conv.step = stepDescription
		b.setConversation(chatID, conv)
		b.sendText(chatID, "📝 Description (e.g. Coffee, Taxi)")
	case stepDescription:
		if text == "" {
			b.sendErrorMessage(chatID, "Description is required.")
			return nil
		}
		conv.form.Description = text
		conv.step = stepGroup
		b.setConversation(chatID, conv)
		b.sendText(chatID, "👤 Group or Person (e.g. Roommates or Sarah)")
	case stepGroup:
		if text == "" {
			b.sendErrorMessage(chatID, "Group or person is required.")
			return nil
		}
		conv.form.Group = text
		conv.step = stepPayer
		b.setConversation(chatID, conv)
		msg := tgbotapi.NewMessage(chatID, "👛 Who paid?")
		msg.ReplyMarkup = b.getPayerKeyboard()
		b.send(msg)
	case stepPayer:
		b.handlePayer(ctx, chatID, text)
	case stepRetry:
		b.sendText(chatID, "Your last expense was not saved. Send /retry to try again or /cancel to drop it.")
	}
	return nil
}

func (b *Bot) handlePayer(ctx context.Context, chatID int64, value string) {
	conv, ok := b.conversation(chatID)
	if !ok || conv.step != stepPayer {
		b.sendText(chatID, "Start a new expense with /add")
		return
	}
	if _, ok := model.ParsePayer(value); !ok {
		msg := tgbotapi.NewMessage(chatID, "👛 Who paid?")
		msg.ReplyMarkup = b.getPayerKeyboard()
		b.send(msg)
		return
	}
	conv.form.Payer = value
	b.setConversation(chatID, conv)
	b.submit(ctx, chatID, conv)
}

// submit is the submit trigger. On failure the form stays with the chat.
func (b *Bot) submit(ctx context.Context, chatID int64, conv conversation) {
	expense, err := b.service.Submit(ctx, conv.form)

	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		conv.step = stepFor(verr.Fields())
		b.setConversation(chatID, conv)
		b.sendErrorMessage(chatID, fmt.Sprintf("Missing fields: please fill in %s.", strings.Join(verr.Fields(), ", ")))
	case errors.Is(err, model.ErrDuplicateSubmission):
		b.sendText(chatID, "⏳ Still saving your expense…")
	case err != nil:
		conv.step = stepRetry
		b.setConversation(chatID, conv)
		b.sendErrorMessage(chatID, "Could not save expense. Send /retry to try again.")
	default:
		b.endConversation(chatID)
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("Expense Added\n💸 $%s for %s", conv.form.Amount, expense.Description))
		msg.ReplyMarkup = b.getMainKeyboard()
		b.send(msg)
		b.handleList(ctx, chatID)
	}
}

// stepFor picks the conversation step that asks for the first bad field.
func stepFor(fields []string) step {
	if len(fields) == 0 {
		return stepAmount
	}
	switch fields[0] {
	case "description":
		return stepDescription
	case "group":
		return stepGroup
	case "payer":
		return stepPayer
	default:
		return stepAmount
	}
}
