package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ivanoskov/splitease/internal/model"
)

const (
	buttonAdd      = "➕ Add Expense"
	buttonList     = "📋 Expenses"
	buttonBalances = "📊 Balances"

	callbackPayerPrefix = "payer_"
	callbackAdd         = "action_add"
	callbackList        = "action_list"
	callbackBalances    = "action_balances"
)

func (b *Bot) getMainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonAdd),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonList),
			tgbotapi.NewKeyboardButton(buttonBalances),
		),
	)
}

func (b *Bot) getPayerKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("I paid", callbackPayerPrefix+string(model.PayerSelf)),
			tgbotapi.NewInlineKeyboardButtonData("Someone else", callbackPayerPrefix+string(model.PayerOther)),
		),
	)
}

func (b *Bot) getListKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("+ Add Expense", callbackAdd),
			tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh", callbackList),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(buttonBalances, callbackBalances),
		),
	)
}
