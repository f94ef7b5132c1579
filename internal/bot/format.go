package bot

import (
	"fmt"
	"strings"

	"github.com/ivanoskov/splitease/internal/model"
	"github.com/ivanoskov/splitease/internal/service"
)

const (
	listTitle    = "💸 Split with Ease"
	listSubtitle = "Share expenses with friends, roommates, or travel buddies, fairly and effortlessly."
)

func formatExpenses(expenses []model.Expense) string {
	var sb strings.Builder
	sb.WriteString(listTitle + "\n" + listSubtitle + "\n\n")
	if len(expenses) == 0 {
		sb.WriteString("No expenses yet.")
		return sb.String()
	}
	for i, e := range expenses {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(formatExpense(e))
	}
	return sb.String()
}

func formatExpense(e model.Expense) string {
	line := fmt.Sprintf("%s: %s\n", e.Group, e.Description)
	amount := e.Amount.StringFixed(2)
	if e.Payer == model.PayerSelf {
		line += fmt.Sprintf("🟢 You're owed $%s", amount)
	} else {
		line += fmt.Sprintf("🔴 You owe $%s", amount)
	}
	if e.Pending() {
		line += " ⏳"
	}
	return line + "\n"
}

func formatBalances(balances []service.Balance) string {
	if len(balances) == 0 {
		return "📊 Balances\n\nNothing to settle yet."
	}

	var sb strings.Builder
	sb.WriteString("📊 Balances\n\n")
	for _, b := range balances {
		switch {
		case b.Net.IsZero():
			fmt.Fprintf(&sb, "⚪ %s: settled up\n", b.Group)
		case b.Owed():
			fmt.Fprintf(&sb, "🟢 %s owes you $%s\n", b.Group, b.Net.StringFixed(2))
		default:
			fmt.Fprintf(&sb, "🔴 You owe %s $%s\n", b.Group, b.Net.Abs().StringFixed(2))
		}
	}

	total := service.Total(balances)
	switch {
	case total.IsPositive():
		fmt.Fprintf(&sb, "\nOverall you're owed $%s", total.StringFixed(2))
	case total.IsNegative():
		fmt.Fprintf(&sb, "\nOverall you owe $%s", total.Abs().StringFixed(2))
	default:
		sb.WriteString("\nOverall you're even")
	}
	return sb.String()
}
