package service

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ivanoskov/splitease/internal/model"
)

// Balance is the running total with one group or person.
// A positive Net means you are owed, a negative one that you owe.
type Balance struct {
	Group    string
	Net      decimal.Decimal
	Expenses int
}

// Owed reports whether the group owes you.
func (b Balance) Owed() bool {
	return b.Net.IsPositive()
}

// Balances totals Expenses per group, sorted by group name.
// It degrades like Expenses: on a remote failure the local view is used.
func (s *ExpenseTracker) Balances(ctx context.Context) ([]Balance, error) {
	expenses, err := s.Expenses(ctx)
	return summarize(expenses), err
}

func summarize(expenses []model.Expense) []Balance {
	byGroup := make(map[string]*Balance)
	for _, e := range expenses {
		b, ok := byGroup[e.Group]
		if !ok {
			b = &Balance{Group: e.Group}
			byGroup[e.Group] = b
		}
		switch e.Payer {
		case model.PayerSelf:
			b.Net = b.Net.Add(e.Amount)
		case model.PayerOther:
			b.Net = b.Net.Sub(e.Amount)
		}
		b.Expenses++
	}

	out := make([]Balance, 0, len(byGroup))
	for _, b := range byGroup {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Group < out[j].Group
	})
	return out
}

// Total sums the net of every balance.
func Total(balances []Balance) decimal.Decimal {
	total := decimal.Zero
	for _, b := range balances {
		total = total.Add(b.Net)
	}
	return total
}
