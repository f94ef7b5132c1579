package repository

import (
	"context"

	"github.com/ivanoskov/splitease/internal/model"
)

// DefaultTable is the remote collection holding expense records.
const DefaultTable = "expenses"

type Repository interface {
	// ListExpenses returns every stored expense, newest created_at first.
	ListExpenses(ctx context.Context) ([]model.Expense, error)
	// CreateExpense stores the draft and returns it with its assigned id.
	CreateExpense(ctx context.Context, draft model.Draft) (model.Expense, error)
}

var _ Repository = (*SupabaseRepository)(nil)
