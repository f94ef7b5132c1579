package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ivanoskov/splitease/internal/model"
	"github.com/ivanoskov/splitease/internal/store"
)

// ExpenseTracker runs the record and list flows on top of the remote store.
type ExpenseTracker struct {
	repo  Repository
	cache *store.Store
	now   func() time.Time
}

// Repository is the remote store as the tracker sees it.
type Repository interface {
	ListExpenses(ctx context.Context) ([]model.Expense, error)
	CreateExpense(ctx context.Context, draft model.Draft) (model.Expense, error)
}

// NewExpenseTracker wires the tracker. A nil cache gets a fresh one.
func NewExpenseTracker(repo Repository, cache *store.Store) *ExpenseTracker {
	if cache == nil {
		cache = store.New()
	}
	return &ExpenseTracker{
		repo:  repo,
		cache: cache,
		now:   time.Now,
	}
}

// Expenses lists every expense, newest first, with local entries merged in.
//
// When the remote store fails the error is returned together with whatever
// is held locally. The slice is never nil, so callers can render it as is.
func (s *ExpenseTracker) Expenses(ctx context.Context) ([]model.Expense, error) {
	remote, err := s.repo.ListExpenses(ctx)
	if err != nil {
		slog.WarnContext(ctx, "showing local expenses only", "error", err)
		return s.cache.Reconcile(nil), fmt.Errorf("list expenses: %w", err)
	}
	return s.cache.Reconcile(remote), nil
}

// Submit validates the form and stores the expense.
//
// Invalid forms fail with a *model.ValidationError before anything else
// happens. A form whose correlation token is already in flight fails with
// model.ErrDuplicateSubmission; one that was already stored returns the
// stored record without another remote call.
func (s *ExpenseTracker) Submit(ctx context.Context, form model.Form) (model.Expense, error) {
	draft, err := form.Draft(s.now())
	if err != nil {
		return model.Expense{}, err
	}

	if prev, ok := s.cache.Lookup(draft.ClientRef); ok {
		if prev.Pending() {
			return model.Expense{}, model.ErrDuplicateSubmission
		}
		return prev, nil
	}

	s.cache.Append(draft.Pending())

	created, err := s.repo.CreateExpense(ctx, draft)
	if err != nil {
		s.cache.Discard(draft.ClientRef)
		slog.ErrorContext(ctx, "could not save expense", "ref", draft.ClientRef, "error", err)
		return model.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	s.cache.Confirm(draft.ClientRef, created)
	created.ClientRef = draft.ClientRef
	slog.InfoContext(ctx, "expense added", "id", created.ID, "group", created.Group, "amount", created.Amount.String())
	return created, nil
}
