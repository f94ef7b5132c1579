package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"

	"github.com/ivanoskov/splitease/internal/model"
)

type SupabaseRepository struct {
	client *supabase.Client
	table  string
}

func NewSupabaseRepository(url, key, table string) (*SupabaseRepository, error) {
	if url == "" || key == "" {
		return nil, errors.New("supabase url and key are required")
	}
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}
	if table == "" {
		table = DefaultTable
	}

	return &SupabaseRepository{
		client: client,
		table:  table,
	}, nil
}

// insertRow is the payload sent on insert. The store assigns id.
type insertRow struct {
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
	Group       string      `json:"group"`
	Payer       model.Payer `json:"payer"`
	CreatedAt   string      `json:"created_at"`
}

func (r *SupabaseRepository) ListExpenses(ctx context.Context) ([]model.Expense, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrRemoteUnavailable, err)
	}

	data, count, err := r.client.From(r.table).
		Select("*", "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		slog.ErrorContext(ctx, "list expenses failed", "table", r.table, "error", err)
		return nil, fmt.Errorf("%w: list %s: %w", model.ErrRemoteUnavailable, r.table, err)
	}
	slog.DebugContext(ctx, "listed expenses", "table", r.table, "count", count, "bytes", len(data))

	expenses, err := decodeExpenses(data)
	if err != nil {
		slog.ErrorContext(ctx, "list expenses returned malformed rows", "table", r.table, "error", err)
		return nil, err
	}

	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].CreatedAt.After(expenses[j].CreatedAt)
	})
	return expenses, nil
}

func (r *SupabaseRepository) CreateExpense(ctx context.Context, draft model.Draft) (model.Expense, error) {
	if err := draft.Validate(); err != nil {
		return model.Expense{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.Expense{}, fmt.Errorf("%w: %w", model.ErrRemoteUnavailable, err)
	}

	row := insertRow{
		Amount:      json.Number(draft.Amount.String()),
		Description: draft.Description,
		Group:       draft.Group,
		Payer:       draft.Payer,
		CreatedAt:   draft.CreatedAt.UTC().Format(model.TimeLayout),
	}

	data, _, err := r.client.From(r.table).
		Insert([]insertRow{row}, false, "", "representation", "").
		Execute()
	if err != nil {
		slog.ErrorContext(ctx, "insert expense failed", "table", r.table, "ref", draft.ClientRef, "error", err)
		return model.Expense{}, fmt.Errorf("%w: insert into %s: %w", model.ErrRemoteUnavailable, r.table, err)
	}

	created, err := decodeExpenses(data)
	if err != nil {
		slog.ErrorContext(ctx, "insert returned malformed row", "table", r.table, "ref", draft.ClientRef, "error", err)
		return model.Expense{}, err
	}
	if len(created) == 0 {
		return model.Expense{}, fmt.Errorf("%w: insert into %s returned no rows", model.ErrSchema, r.table)
	}

	expense := created[0]
	expense.ClientRef = draft.ClientRef
	slog.DebugContext(ctx, "created expense", "table", r.table, "id", expense.ID, "ref", expense.ClientRef)
	return expense, nil
}
