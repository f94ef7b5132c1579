package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivanoskov/splitease/internal/model"
)

func newTestRepository(t *testing.T) (*SupabaseRepository, *fakePostgrest) {
	t.Helper()
	fake, srv := newFakePostgrest(t, DefaultTable)
	repo, err := NewSupabaseRepository(srv.URL, "test-anon-key", "")
	require.NoError(t, err)
	return repo, fake
}

func draftAt(t *testing.T, f model.Form, now time.Time) model.Draft {
	t.Helper()
	d, err := f.Draft(now)
	require.NoError(t, err)
	return d
}

func TestCreateThenList(t *testing.T) {
	repo, fake := newTestRepository(t)
	ctx := context.Background()

	before := time.Now()
	draft := draftAt(t, model.Form{Amount: "50", Description: "Coffee", Group: "Roommates"}, time.Now())

	created, err := repo.CreateExpense(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.calls())

	assert.NotEmpty(t, created.ID)
	assert.True(t, created.Amount.Equal(decimal.NewFromFloat(50.0)))
	assert.Equal(t, "Coffee", created.Description)
	assert.Equal(t, "Roommates", created.Group)
	assert.Equal(t, model.PayerSelf, created.Payer)
	assert.Equal(t, draft.ClientRef, created.ClientRef)
	assert.WithinDuration(t, before, created.CreatedAt, 5*time.Second)

	req := fake.lastRequest()
	require.NotNil(t, req)
	assert.Equal(t, "test-anon-key", req.Header.Get("apikey"))
	assert.Contains(t, req.Header.Get("Prefer"), "return=representation")

	list, err := repo.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
	assert.Equal(t, "", list[0].ClientRef)
	assert.Equal(t, 2, fake.calls())
}

func TestCreateSendsWireRecord(t *testing.T) {
	repo, fake := newTestRepository(t)
	now := time.Date(2025, 1, 2, 3, 4, 5, 678_000_000, time.UTC)
	draft := draftAt(t, model.Form{Amount: "12.5", Description: "Taxi", Group: "Sarah", Payer: "someone"}, now)

	_, err := repo.CreateExpense(context.Background(), draft)
	require.NoError(t, err)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.rows, 1)
	row := fake.rows[0]
	assert.Equal(t, json.Number("12.5"), row["amount"])
	assert.Equal(t, "Taxi", row["description"])
	assert.Equal(t, "Sarah", row["group"])
	assert.Equal(t, "someone", row["payer"])
	assert.Equal(t, "2025-01-02T03:04:05.678Z", row["created_at"])
}

func TestListOrdersNewestFirst(t *testing.T) {
	repo, fake := newTestRepository(t)
	fake.seed(
		map[string]any{"id": "t1", "amount": 1, "description": "a", "group": "g", "payer": "you", "created_at": "2025-01-01T10:00:00.000Z"},
		map[string]any{"id": "t3", "amount": 3, "description": "c", "group": "g", "payer": "you", "created_at": "2025-01-03T10:00:00.000+00:00"},
		map[string]any{"id": "t2", "amount": 2, "description": "b", "group": "g", "payer": "someone", "created_at": "2025-01-02T10:00:00"},
	)

	list, err := repo.ListExpenses(context.Background())
	require.NoError(t, err)

	ids := make([]string, 0, len(list))
	for _, e := range list {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"t3", "t2", "t1"}, ids)

	req := fake.lastRequest()
	require.NotNil(t, req)
	assert.Contains(t, req.URL.Query().Get("order"), "created_at.desc")
	assert.Equal(t, "*", req.URL.Query().Get("select"))
}

func TestListIsIdempotent(t *testing.T) {
	repo, fake := newTestRepository(t)
	fake.seed(
		map[string]any{"id": 7, "amount": 4.25, "description": "Bus", "group": "Work", "payer": "you", "created_at": "2025-02-01T08:00:00Z"},
		map[string]any{"id": 8, "amount": 10, "description": "Pizza", "group": "Work", "payer": "someone", "created_at": "2025-02-02T08:00:00Z"},
	)
	ctx := context.Background()

	first, err := repo.ListExpenses(ctx)
	require.NoError(t, err)
	second, err := repo.ListExpenses(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "8", first[0].ID)
}

func TestListRejectsMalformedRows(t *testing.T) {
	tests := map[string]string{
		"not an array":     `{"message":"oops"}`,
		"missing id":       `[{"amount":1,"description":"a","group":"g","payer":"you","created_at":"2025-01-01T00:00:00Z"}]`,
		"text amount":      `[{"id":"1","amount":"lots","description":"a","group":"g","payer":"you","created_at":"2025-01-01T00:00:00Z"}]`,
		"negative amount":  `[{"id":"1","amount":-5,"description":"a","group":"g","payer":"you","created_at":"2025-01-01T00:00:00Z"}]`,
		"unknown payer":    `[{"id":"1","amount":1,"description":"a","group":"g","payer":"bob","created_at":"2025-01-01T00:00:00Z"}]`,
		"empty group":      `[{"id":"1","amount":1,"description":"a","group":"","payer":"you","created_at":"2025-01-01T00:00:00Z"}]`,
		"bad timestamp":    `[{"id":"1","amount":1,"description":"a","group":"g","payer":"you","created_at":"yesterday"}]`,
		"null description": `[{"id":"1","amount":1,"description":null,"group":"g","payer":"you","created_at":"2025-01-01T00:00:00Z"}]`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			repo, fake := newTestRepository(t)
			fake.listBody = body

			list, err := repo.ListExpenses(context.Background())
			assert.Nil(t, list)
			assert.True(t, errors.Is(err, model.ErrSchema), "got %v", err)
			assert.False(t, errors.Is(err, model.ErrRemoteUnavailable))
		})
	}
}

func TestListIgnoresExtraColumns(t *testing.T) {
	repo, fake := newTestRepository(t)
	fake.listBody = `[{"id":"1","amount":1,"description":"a","group":"g","payer":"you","created_at":"2025-01-01T00:00:00Z","user_id":"u-9"}]`

	list, err := repo.ListExpenses(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRemoteUnavailable(t *testing.T) {
	fake, srv := newFakePostgrest(t, DefaultTable)
	repo, err := NewSupabaseRepository(srv.URL, "key", DefaultTable)
	require.NoError(t, err)
	srv.Close()

	_, err = repo.ListExpenses(context.Background())
	assert.ErrorIs(t, err, model.ErrRemoteUnavailable)

	draft := draftAt(t, model.Form{Amount: "1", Description: "a", Group: "g"}, time.Now())
	_, err = repo.CreateExpense(context.Background(), draft)
	assert.ErrorIs(t, err, model.ErrRemoteUnavailable)
	assert.Equal(t, 0, fake.calls())
}

func TestCreateRejectsInvalidDraftWithoutCalling(t *testing.T) {
	repo, fake := newTestRepository(t)

	_, err := repo.CreateExpense(context.Background(), model.Draft{Amount: decimal.NewFromInt(5), Group: "Sarah", Payer: model.PayerSelf, CreatedAt: time.Now()})
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Equal(t, 0, fake.calls())
}

func TestCanceledContextSkipsNetwork(t *testing.T) {
	repo, fake := newTestRepository(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.ListExpenses(ctx)
	assert.ErrorIs(t, err, model.ErrRemoteUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, fake.calls())
}

func TestNewSupabaseRepositoryRequiresCredentials(t *testing.T) {
	_, err := NewSupabaseRepository("", "", "")
	assert.Error(t, err)
}
