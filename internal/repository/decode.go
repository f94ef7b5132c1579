package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ivanoskov/splitease/internal/model"
)

// expenseRow mirrors a stored record. Pointers tell a missing column from a zero value.
type expenseRow struct {
	ID          json.RawMessage `json:"id"`
	Amount      *json.Number    `json:"amount"`
	Description *string         `json:"description"`
	Group       *string         `json:"group"`
	Payer       *string         `json:"payer"`
	CreatedAt   *string         `json:"created_at"`
}

// zoneless covers "timestamp without time zone" columns.
const zoneless = "2006-01-02T15:04:05.999999999"

// decodeExpenses checks every row against the expense schema. A single bad
// row fails the whole response with model.ErrSchema.
func decodeExpenses(data []byte) ([]model.Expense, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var rows []expenseRow
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrSchema, err)
	}

	expenses := make([]model.Expense, 0, len(rows))
	for i, row := range rows {
		e, err := row.expense()
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", model.ErrSchema, i, err)
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}

func (r expenseRow) expense() (model.Expense, error) {
	id, err := decodeID(r.ID)
	if err != nil {
		return model.Expense{}, err
	}

	if r.Amount == nil {
		return model.Expense{}, fmt.Errorf("amount is missing")
	}
	amount, err := decimal.NewFromString(r.Amount.String())
	if err != nil {
		return model.Expense{}, fmt.Errorf("amount %q is not a number", r.Amount.String())
	}
	if amount.IsNegative() {
		return model.Expense{}, fmt.Errorf("amount %s is negative", amount)
	}

	if r.Description == nil || strings.TrimSpace(*r.Description) == "" {
		return model.Expense{}, fmt.Errorf("description is missing")
	}
	if r.Group == nil || strings.TrimSpace(*r.Group) == "" {
		return model.Expense{}, fmt.Errorf("group is missing")
	}
	if r.Payer == nil || !model.Payer(*r.Payer).Valid() {
		return model.Expense{}, fmt.Errorf("payer is not \"you\" or \"someone\"")
	}
	if r.CreatedAt == nil {
		return model.Expense{}, fmt.Errorf("created_at is missing")
	}
	createdAt, err := parseTimestamp(*r.CreatedAt)
	if err != nil {
		return model.Expense{}, err
	}

	return model.Expense{
		ID:          id,
		Amount:      amount,
		Description: *r.Description,
		Group:       *r.Group,
		Payer:       model.Payer(*r.Payer),
		CreatedAt:   createdAt,
	}, nil
}

// decodeID accepts text and integer primary keys.
func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", fmt.Errorf("id is missing")
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			return "", fmt.Errorf("id is empty")
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if _, err := n.Int64(); err == nil {
			return n.String(), nil
		}
	}
	return "", fmt.Errorf("id %s is neither text nor an integer", raw)
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.ParseInLocation(zoneless, s, time.UTC); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("created_at %q is not an ISO 8601 timestamp", s)
}
