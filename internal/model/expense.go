package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TimeLayout is the wire format of created_at: ISO 8601, UTC, milliseconds.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Payer says who paid for an expense.
type Payer string

const (
	PayerSelf  Payer = "you"
	PayerOther Payer = "someone"
)

// Valid reports whether p is one of the two known payers.
func (p Payer) Valid() bool {
	return p == PayerSelf || p == PayerOther
}

// ParsePayer maps user input onto a Payer. Empty input means PayerSelf.
func ParsePayer(s string) (Payer, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "you", "self", "me":
		return PayerSelf, true
	case "someone", "other":
		return PayerOther, true
	}
	return "", false
}

// Expense is a stored record of money paid between the user and a group or person.
type Expense struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Group       string          `json:"group"`
	Payer       Payer           `json:"payer"`
	CreatedAt   time.Time       `json:"created_at"`

	// ClientRef correlates a local optimistic entry with its stored record.
	// It never leaves the process.
	ClientRef string `json:"-"`
}

// Pending reports whether the store has not assigned an id yet.
func (e Expense) Pending() bool {
	return e.ID == ""
}

// Draft is an Expense before the remote store has assigned its id.
type Draft struct {
	Amount      decimal.Decimal
	Description string
	Group       string
	Payer       Payer
	CreatedAt   time.Time
	ClientRef   string
}

// GenerateRef assigns a correlation token if the draft has none.
func (d *Draft) GenerateRef() {
	if d.ClientRef == "" {
		d.ClientRef = uuid.New().String()
	}
}

// Validate checks the invariants every persisted expense must hold.
func (d Draft) Validate() error {
	var verr ValidationError
	if d.Amount.IsNegative() {
		verr.add("amount", "must not be negative")
	}
	if strings.TrimSpace(d.Description) == "" {
		verr.add("description", "is required")
	}
	if strings.TrimSpace(d.Group) == "" {
		verr.add("group", "is required")
	}
	if !d.Payer.Valid() {
		verr.add("payer", "must be \"you\" or \"someone\"")
	}
	if d.CreatedAt.IsZero() {
		verr.add("created_at", "is required")
	}
	return verr.orNil()
}

// Pending returns the optimistic local view of the draft.
func (d Draft) Pending() Expense {
	return Expense{
		Amount:      d.Amount,
		Description: d.Description,
		Group:       d.Group,
		Payer:       d.Payer,
		CreatedAt:   d.CreatedAt,
		ClientRef:   d.ClientRef,
	}
}
