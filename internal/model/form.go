package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Form holds the raw text a user typed while recording an expense.
// It is kept intact across failed submissions so the user can correct it.
type Form struct {
	Amount      string
	Description string
	Group       string
	Payer       string
	ClientRef   string
}

var (
	errAmountMissing  = errors.New("amount is required")
	errAmountNegative = errors.New("amount must not be negative")
	errAmountNotNum   = errors.New("amount is not a number")
)

// ParseAmount turns user text into a non-negative amount.
// Both "12.50" and "12,50" are accepted; a leading "$" is ignored.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return decimal.Zero, errAmountMissing
	}
	if strings.HasPrefix(s, "+") {
		return decimal.Zero, fmt.Errorf("%w: %q", errAmountNotNum, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", errAmountNotNum, s)
	}
	if d.IsNegative() {
		return decimal.Zero, errAmountNegative
	}
	return d, nil
}

// Draft validates the form and builds a draft stamped with now.
// On failure it returns a *ValidationError listing every bad field.
func (f Form) Draft(now time.Time) (Draft, error) {
	var verr ValidationError

	amount, err := ParseAmount(f.Amount)
	switch {
	case errors.Is(err, errAmountMissing):
		verr.add("amount", "is required")
	case errors.Is(err, errAmountNegative):
		verr.add("amount", "must not be negative")
	case err != nil:
		verr.add("amount", "must be a number")
	}
	if strings.TrimSpace(f.Description) == "" {
		verr.add("description", "is required")
	}
	if strings.TrimSpace(f.Group) == "" {
		verr.add("group", "is required")
	}
	payer, ok := ParsePayer(f.Payer)
	if !ok {
		verr.add("payer", "must be \"you\" or \"someone\"")
	}
	if err := verr.orNil(); err != nil {
		return Draft{}, err
	}

	d := Draft{
		Amount:      amount,
		Description: strings.TrimSpace(f.Description),
		Group:       strings.TrimSpace(f.Group),
		Payer:       payer,
		CreatedAt:   now.UTC().Truncate(time.Millisecond),
		ClientRef:   f.ClientRef,
	}
	d.GenerateRef()
	return d, nil
}
