package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseType separates recurring obligations from discretionary spending.
type ExpenseType string

const (
	ExpenseFixed    ExpenseType = "fixed"
	ExpenseVariable ExpenseType = "variable"
)

// DateFormat is how record dates are rendered in the ledger and compared
// during reconciliation.
const DateFormat = "2006-01-02"

// Label returns the ledger spelling of the type ("Fijo" or "Variable").
func (t ExpenseType) Label() string {
	switch t {
	case ExpenseFixed:
		return "Fijo"
	case ExpenseVariable:
		return "Variable"
	default:
		return string(t)
	}
}

// Valid reports whether t is one of the known expense types.
func (t ExpenseType) Valid() bool {
	return t == ExpenseFixed || t == ExpenseVariable
}

// ParseExpenseType accepts English or Spanish spellings, case-insensitively.
func ParseExpenseType(s string) (ExpenseType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fijo", "fixed":
		return ExpenseFixed, nil
	case "variable":
		return ExpenseVariable, nil
	default:
		return "", fmt.Errorf("unknown expense type %q", s)
	}
}

// ExpenseRecord is one row of the ledger.
type ExpenseRecord struct {
	Date     time.Time
	Provider string
	Amount   decimal.Decimal
	Type     ExpenseType
	Category string
}

// Key is the (date, provider, amount) triple records are deduplicated on.
type Key struct {
	Date     string
	Provider string
	Amount   decimal.Decimal
}

// Key returns the reconciliation triple for r.
func (r ExpenseRecord) Key() Key {
	return Key{
		Date:     r.Date.Format(DateFormat),
		Provider: r.Provider,
		Amount:   r.Amount,
	}
}

// SameEntry reports whether r and other describe the same payment.
// Amounts compare by value, so 50 and 50.00 are equal.
func (r ExpenseRecord) SameEntry(other ExpenseRecord) bool {
	a, b := r.Key(), other.Key()
	return a.Date == b.Date && a.Provider == b.Provider && a.Amount.Equal(b.Amount)
}

func (r ExpenseRecord) String() string {
	return fmt.Sprintf("%s - %s - %s", r.Provider, FormatAmount(r.Amount), r.Date.Format(DateFormat))
}

// FormatAmount renders d with two decimals, or with all of its decimals when
// it has more, so a written amount always reads back equal to d.
func FormatAmount(d decimal.Decimal) string {
	if d.Equal(d.Round(2)) {
		return d.StringFixed(2)
	}
	return d.String()
}
