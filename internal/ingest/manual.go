package ingest

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gastos-dev/gastos/internal/ingestlog"
	"github.com/gastos-dev/gastos/internal/ledger"
	"github.com/gastos-dev/gastos/internal/model"
	"github.com/gastos-dev/gastos/internal/receipt"
)

// ErrInvalidEntry is wrapped by every manual-entry validation error.
var ErrInvalidEntry = errors.New("invalid manual entry")

// groupedThousands matches dot-grouped integers as receipts print them.
var groupedThousands = regexp.MustCompile(`^[1-9]\d{0,2}(\.\d{3})+$`)

// ManualEntry is the form filled in by hand when a receipt could not be read.
type ManualEntry struct {
	Date     time.Time
	Provider string
	Amount   decimal.Decimal
	Type     model.ExpenseType
	Category string
}

// ParseManualEntry builds an entry from text fields. The amount accepts
// either "1234.56" or the receipt spelling "1.234,56". Dots followed by
// groups of exactly three digits and no comma ("1.234", "12.500") are
// thousands separators, as on a receipt.
func ParseManualEntry(date, provider, amount, typ, category string) (ManualEntry, error) {
	var m ManualEntry

	d, err := time.Parse(model.DateFormat, strings.TrimSpace(date))
	if err != nil {
		return m, fmt.Errorf("%w: date must be YYYY-MM-DD: %q", ErrInvalidEntry, date)
	}

	amt, err := parseAmount(amount)
	if err != nil {
		return m, fmt.Errorf("%w: amount %q is not a number", ErrInvalidEntry, amount)
	}

	t, err := model.ParseExpenseType(typ)
	if err != nil {
		return m, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	m = ManualEntry{Date: d, Provider: provider, Amount: amt, Type: t, Category: category}
	return m, m.Validate()
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") || groupedThousands.MatchString(s) {
		return receipt.NormalizeAmount(s)
	}
	return decimal.NewFromString(s)
}

// Validate checks presence and format only.
func (m ManualEntry) Validate() error {
	switch {
	case m.Date.IsZero():
		return fmt.Errorf("%w: date is required", ErrInvalidEntry)
	case strings.TrimSpace(m.Provider) == "":
		return fmt.Errorf("%w: provider is required", ErrInvalidEntry)
	case strings.TrimSpace(m.Category) == "":
		return fmt.Errorf("%w: category is required", ErrInvalidEntry)
	case m.Amount.IsZero():
		return fmt.Errorf("%w: amount is required", ErrInvalidEntry)
	case m.Amount.IsNegative():
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidEntry)
	case !m.Type.Valid():
		return fmt.Errorf("%w: unknown expense type %q", ErrInvalidEntry, m.Type)
	}
	return nil
}

// Record validates m and converts it to a ledger record.
func (m ManualEntry) Record() (model.ExpenseRecord, error) {
	if err := m.Validate(); err != nil {
		return model.ExpenseRecord{}, err
	}
	y, mo, d := m.Date.Date()
	return model.ExpenseRecord{
		Date:     time.Date(y, mo, d, 0, 0, 0, 0, time.UTC),
		Provider: strings.TrimSpace(m.Provider),
		Amount:   m.Amount,
		Type:     m.Type,
		Category: strings.TrimSpace(m.Category),
	}, nil
}

// AddManual appends a hand-entered record and rewrites the ledger. The
// person entering it is trusted, so no duplicate check is made.
func (s *Service) AddManual(ctx context.Context, m ManualEntry) (model.ExpenseRecord, error) {
	rec, err := m.Record()
	if err != nil {
		return model.ExpenseRecord{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.ExpenseRecord{}, err
	}

	existing, err := s.store.Load()
	if err != nil {
		return model.ExpenseRecord{}, fmt.Errorf("loading ledger: %w", err)
	}
	if err := s.store.Save(ledger.Merge(existing, []model.ExpenseRecord{rec})); err != nil {
		return model.ExpenseRecord{}, fmt.Errorf("saving ledger: %w", err)
	}
	s.logger.Info("manual entry recorded", "record", rec.String())

	if s.logPath != "" {
		e := ingestlog.ForRecord(s.now().UTC(), "", ingestlog.OutcomeManual, rec)
		if err := ingestlog.Append(s.logPath, []ingestlog.Entry{e}); err != nil {
			s.logger.Warn("writing ingest log", "err", err)
		}
	}
	s.commit("manual: " + rec.Provider)
	return rec, nil
}
