package receipt

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Labels and value patterns as they appear on Mercado Pago style receipts.
var (
	providerPattern = regexp.MustCompile(`Pagaste a\s+([^\n]+)`)

	amountLabel   = regexp.MustCompile(`Total pagado`)
	amountPattern = regexp.MustCompile(`Total pagado\s*\$?\s*([0-9.,]+)`)

	dateLabel   = regexp.MustCompile(`Fecha de pago`)
	datePattern = regexp.MustCompile(`Fecha de pago\s+.*?(\d{2}/\d{2}/\d{4} \d{2}:\d{2}:\d{2})`)
)

const timestampLayout = "02/01/2006 15:04:05"

// ProviderMatcher recovers the payee from the "Pagaste a" line.
type ProviderMatcher struct{}

// Match returns the trimmed remainder of the first payee line.
func (ProviderMatcher) Match(text string) (string, error) {
	m := providerPattern.FindStringSubmatch(text)
	if m == nil {
		return "", &ExtractionError{Kind: KindMissingProvider, Field: "provider"}
	}
	provider := strings.TrimSpace(m[1])
	if provider == "" {
		return "", &ExtractionError{Kind: KindMissingProvider, Field: "provider"}
	}
	return provider, nil
}

// AmountMatcher recovers the "Total pagado" value.
type AmountMatcher struct{}

// Match returns the normalized total paid.
func (AmountMatcher) Match(text string) (decimal.Decimal, error) {
	if !amountLabel.MatchString(text) {
		return decimal.Zero, &ExtractionError{Kind: KindMissingAmount, Field: "amount"}
	}
	m := amountPattern.FindStringSubmatch(text)
	if m == nil {
		return decimal.Zero, &ExtractionError{
			Kind:  KindMalformedAmount,
			Field: "amount",
			Cause: errors.New("no numeric value after label"),
		}
	}
	amount, err := NormalizeAmount(m[1])
	if err != nil {
		return decimal.Zero, &ExtractionError{Kind: KindMalformedAmount, Field: "amount", Cause: err}
	}
	return amount, nil
}

// NormalizeAmount converts an es-AR formatted number ("1.234,56") to a decimal.
// Dots are thousands separators and are dropped; the comma becomes the
// decimal point.
func NormalizeAmount(s string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(s), ".", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}

// DateMatcher recovers the calendar date from the "Fecha de pago" timestamp.
type DateMatcher struct{}

// Match returns the payment date at UTC midnight; the time of day is dropped.
func (DateMatcher) Match(text string) (time.Time, error) {
	if !dateLabel.MatchString(text) {
		return time.Time{}, &ExtractionError{Kind: KindMissingDate, Field: "date"}
	}
	m := datePattern.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, &ExtractionError{
			Kind:  KindMalformedDate,
			Field: "date",
			Cause: errors.New("no DD/MM/YYYY HH:MM:SS timestamp after label"),
		}
	}
	ts, err := time.Parse(timestampLayout, m[1])
	if err != nil {
		return time.Time{}, &ExtractionError{Kind: KindMalformedDate, Field: "date", Cause: err}
	}
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), nil
}
