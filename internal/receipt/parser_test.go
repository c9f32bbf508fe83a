package receipt

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const edenorReceipt = `Comprobante de pago
Pagaste a EDENOR RIO DE LA PLATA
Total pagado $ 12.345,67
Medio de pago Dinero disponible
Fecha de pago lunes 01/01/2024 10:00:00
Operación 123456789`

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.234,56", "1234.56"},
		{"50,00", "50.00"},
		{"12.345,67", "12345.67"},
		{"1.000.000,5", "1000000.5"},
		{"1.234", "1234"},
		{"99", "99"},
		{" 7,25 ", "7.25"},
	}
	for _, tt := range tests {
		got, err := NormalizeAmount(tt.in)
		require.NoError(t, err, "NormalizeAmount(%q)", tt.in)
		assert.True(t, got.Equal(dec(tt.want)), "NormalizeAmount(%q) = %s, want %s", tt.in, got, tt.want)
	}
}

func TestNormalizeAmount_Invalid(t *testing.T) {
	for _, in := range []string{"", ".", ",", "1,2,3", "abc"} {
		_, err := NormalizeAmount(in)
		assert.Error(t, err, "NormalizeAmount(%q)", in)
	}
}

func TestProviderMatcher(t *testing.T) {
	got, err := ProviderMatcher{}.Match("Pagaste a   Metrogas S.A.   \nTotal pagado $ 10")
	require.NoError(t, err)
	assert.Equal(t, "Metrogas S.A.", got)

	_, err = ProviderMatcher{}.Match("Total pagado $ 10")
	assert.Equal(t, KindMissingProvider, KindOf(err))
}

func TestProviderMatcher_FirstOccurrence(t *testing.T) {
	got, err := ProviderMatcher{}.Match("Pagaste a Flow\nPagaste a Personal")
	require.NoError(t, err)
	assert.Equal(t, "Flow", got)
}

func TestAmountMatcher(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"with currency sign", "Total pagado $ 1.234,56", "1234.56"},
		{"without currency sign", "Total pagado 50,00", "50.00"},
		{"no spaces", "Total pagado$99", "99"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AmountMatcher{}.Match(tt.text)
			require.NoError(t, err)
			assert.True(t, got.Equal(dec(tt.want)), "got %s", got)
		})
	}
}

func TestAmountMatcher_Failures(t *testing.T) {
	_, err := AmountMatcher{}.Match("Pagaste a Flow\nFecha de pago 01/01/2024 10:00:00")
	assert.Equal(t, KindMissingAmount, KindOf(err))

	_, err = AmountMatcher{}.Match("Total pagado: pendiente")
	assert.Equal(t, KindMalformedAmount, KindOf(err))

	_, err = AmountMatcher{}.Match("Total pagado $ 1,2,3")
	assert.Equal(t, KindMalformedAmount, KindOf(err))
}

func TestDateMatcher(t *testing.T) {
	got, err := DateMatcher{}.Match("Fecha de pago ... 05/03/2024 14:30:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), got)

	got, err = DateMatcher{}.Match("Fecha de pago 31/12/2023 23:59:59")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), got)
}

func TestDateMatcher_Failures(t *testing.T) {
	_, err := DateMatcher{}.Match("Pagado el 05/03/2024 14:30:00")
	assert.Equal(t, KindMissingDate, KindOf(err))

	_, err = DateMatcher{}.Match("Fecha de pago 31/02/2024 10:00:00")
	assert.Equal(t, KindMalformedDate, KindOf(err), "day out of range")

	_, err = DateMatcher{}.Match("Fecha de pago ayer a la tarde")
	assert.Equal(t, KindMalformedDate, KindOf(err), "label without timestamp")
}

func TestParse(t *testing.T) {
	got, err := Parse(edenorReceipt)
	require.NoError(t, err)
	assert.Equal(t, "EDENOR RIO DE LA PLATA", got.Provider)
	assert.True(t, got.Amount.Equal(dec("12345.67")))
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), got.Date)
}

func TestParse_Deterministic(t *testing.T) {
	a, err := Parse(edenorReceipt)
	require.NoError(t, err)
	b, err := Parse(edenorReceipt)
	require.NoError(t, err)
	assert.Equal(t, a.Provider, b.Provider)
	assert.True(t, a.Amount.Equal(b.Amount))
	assert.Equal(t, a.Date, b.Date)
}

func TestParse_MissingAmountRejectsWholeReceipt(t *testing.T) {
	text := "Pagaste a EDENOR\nFecha de pago 01/01/2024 10:00:00"
	got, err := Parse(text)
	require.Error(t, err)
	assert.Equal(t, KindMissingAmount, KindOf(err))
	assert.Empty(t, got.Provider, "no partial fields on failure")
	assert.True(t, errors.Is(err, ErrExtraction))
}

func TestParse_FailureOrder(t *testing.T) {
	_, err := Parse("nothing useful here")
	assert.Equal(t, KindMissingProvider, KindOf(err))

	_, err = Parse("Pagaste a Flow\nTotal pagado $ 10,00")
	assert.Equal(t, KindMissingDate, KindOf(err))
}

func TestExtractionError(t *testing.T) {
	cause := errors.New("boom")
	err := &ExtractionError{Kind: KindMalformedDate, Field: "date", Cause: cause}
	assert.Equal(t, "date: malformed_date: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrExtraction)
	assert.Equal(t, Kind(""), KindOf(cause))
}
