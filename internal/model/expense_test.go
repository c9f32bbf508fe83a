package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpenseType(t *testing.T) {
	tests := []struct {
		in   string
		want ExpenseType
	}{
		{"Fijo", ExpenseFixed},
		{"fixed", ExpenseFixed},
		{" FIJO ", ExpenseFixed},
		{"Variable", ExpenseVariable},
		{"variable", ExpenseVariable},
	}
	for _, tt := range tests {
		got, err := ParseExpenseType(tt.in)
		require.NoError(t, err, "ParseExpenseType(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParseExpenseType(%q)", tt.in)
	}

	_, err := ParseExpenseType("mensual")
	assert.Error(t, err)
}

func TestExpenseTypeLabel(t *testing.T) {
	assert.Equal(t, "Fijo", ExpenseFixed.Label())
	assert.Equal(t, "Variable", ExpenseVariable.Label())
	assert.True(t, ExpenseFixed.Valid())
	assert.False(t, ExpenseType("other").Valid())
}

func TestSameEntry(t *testing.T) {
	base := ExpenseRecord{
		Date:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Provider: "EDENOR RIO DE LA PLATA",
		Amount:   decimal.RequireFromString("12345.67"),
		Type:     ExpenseFixed,
		Category: "Electricidad",
	}

	same := base
	same.Amount = decimal.RequireFromString("12345.670")
	same.Category = "Otra"
	assert.True(t, base.SameEntry(same), "category and trailing zeros do not matter")

	otherDay := base
	otherDay.Date = otherDay.Date.AddDate(0, 0, 1)
	assert.False(t, base.SameEntry(otherDay))

	otherProvider := base
	otherProvider.Provider = "edenor rio de la plata"
	assert.False(t, base.SameEntry(otherProvider), "provider compares as exact text")

	otherAmount := base
	otherAmount.Amount = decimal.RequireFromString("12345.68")
	assert.False(t, base.SameEntry(otherAmount))
}

func TestKeyDateFormat(t *testing.T) {
	r := ExpenseRecord{Date: time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)}
	assert.Equal(t, "2024-03-05", r.Key().Date)
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12345.67", "12345.67"},
		{"50", "50.00"},
		{"50.5", "50.50"},
		{"1234.567", "1234.567"},
		{"0.125", "0.125"},
	}
	for _, tt := range tests {
		d := decimal.RequireFromString(tt.in)
		got := FormatAmount(d)
		assert.Equal(t, tt.want, got, "FormatAmount(%s)", tt.in)
		assert.True(t, decimal.RequireFromString(got).Equal(d), "FormatAmount(%s) reads back equal", tt.in)
	}
}
