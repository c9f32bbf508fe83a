package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gastos-dev/gastos/internal/model"
	"github.com/gastos-dev/gastos/internal/receipt"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func TestPDF_Empty(t *testing.T) {
	_, err := PDF{}.Text(nil)
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestPDF_NotAPDF(t *testing.T) {
	_, err := PDF{}.Text([]byte("Pagaste a EDENOR\nTotal pagado $ 10,00\n"))
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestPDF_TruncatedHeader(t *testing.T) {
	_, err := PDF{}.Text([]byte("%PDF-1.4\n%%EOF"))
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestPDF_Text(t *testing.T) {
	want := "Comprobante de pago\n" +
		"Pagaste a EDENOR RIO DE LA PLATA\n" +
		"Total pagado $ 12.345,67\n" +
		"Fecha de pago lunes 01/01/2024 10:00:00"

	tests := []struct {
		name    string
		fixture string
	}{
		// One Tj per line, lines moved with Td.
		{"relative line moves", "receipt-td.pdf"},
		// TJ arrays with kerning, T* line breaks and a value placed
		// further along the label's baseline.
		{"kerned TJ arrays", "receipt-kerned.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := PDF{}.Text(readFixture(t, tt.fixture))
			require.NoError(t, err)
			assert.Equal(t, want, text)

			fields, err := receipt.Parse(text)
			require.NoError(t, err)
			assert.Equal(t, "EDENOR RIO DE LA PLATA", fields.Provider)
			assert.True(t, fields.Amount.Equal(decimal.RequireFromString("12345.67")), fields.Amount.String())
			assert.Equal(t, "2024-01-01", fields.Date.Format(model.DateFormat))
		})
	}
}

func TestPDF_ZeroWidthFontFallsBackToRows(t *testing.T) {
	text, err := PDF{}.Text(readFixture(t, "receipt-nowidths.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "Pagaste a METROGAS SA\nTotal pagado $ 8.500,00\nFecha de pago martes 05/03/2024 14:30:00", text)

	fields, err := receipt.Parse(text)
	require.NoError(t, err)
	assert.Equal(t, "METROGAS SA", fields.Provider)
	assert.True(t, fields.Amount.Equal(decimal.NewFromInt(8500)))
	assert.Equal(t, "2024-03-05", fields.Date.Format(model.DateFormat))
}

func TestJoinGlyphs(t *testing.T) {
	tests := []struct {
		name   string
		glyphs []glyph
		want   string
	}{
		{
			name: "adjacent glyphs form one word",
			glyphs: []glyph{
				{x: 10, w: 6, size: 12, s: "a"},
				{x: 16, w: 6, size: 12, s: "b"},
			},
			want: "ab",
		},
		{
			name: "kerning overlap stays joined",
			glyphs: []glyph{
				{x: 10, w: 6, size: 12, s: "T"},
				{x: 15.5, w: 6, size: 12, s: "o"},
			},
			want: "To",
		},
		{
			name: "gap becomes one space",
			glyphs: []glyph{
				{x: 10, w: 6, size: 12, s: "a"},
				{x: 100, w: 6, size: 12, s: "b"},
			},
			want: "a b",
		},
		{
			name: "sorted by x",
			glyphs: []glyph{
				{x: 16, w: 6, size: 12, s: "b"},
				{x: 10, w: 6, size: 12, s: "a"},
			},
			want: "ab",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, joinGlyphs(tt.glyphs))
		})
	}
}

func TestReadable(t *testing.T) {
	assert.True(t, readable("Pagaste a ACME"))
	assert.False(t, readable("PagasteaACME"))
	assert.False(t, readable("  \n "))
}
