package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gastos-dev/gastos/internal/model"
)

// Header is the first row of the ledger file.
const Header = "Fecha,Proveedor,Monto,Tipo de gasto,Categoría"

// ErrBadHeader is returned when a ledger does not start with Header.
var ErrBadHeader = errors.New("ledger does not start with the header row")

const (
	numFields   = 5
	colDate     = 0
	colProvider = 1
	colAmount   = 2
	colType     = 3
	colCategory = 4
)

// ReadRecords reads a ledger CSV. The first row must be Header.
func ReadRecords(r io.Reader) ([]model.ExpenseRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if !isHeader(rows[0]) {
		return nil, fmt.Errorf("%w: got %q", ErrBadHeader, strings.Join(rows[0], ","))
	}

	var records []model.ExpenseRecord
	for i, row := range rows[1:] {
		rec, err := UnmarshalRecord(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func isHeader(row []string) bool {
	want := strings.Split(Header, ",")
	if len(row) != len(want) {
		return false
	}
	for i, cell := range row {
		if i == 0 {
			// Spreadsheets saving as UTF-8 CSV prepend a byte order mark.
			cell = strings.TrimPrefix(cell, "\ufeff")
		}
		if strings.TrimSpace(cell) != want[i] {
			return false
		}
	}
	return true
}

// WriteRecords writes the header and every record.
func WriteRecords(w io.Writer, records []model.ExpenseRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, rec := range records {
		if err := cw.Write(MarshalRecord(rec)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalRecord converts a record to a CSV row.
func MarshalRecord(rec model.ExpenseRecord) []string {
	row := make([]string, numFields)
	row[colDate] = rec.Date.Format(model.DateFormat)
	row[colProvider] = rec.Provider
	row[colAmount] = model.FormatAmount(rec.Amount)
	row[colType] = rec.Type.Label()
	row[colCategory] = rec.Category
	return row
}

// UnmarshalRecord converts a CSV row to a record.
func UnmarshalRecord(row []string) (model.ExpenseRecord, error) {
	if len(row) != numFields {
		return model.ExpenseRecord{}, fmt.Errorf("expected %d fields, got %d", numFields, len(row))
	}

	date, err := time.Parse(model.DateFormat, strings.TrimSpace(row[colDate]))
	if err != nil {
		return model.ExpenseRecord{}, fmt.Errorf("parsing date %q: %w", row[colDate], err)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(row[colAmount]))
	if err != nil {
		return model.ExpenseRecord{}, fmt.Errorf("parsing amount %q: %w", row[colAmount], err)
	}

	typ, err := model.ParseExpenseType(row[colType])
	if err != nil {
		return model.ExpenseRecord{}, fmt.Errorf("parsing type: %w", err)
	}

	return model.ExpenseRecord{
		Date:     date,
		Provider: row[colProvider],
		Amount:   amount,
		Type:     typ,
		Category: row[colCategory],
	}, nil
}
