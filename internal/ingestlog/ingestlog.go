// Package ingestlog is the append-only audit trail of what happened to each
// document and manual entry.
package ingestlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gastos-dev/gastos/internal/model"
)

// Outcome is the fate of one document or manual entry.
type Outcome string

const (
	OutcomeNew       Outcome = "new"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeFailed    Outcome = "failed"
	OutcomeManual    Outcome = "manual"
)

// Entry is one row in the ingest log. Provider, Amount and Date are empty for
// failed documents.
type Entry struct {
	Timestamp time.Time
	Document  string
	Outcome   Outcome
	Provider  string
	Amount    string
	Date      string
	Detail    string
}

// Header is the CSV header for ingest-log.csv.
const Header = "timestamp,document,outcome,provider,amount,date,detail"

const (
	numFields    = 7
	colTimestamp = 0
	colDocument  = 1
	colOutcome   = 2
	colProvider  = 3
	colAmount    = 4
	colDate      = 5
	colDetail    = 6
)

// ForRecord builds an entry describing rec.
func ForRecord(ts time.Time, document string, outcome Outcome, rec model.ExpenseRecord) Entry {
	return Entry{
		Timestamp: ts,
		Document:  document,
		Outcome:   outcome,
		Provider:  rec.Provider,
		Amount:    model.FormatAmount(rec.Amount),
		Date:      rec.Date.Format(model.DateFormat),
		Detail:    rec.Type.Label() + "/" + rec.Category,
	}
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colDocument] = e.Document
	row[colOutcome] = string(e.Outcome)
	row[colProvider] = e.Provider
	row[colAmount] = e.Amount
	row[colDate] = e.Date
	row[colDetail] = e.Detail
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	return Entry{
		Timestamp: ts,
		Document:  record[colDocument],
		Outcome:   Outcome(record[colOutcome]),
		Provider:  record[colProvider],
		Amount:    record[colAmount],
		Date:      record[colDate],
		Detail:    record[colDetail],
	}, nil
}

// Append writes entries to the log at path, creating the file and header if
// needed.
func Append(path string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening ingest log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from the log at path, or nil if it does not exist.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening ingest log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ingest log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
