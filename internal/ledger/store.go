// Package ledger persists expense records and reconciles new ones against them.
package ledger

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gastos-dev/gastos/internal/model"
)

// Store reads and rewrites a whole ledger file. There is no incremental
// append: every save writes prior and new records together.
type Store struct {
	path string
}

// NewStore returns a Store for the CSV file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the ledger file location.
func (s *Store) Path() string {
	return s.path
}

// Load returns all records. A missing file is an empty ledger.
func (s *Store) Load() ([]model.ExpenseRecord, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", s.path, err)
	}
	defer f.Close()

	records, err := ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", s.path, err)
	}
	return records, nil
}

// Save replaces the ledger with records. The file is written to a temporary
// sibling and renamed so a failed write leaves the old ledger intact.
func (s *Store) Save(records []model.ExpenseRecord) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".ledger-*.csv")
	if err != nil {
		return fmt.Errorf("creating temp ledger: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteRecords(tmp, records); err != nil {
		tmp.Close()
		return fmt.Errorf("writing ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp ledger: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing ledger: %w", err)
	}
	return nil
}

// Export writes the current ledger, header included, to w. An absent ledger
// exports as a header-only file.
func (s *Store) Export(w io.Writer) error {
	records, err := s.Load()
	if err != nil {
		return err
	}
	return WriteRecords(w, records)
}

// Merge returns existing followed by added, without modifying either slice.
func Merge(existing, added []model.ExpenseRecord) []model.ExpenseRecord {
	out := make([]model.ExpenseRecord, 0, len(existing)+len(added))
	out = append(out, existing...)
	return append(out, added...)
}
