// Package ingest turns batches of receipt documents into ledger records.
package ingest

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gastos-dev/gastos/internal/archive"
	"github.com/gastos-dev/gastos/internal/classify"
	"github.com/gastos-dev/gastos/internal/gitops"
	"github.com/gastos-dev/gastos/internal/ingestlog"
	"github.com/gastos-dev/gastos/internal/ledger"
	"github.com/gastos-dev/gastos/internal/logging"
	"github.com/gastos-dev/gastos/internal/model"
	"github.com/gastos-dev/gastos/internal/receipt"
)

// Entry pairs a record with the document it came from.
type Entry struct {
	Document string
	Record   model.ExpenseRecord
}

// Failure is a document that produced no record.
type Failure struct {
	Document string
	Kind     receipt.Kind
	Message  string
	Err      error
}

// Report summarises one batch.
type Report struct {
	New        []Entry
	Duplicates []Entry
	Failures   []Failure
	Total      int
}

// NeedsManualEntry reports whether any document must be entered by hand.
func (r *Report) NeedsManualEntry() bool {
	return len(r.Failures) > 0
}

// Service runs batches through extraction, classification and
// reconciliation, and owns the only writes to the ledger.
type Service struct {
	store      *ledger.Store
	classifier *classify.Classifier
	extractor  TextExtractor
	parser     receipt.Parser

	archive *archive.Archive
	logPath string
	gitDir  string
	author  gitops.Author

	logger *log.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithArchive keeps a copy of every document in a.
func WithArchive(a *archive.Archive) Option {
	return func(s *Service) { s.archive = a }
}

// WithIngestLog appends an audit row per document to the CSV at path.
func WithIngestLog(path string) Option {
	return func(s *Service) { s.logPath = path }
}

// WithGit commits ledger changes in the repository at dir.
func WithGit(dir string, author gitops.Author) Option {
	return func(s *Service) {
		s.gitDir = dir
		s.author = author
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides the time source used for audit timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates an ingest Service.
func NewService(store *ledger.Store, classifier *classify.Classifier, extractor TextExtractor, opts ...Option) *Service {
	s := &Service{
		store:      store,
		classifier: classifier,
		extractor:  extractor,
		logger:     logging.Discard(),
		now:        time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Store returns the ledger store the service writes to.
func (s *Service) Store() *ledger.Store {
	return s.store
}

// Classifier returns the classifier in use.
func (s *Service) Classifier() *classify.Classifier {
	return s.classifier
}

// Archive returns the receipt archive, or nil when archiving is off.
func (s *Service) Archive() *archive.Archive {
	return s.archive
}

// Ingest processes docs in order. A document that cannot be read or parsed
// is reported and skipped; only ledger I/O and cancellation abort the batch.
// The ledger is read once and rewritten at most once.
func (s *Service) Ingest(ctx context.Context, docs []Document) (*Report, error) {
	existing, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}

	report := &Report{Total: len(docs)}
	var parsed []Entry
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := s.process(doc)
		if err != nil {
			f := Failure{
				Document: doc.Name,
				Kind:     receipt.KindOf(err),
				Message:  "could not extract data from " + doc.Name,
				Err:      err,
			}
			s.logger.Warn(f.Message, "document", doc.Name, "kind", f.Kind, "err", err)
			report.Failures = append(report.Failures, f)
			continue
		}
		s.logger.Debug("parsed receipt", "document", doc.Name, "provider", rec.Provider,
			"amount", model.FormatAmount(rec.Amount), "date", rec.Date.Format(model.DateFormat))
		parsed = append(parsed, Entry{Document: doc.Name, Record: rec})
	}

	records := make([]model.ExpenseRecord, len(parsed))
	for i, e := range parsed {
		records[i] = e.Record
	}
	res := ledger.Reconcile(existing, records)
	report.New, report.Duplicates = partition(parsed, res)

	for _, d := range report.Duplicates {
		s.logger.Info("duplicate skipped", "document", d.Document, "record", d.Record.String())
	}

	if len(res.New) > 0 {
		if err := s.store.Save(ledger.Merge(existing, res.New)); err != nil {
			return nil, fmt.Errorf("saving ledger: %w", err)
		}
		s.logger.Info("ledger updated", "new", len(res.New), "path", s.store.Path())
	}

	s.audit(report)
	if len(res.New) > 0 {
		s.commit(fmt.Sprintf("ingest: %d new, %d duplicate", len(report.New), len(report.Duplicates)))
	}
	return report, nil
}

// process archives, extracts, parses and classifies one document.
func (s *Service) process(doc Document) (model.ExpenseRecord, error) {
	if s.archive != nil && !doc.Archived {
		stored, err := s.archive.Save(doc.Name, doc.Data)
		if err != nil {
			s.logger.Warn("archiving failed", "document", doc.Name, "err", err)
		} else {
			s.logger.Debug("archived", "document", doc.Name, "stored", stored)
		}
	}

	text, err := s.extractor.Text(doc.Data)
	if err != nil {
		return model.ExpenseRecord{}, &receipt.ExtractionError{Kind: receipt.KindUnreadable, Field: "document", Cause: err}
	}

	fields, err := s.parser.Parse(text)
	if err != nil {
		return model.ExpenseRecord{}, err
	}

	typ, category := s.classifier.Classify(fields.Provider)
	return model.ExpenseRecord{
		Date:     fields.Date,
		Provider: fields.Provider,
		Amount:   fields.Amount,
		Type:     typ,
		Category: category,
	}, nil
}

// partition maps a reconcile result back to the documents. res.New and
// res.Duplicates both preserve input order, and the first occurrence of a key
// is the one accepted, so one forward walk over res.New suffices.
func partition(parsed []Entry, res ledger.Result) (added, dups []Entry) {
	next := 0
	for _, e := range parsed {
		if next < len(res.New) && res.New[next].SameEntry(e.Record) {
			added = append(added, e)
			next++
			continue
		}
		dups = append(dups, e)
	}
	return added, dups
}

func (s *Service) audit(report *Report) {
	if s.logPath == "" {
		return
	}
	ts := s.now().UTC()
	var entries []ingestlog.Entry
	for _, e := range report.New {
		entries = append(entries, ingestlog.ForRecord(ts, e.Document, ingestlog.OutcomeNew, e.Record))
	}
	for _, e := range report.Duplicates {
		entries = append(entries, ingestlog.ForRecord(ts, e.Document, ingestlog.OutcomeDuplicate, e.Record))
	}
	for _, f := range report.Failures {
		entries = append(entries, ingestlog.Entry{
			Timestamp: ts,
			Document:  f.Document,
			Outcome:   ingestlog.OutcomeFailed,
			Detail:    string(f.Kind),
		})
	}
	if err := ingestlog.Append(s.logPath, entries); err != nil {
		s.logger.Warn("writing ingest log", "err", err)
	}
}

func (s *Service) commit(message string) {
	if s.gitDir == "" {
		return
	}
	var paths []string
	for _, p := range []string{s.store.Path(), s.logPath, s.archiveDir()} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			paths = append(paths, p)
		}
	}
	hash, err := gitops.Commit(s.gitDir, message, s.author, paths...)
	if err != nil {
		s.logger.Warn("git commit failed", "err", err)
		return
	}
	if hash != "" {
		s.logger.Info("committed", "hash", hash, "message", message)
	}
}

func (s *Service) archiveDir() string {
	if s.archive == nil {
		return ""
	}
	return s.archive.Dir()
}
