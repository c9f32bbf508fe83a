// Package server exposes receipt upload, manual entry and the ledger over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/gastos-dev/gastos/internal/archive"
	"github.com/gastos-dev/gastos/internal/buildinfo"
	"github.com/gastos-dev/gastos/internal/ingest"
	"github.com/gastos-dev/gastos/internal/model"
)

// maxUploadBytes bounds one upload request, all files included.
const maxUploadBytes = 32 << 20

// Server wraps a fiber app around an ingest Service.
type Server struct {
	svc    *ingest.Service
	logger *log.Logger
	app    *fiber.App

	// mu serialises ledger writers within this process.
	mu sync.Mutex
}

// New builds the server and registers its routes.
func New(svc *ingest.Service, logger *log.Logger) *Server {
	s := &Server{svc: svc, logger: logger}
	s.app = fiber.New(fiber.Config{
		AppName:               "gastos",
		BodyLimit:             maxUploadBytes,
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})

	s.app.Use(recover.New())
	s.app.Use(cors.New())

	api := s.app.Group("/api")
	api.Get("/health", s.handleHealth)
	api.Post("/receipts", s.handleUpload)
	api.Get("/receipts", s.handleReceipts)
	api.Get("/receipts/:name", s.handleReceipt)
	api.Post("/expenses", s.handleManual)
	api.Get("/ledger", s.handleLedger)
	api.Get("/ledger.csv", s.handleDownload)
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	errc := make(chan error, 1)
	go func() {
		errc <- s.app.Listen(addr)
	}()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down")
		return s.app.Shutdown()
	}
}

type recordJSON struct {
	Date     string `json:"date"`
	Provider string `json:"provider"`
	Amount   string `json:"amount"`
	Type     string `json:"type"`
	Category string `json:"category"`
}

func toJSON(r model.ExpenseRecord) recordJSON {
	return recordJSON{
		Date:     r.Date.Format(model.DateFormat),
		Provider: r.Provider,
		Amount:   model.FormatAmount(r.Amount),
		Type:     r.Type.Label(),
		Category: r.Category,
	}
}

type entryJSON struct {
	Document string     `json:"document"`
	Record   recordJSON `json:"record"`
}

type failureJSON struct {
	Document string `json:"document"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`
}

type reportJSON struct {
	Total            int           `json:"total"`
	New              []entryJSON   `json:"new"`
	Duplicates       []entryJSON   `json:"duplicates"`
	Failures         []failureJSON `json:"failures"`
	NeedsManualEntry bool          `json:"needs_manual_entry"`
}

func toReportJSON(r *ingest.Report) reportJSON {
	out := reportJSON{
		Total:            r.Total,
		New:              []entryJSON{},
		Duplicates:       []entryJSON{},
		Failures:         []failureJSON{},
		NeedsManualEntry: r.NeedsManualEntry(),
	}
	for _, e := range r.New {
		out.New = append(out.New, entryJSON{Document: e.Document, Record: toJSON(e.Record)})
	}
	for _, e := range r.Duplicates {
		out.Duplicates = append(out.Duplicates, entryJSON{Document: e.Document, Record: toJSON(e.Record)})
	}
	for _, f := range r.Failures {
		out.Failures = append(out.Failures, failureJSON{Document: f.Document, Kind: string(f.Kind), Message: f.Message})
	}
	return out
}

type expenseRequest struct {
	Date     string `json:"date" form:"date"`
	Provider string `json:"provider" form:"provider"`
	Amount   string `json:"amount" form:"amount"`
	Type     string `json:"type" form:"type"`
	Category string `json:"category" form:"category"`
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "expected a multipart form with field 'files'")
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no files uploaded, use form field 'files'")
	}

	docs := make([]ingest.Document, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return fmt.Errorf("opening upload %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("reading upload %s: %w", fh.Filename, err)
		}
		docs = append(docs, ingest.Document{Name: fh.Filename, Data: data})
	}

	s.mu.Lock()
	report, err := s.svc.Ingest(c.UserContext(), docs)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return c.JSON(toReportJSON(report))
}

func (s *Server) archive() (*archive.Archive, error) {
	a := s.svc.Archive()
	if a == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "receipt archiving is disabled")
	}
	return a, nil
}

func (s *Server) handleReceipts(c *fiber.Ctx) error {
	a, err := s.archive()
	if err != nil {
		return err
	}
	names, err := a.List()
	if err != nil {
		return err
	}
	if names == nil {
		names = []string{}
	}
	return c.JSON(names)
}

func (s *Server) handleReceipt(c *fiber.Ctx) error {
	a, err := s.archive()
	if err != nil {
		return err
	}
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid receipt name")
	}
	data, err := a.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return fiber.NewError(fiber.StatusNotFound, "no archived receipt "+name)
	}
	if err != nil {
		return err
	}
	c.Attachment(name)
	return c.Send(data)
}

func (s *Server) handleManual(c *fiber.Ctx) error {
	var req expenseRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	entry, err := ingest.ParseManualEntry(req.Date, req.Provider, req.Amount, req.Type, req.Category)
	if err != nil {
		return err
	}

	s.mu.Lock()
	rec, err := s.svc.AddManual(c.UserContext(), entry)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toJSON(rec))
}

func (s *Server) handleLedger(c *fiber.Ctx) error {
	records, err := s.svc.Store().Load()
	if err != nil {
		return err
	}
	out := make([]recordJSON, 0, len(records))
	for _, r := range records {
		out = append(out, toJSON(r))
	}
	return c.JSON(out)
}

func (s *Server) handleDownload(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := s.svc.Store().Export(&buf); err != nil {
		return err
	}
	c.Attachment("gastos.csv")
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(buf.Bytes())
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "internal error"

	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
		msg = fe.Message
	case errors.Is(err, ingest.ErrInvalidEntry):
		code = fiber.StatusBadRequest
		msg = err.Error()
	default:
		s.logger.Error("request failed", "method", c.Method(), "path", c.Path(), "err", err)
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}
