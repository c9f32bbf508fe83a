package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gastos-dev/gastos/internal/archive"
	"github.com/gastos-dev/gastos/internal/classify"
	"github.com/gastos-dev/gastos/internal/config"
	"github.com/gastos-dev/gastos/internal/extract"
	"github.com/gastos-dev/gastos/internal/gitops"
	"github.com/gastos-dev/gastos/internal/ingest"
	"github.com/gastos-dev/gastos/internal/ledger"
	"github.com/gastos-dev/gastos/internal/logging"
)

// workspace is a loaded gastos directory: its root, config and logger.
type workspace struct {
	root   string
	cfg    *config.Config
	logger *log.Logger
}

func openWorkspace(cmd *cobra.Command, opts *rootOptions) (*workspace, error) {
	root, err := filepath.Abs(opts.repo)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.LoadWorkspace(root)
	if err != nil {
		return nil, err
	}
	level := opts.logLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	return &workspace{
		root:   root,
		cfg:    cfg,
		logger: logging.New(cmd.ErrOrStderr(), level),
	}, nil
}

func (w *workspace) path(p string) string {
	return config.Resolve(w.root, p)
}

func (w *workspace) store() *ledger.Store {
	return ledger.NewStore(w.path(w.cfg.Ledger.Path))
}

func (w *workspace) classifier() (*classify.Classifier, error) {
	return classify.LoadRules(w.path(w.cfg.Rules.Path))
}

func (w *workspace) receiptsDir() string {
	return w.path(w.cfg.Storage.ReceiptsDir)
}

// service wires the ingest service from the config.
func (w *workspace) service() (*ingest.Service, error) {
	classifier, err := w.classifier()
	if err != nil {
		return nil, err
	}

	opts := []ingest.Option{
		ingest.WithLogger(w.logger),
		ingest.WithIngestLog(w.path(w.cfg.Logging.IngestLog)),
	}
	if w.cfg.Storage.Archive {
		a, err := archive.New(w.receiptsDir())
		if err != nil {
			return nil, err
		}
		opts = append(opts, ingest.WithArchive(a))
	}
	if w.cfg.Git.AutoCommit {
		if gitops.IsRepo(w.root) {
			author := gitops.Author{Name: w.cfg.Git.AuthorName, Email: w.cfg.Git.AuthorEmail}
			opts = append(opts, ingest.WithGit(w.root, author))
		} else {
			w.logger.Warn("git.auto_commit is set but the workspace is not a git repository", "dir", w.root)
		}
	}
	return ingest.NewService(w.store(), classifier, extract.PDF{}, opts...), nil
}

// inside reports whether path lies within dir.
func inside(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
