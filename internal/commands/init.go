package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gastos-dev/gastos/internal/classify"
	"github.com/gastos-dev/gastos/internal/config"
	"github.com/gastos-dev/gastos/internal/gitops"
	"github.com/gastos-dev/gastos/internal/ledger"
)

func newInitCommand(opts *rootOptions) *cobra.Command {
	var useGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new gastos workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.repo
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd, absDir, useGit)
		},
	}

	cmd.Flags().BoolVar(&useGit, "git", false, "initialize a git repository and commit every ledger change")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, useGit bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	cfg := config.Default()
	cfg.Git.AutoCommit = useGit

	// Create directory structure.
	dirs := []string{
		dir,
		filepath.Dir(config.Resolve(dir, cfg.Rules.Path)),
		filepath.Dir(config.Resolve(dir, cfg.Logging.IngestLog)),
		config.Resolve(dir, cfg.Storage.ReceiptsDir),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := classify.SaveRules(config.Resolve(dir, cfg.Rules.Path), classify.DefaultRuleSet()); err != nil {
		return fmt.Errorf("writing classification rules: %w", err)
	}

	// Header-only ledger so the file exists from the start.
	if err := ledger.NewStore(config.Resolve(dir, cfg.Ledger.Path)).Save(nil); err != nil {
		return fmt.Errorf("writing ledger: %w", err)
	}

	out := cmd.OutOrStdout()
	if !useGit {
		fmt.Fprintf(out, "Initialized gastos workspace at %s\n", dir)
		return nil
	}

	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(".ledger-*.csv\n"), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	if err := gitops.Init(dir); err != nil {
		return err
	}
	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	hash, err := gitops.Commit(dir, "init: gastos workspace", author)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized gastos workspace at %s (%s)\n", dir, hash)
	return nil
}
