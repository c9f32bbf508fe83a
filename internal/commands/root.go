package commands

import (
	"github.com/spf13/cobra"

	"github.com/gastos-dev/gastos/internal/buildinfo"
)

// rootOptions holds the persistent flags every subcommand reads.
type rootOptions struct {
	repo     string
	logLevel string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "gastos",
		Short:   "Household expense ledger fed from payment receipts",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.repo, "repo", ".", "workspace directory")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (default from gastos.yaml)")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newIngestCommand(opts),
		newAddCommand(opts),
		newListCommand(opts),
		newExportCommand(opts),
		newClassifyCommand(opts),
		newLogCommand(opts),
		newReceiptsCommand(opts),
		newServeCommand(opts),
	)

	return rootCmd
}
