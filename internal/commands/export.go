package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path|->",
		Short: "Write a copy of the ledger CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd, opts)
			if err != nil {
				return err
			}
			return runExport(cmd, ws, args[0])
		},
	}
}

func runExport(cmd *cobra.Command, ws *workspace, dest string) error {
	store := ws.store()
	if dest == "-" {
		return store.Export(cmd.OutOrStdout())
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	if err := store.Export(f); err != nil {
		f.Close()
		return fmt.Errorf("exporting ledger: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", dest, err)
	}
	ws.logger.Info("ledger exported", "path", dest)
	return nil
}
