package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gastos-dev/gastos/internal/archive"
)

func newReceiptsCommand(opts *rootOptions) *cobra.Command {
	var dest string

	cmd := &cobra.Command{
		Use:   "receipts [name]",
		Short: "List archived receipts, or copy one out of the archive",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd, opts)
			if err != nil {
				return err
			}
			a, err := archive.New(ws.receiptsDir())
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return runReceiptsList(cmd, a)
			}
			return runReceiptsGet(cmd, a, args[0], dest)
		},
	}

	cmd.Flags().StringVarP(&dest, "output", "o", "-", "where to write the document (- for stdout)")

	return cmd
}

func runReceiptsList(cmd *cobra.Command, a *archive.Archive) error {
	names, err := a.List()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(names) == 0 {
		fmt.Fprintln(out, "No archived receipts.")
		return nil
	}
	for _, n := range names {
		fmt.Fprintln(out, n)
	}
	return nil
}

func runReceiptsGet(cmd *cobra.Command, a *archive.Archive, name, dest string) error {
	data, err := a.Open(name)
	if err != nil {
		return err
	}
	if dest == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return nil
}
