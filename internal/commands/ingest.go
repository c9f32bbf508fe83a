package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gastos-dev/gastos/internal/ingest"
)

func newIngestCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file|dir>...",
		Short: "Read PDF receipts and add new expenses to the ledger",
		Long: `Reads each PDF (directories contribute every *.pdf inside them), extracts
provider, amount and date, classifies the expense and appends the records
that are not already in the ledger. Documents that cannot be read are
listed so they can be entered with "gastos add".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd, opts)
			if err != nil {
				return err
			}
			return runIngest(cmd, ws, args)
		},
	}
}

func runIngest(cmd *cobra.Command, ws *workspace, args []string) error {
	paths, err := ingest.Expand(args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(paths) == 0 {
		fmt.Fprintln(out, "No PDF files found.")
		return nil
	}

	docs, err := ingest.LoadDocuments(paths)
	if err != nil {
		return err
	}
	// Receipts already in the archive are not copied into it again.
	for i, p := range paths {
		if abs, err := filepath.Abs(p); err == nil && inside(ws.receiptsDir(), abs) {
			docs[i].Archived = true
		}
	}

	svc, err := ws.service()
	if err != nil {
		return err
	}
	report, err := svc.Ingest(cmd.Context(), docs)
	if err != nil {
		return err
	}

	printReport(out, report)
	return nil
}

func printReport(out io.Writer, report *ingest.Report) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, e := range report.New {
		fmt.Fprintf(tw, "NEW\t%s\t%s\t%s/%s\n", e.Document, e.Record, e.Record.Type.Label(), e.Record.Category)
	}
	for _, e := range report.Duplicates {
		fmt.Fprintf(tw, "DUPLICATE\t%s\t%s\t\n", e.Document, e.Record)
	}
	for _, f := range report.Failures {
		fmt.Fprintf(tw, "FAILED\t%s\t%s\t%s\n", f.Document, f.Message, f.Kind)
	}
	tw.Flush()

	// color disables itself when stdout is not a terminal.
	summary := color.New(color.FgGreen)
	if report.NeedsManualEntry() {
		summary = color.New(color.FgYellow)
	}
	summary.Fprintf(out, "%d documents: %d new, %d duplicate, %d failed\n",
		report.Total, len(report.New), len(report.Duplicates), len(report.Failures))
	if report.NeedsManualEntry() {
		fmt.Fprintln(out, `Enter failed receipts by hand: gastos add --date YYYY-MM-DD --provider NAME --amount 1234.56`)
	}
}
