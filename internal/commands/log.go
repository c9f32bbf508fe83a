package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/gastos-dev/gastos/internal/ingestlog"
)

func newLogCommand(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the ingest audit log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd, opts)
			if err != nil {
				return err
			}
			return runLog(cmd, ws, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show only the last n entries")

	return cmd
}

func runLog(cmd *cobra.Command, ws *workspace, limit int) error {
	entries, err := ingestlog.Read(ws.path(ws.cfg.Logging.IngestLog))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "Ingest log is empty.")
		return nil
	}
	if limit > 0 && limit < len(entries) {
		entries = entries[len(entries)-limit:]
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tOUTCOME\tDOCUMENT\tPROVIDER\tAMOUNT\tDATE\tDETAIL")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format(time.DateTime), e.Outcome, e.Document, e.Provider, e.Amount, e.Date, e.Detail)
	}
	return tw.Flush()
}
