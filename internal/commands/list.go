package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/gastos-dev/gastos/internal/model"
)

func newListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd, opts)
			if err != nil {
				return err
			}
			return runList(cmd, ws)
		},
	}
}

func runList(cmd *cobra.Command, ws *workspace) error {
	records, err := ws.store().Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "Ledger is empty.")
		return nil
	}

	totals := map[model.ExpenseType]decimal.Decimal{}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "FECHA\tPROVEEDOR\tMONTO\tTIPO\tCATEGORÍA\t")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n",
			r.Date.Format(model.DateFormat), r.Provider, model.FormatAmount(r.Amount), r.Type.Label(), r.Category)
		totals[r.Type] = totals[r.Type].Add(r.Amount)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fixed, variable := totals[model.ExpenseFixed], totals[model.ExpenseVariable]
	fmt.Fprintf(out, "%d records. Fijo %s, Variable %s, total %s\n",
		len(records), model.FormatAmount(fixed), model.FormatAmount(variable), model.FormatAmount(fixed.Add(variable)))
	return nil
}
