package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gastos-dev/gastos/internal/ingest"
	"github.com/gastos-dev/gastos/internal/model"
)

type addOptions struct {
	date     string
	provider string
	amount   string
	typ      string
	category string
}

func newAddCommand(opts *rootOptions) *cobra.Command {
	var a addOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense by hand",
		Long: `Adds one record to the ledger without a receipt. Type and category default
to what the classification rules say for the provider. Manual entries are
not checked for duplicates.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd, opts)
			if err != nil {
				return err
			}
			return runAdd(cmd, ws, a)
		},
	}

	cmd.Flags().StringVar(&a.date, "date", time.Now().Format(model.DateFormat), "payment date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&a.provider, "provider", "", "who was paid (required)")
	cmd.Flags().StringVar(&a.amount, "amount", "", "amount paid, 1234.56 or 1.234,56; 1.234 means one thousand (required)")
	cmd.Flags().StringVar(&a.typ, "type", "", "Fijo or Variable (default from rules)")
	cmd.Flags().StringVar(&a.category, "category", "", "category (default from rules)")
	_ = cmd.MarkFlagRequired("provider")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func runAdd(cmd *cobra.Command, ws *workspace, a addOptions) error {
	svc, err := ws.service()
	if err != nil {
		return err
	}

	if a.typ == "" || a.category == "" {
		typ, category := svc.Classifier().Classify(a.provider)
		if a.typ == "" {
			a.typ = typ.Label()
		}
		if a.category == "" {
			a.category = category
		}
	}

	entry, err := ingest.ParseManualEntry(a.date, a.provider, a.amount, a.typ, a.category)
	if err != nil {
		return err
	}
	rec, err := svc.AddManual(cmd.Context(), entry)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s/%s)\n", rec, rec.Type.Label(), rec.Category)
	return nil
}
