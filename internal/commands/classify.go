package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gastos-dev/gastos/internal/classify"
)

func newClassifyCommand(opts *rootOptions) *cobra.Command {
	var showRules bool

	cmd := &cobra.Command{
		Use:   "classify [provider...]",
		Short: "Show the type and category the rules assign to a provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !showRules && len(args) == 0 {
				return errors.New("requires a provider, or --rules to list the rules")
			}
			ws, err := openWorkspace(cmd, opts)
			if err != nil {
				return err
			}
			classifier, err := ws.classifier()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if showRules {
				return printRules(out, classifier)
			}
			typ, category := classifier.Classify(strings.Join(args, " "))
			fmt.Fprintf(out, "%s\t%s\n", typ.Label(), category)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showRules, "rules", false, "list the rules in match order")

	return cmd
}

func printRules(out io.Writer, c *classify.Classifier) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCLAVE\tTIPO\tCATEGORÍA")
	for i, r := range c.Rules() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, r.Key, r.Type.Label(), r.Category)
	}
	typ, category := c.Default()
	fmt.Fprintf(tw, "-\t(default)\t%s\t%s\n", typ.Label(), category)
	return tw.Flush()
}
