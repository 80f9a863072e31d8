package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/seuros/hirefunnel/internal/dashboard"
	"github.com/seuros/hirefunnel/internal/funnel"
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Show the stage conversion rates",
	Long:  "Print the fixed stage-to-stage conversion rates and the cost of one lead.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return outputRates()
	},
}

func outputRates() error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	_, _ = fmt.Fprintln(w, "ПЕРЕХОД\tКОНВЕРСИЯ")
	_, _ = fmt.Fprintln(w, "-------\t---------")
	for _, t := range funnel.Breakdown() {
		_, _ = fmt.Fprintf(w, "%s\t%.2f%%\n", t.Label, t.Percent)
	}
	_, _ = fmt.Fprintf(w, "Стоимость лида\t%s ₽\n", dashboard.FormatAmount(funnel.LeadCost, 2))
	return nil
}
