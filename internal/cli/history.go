package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/seuros/hirefunnel/internal/config"
	"github.com/seuros/hirefunnel/internal/history"
)

var historyFile string

var historyCmd = &cobra.Command{
	Use:   "history [--file months.yaml]",
	Short: "Show the monthly trend",
	Long: `Print the monthly leads and adapted hires shown on the dashboard.

The trend comes from --file, then the configured history_file, then the
built-in sample.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := historyFile
		if path == "" {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			path = cfg.HistoryFile
		}

		src, err := history.Open(path)
		if err != nil {
			return err
		}
		return outputHistory(src.Months())
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyFile, "file", "", "YAML file with the monthly trend")
}

func outputHistory(months []history.Month) error {
	if len(months) == 0 {
		fmt.Println("No history")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	_, _ = fmt.Fprintln(w, "МЕСЯЦ\tЛИДЫ\tАДАПТИРОВАНО")
	_, _ = fmt.Fprintln(w, "-----\t----\t------------")
	for _, m := range months {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\n", m.Month, m.Leads, m.Adapted)
	}
	return nil
}
