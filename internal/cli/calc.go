package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/seuros/hirefunnel/internal/config"
	"github.com/seuros/hirefunnel/internal/dashboard"
	"github.com/seuros/hirefunnel/internal/funnel"
	"github.com/seuros/hirefunnel/internal/history"
)

const defaultBarWidth = 40

var (
	calcFormat string
	calcPeriod string
)

var calcCmd = &cobra.Command{
	Use:   "calc [target-leads] [--format table|json|csv|yaml]",
	Short: "Calculate the funnel for a lead count",
	Long: `Run a lead count through the recruitment funnel and print every stage,
the conversion figures and the cost per adapted hire.

Without an argument the configured default lead count is used. A value that is
not a non-negative integer counts as 0.

Supported formats:
  table  - Human-readable table with bars (default)
  json   - Full dashboard view as JSON
  csv    - One row per stage
  yaml   - Full dashboard view as YAML`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCalc(os.Stdout, args, calcPeriod, calcFormat)
	},
}

func init() {
	calcCmd.Flags().StringVarP(&calcFormat, "format", "f", "table", "Output format (table, json, csv, yaml)")
	calcCmd.Flags().StringVarP(&calcPeriod, "period", "p", "", "Reporting period (week, month, quarter)")
}

func runCalc(w io.Writer, args []string, periodFlag, format string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	leads := cfg.DefaultTargetLeads
	if len(args) == 1 {
		leads = funnel.ParseTargetLeads(args[0])
	}

	def, err := history.ParsePeriod(cfg.DefaultPeriod, history.PeriodMonth)
	if err != nil {
		return fmt.Errorf("invalid default period: %w", err)
	}
	period, err := history.ParsePeriod(periodFlag, def)
	if err != nil {
		return err
	}

	src, err := history.Open(cfg.HistoryFile)
	if err != nil {
		return err
	}

	view := dashboard.Build(funnel.Input{TargetLeads: leads}, period, src)
	return writeView(w, view, format, terminalWidth())
}

func writeView(w io.Writer, view dashboard.View, format string, width int) error {
	switch format {
	case "", "table":
		return outputFunnelTable(w, view, width)
	case "json":
		return outputViewJSON(w, view)
	case "yaml":
		return outputViewYAML(w, view)
	case "csv":
		return outputStagesCSV(w, view.Funnel)
	default:
		return fmt.Errorf("invalid format: %s (use table, json, csv or yaml)", format)
	}
}

// terminalWidth returns the bar width for table output.
func terminalWidth() int {
	cols, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols <= 0 {
		return defaultBarWidth
	}
	return max(cols/3, 10)
}

func outputViewJSON(w io.Writer, view dashboard.View) error {
	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func outputViewYAML(w io.Writer, view dashboard.View) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(view); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return enc.Close()
}

func outputStagesCSV(w io.Writer, res funnel.Result) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"key", "label", "count", "stage_conversion", "cumulative_conversion"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, s := range res.Stages {
		err := cw.Write([]string{
			string(s.Key),
			s.Label,
			strconv.Itoa(s.Count),
			strconv.FormatFloat(s.StageConversion, 'f', 2, 64),
			s.CumulativeConversion.Format(2),
		})
		if err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func outputFunnelTable(w io.Writer, view dashboard.View, width int) error {
	res := view.Funnel
	_, _ = fmt.Fprintf(w, "Воронка подбора: %d лидов (%s)\n\n", res.TargetLeads, view.Period.Label())

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ЭТАП\tКОЛ-ВО\tКОНВЕРСИЯ\tОТ ЛИДОВ\t")
	_, _ = fmt.Fprintln(tw, "----\t------\t---------\t--------\t")
	for _, s := range res.Stages {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%.2f%%\t%s\t%s\n",
			s.Label,
			s.Count,
			s.StageConversion,
			dashboard.FormatPercent(s.CumulativeConversion),
			bar(s.Count, res.TargetLeads, width),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(w)
	for _, card := range view.Cards {
		_, _ = fmt.Fprintf(w, "%s: %s (%s)\n", card.Title, card.Value, card.Caption)
	}
	return nil
}

// bar draws count relative to total. A non-zero count always gets one cell.
func bar(count, total, width int) string {
	if total <= 0 || count <= 0 || width <= 0 {
		return ""
	}
	n := int(float64(count) / float64(total) * float64(width))
	n = min(max(n, 1), width)
	return strings.Repeat("█", n)
}
