package cli

import (
	"github.com/spf13/cobra"
)

var Version string

// DashboardTemplate is the dashboard page, embedded by main.
var DashboardTemplate []byte

// RootCmd represents the root command
var RootCmd = &cobra.Command{
	Use:   "hirefunnel",
	Short: "Recruitment funnel dashboard",
	Long: `HireFunnel - recruitment funnel calculator.

HireFunnel turns a target number of leads into the expected number of hires,
stage by stage, using fixed conversion rates, and shows what each hire costs.`,
	Version: Version,
	// Default to serve command if no subcommand provided
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return runServe(serveOverrides(serveCmd))
		}
		return cmd.Help()
	},
}

// Execute is called by main
func Execute(version string, dashboardTemplate []byte) error {
	Version = version
	DashboardTemplate = dashboardTemplate

	RootCmd.Version = version

	return RootCmd.Execute()
}

func init() {
	RootCmd.AddCommand(serveCmd)
	RootCmd.AddCommand(calcCmd)
	RootCmd.AddCommand(ratesCmd)
	RootCmd.AddCommand(historyCmd)

	setupSelfUpgrade()

	RootCmd.Version = Version
}
