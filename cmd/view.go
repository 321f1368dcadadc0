package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view <report.csv>",
	Short: "Browse a CSV report in the terminal UI",
	Long: `Launch an interactive terminal user interface over a report written by
wptlog. The table shows the id, view, status, url, load time, visual 70%
time and DOMContentLoaded duration of every row; Enter opens all cells of
the selected row.`,
	Args: cobra.ExactArgs(1), // Require exactly one positional argument
	Example: `  wptlog view results.csv
  wptlog view results.csv -v`,
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	reportFile := args[0]
	logger := GetLogger()

	// Validate the report exists and is accessible
	if err := ValidateReportFile(reportFile); err != nil {
		return err
	}

	logger.Debug("launching terminal UI", "report", reportFile)

	if err := LaunchTUI(reportFile); err != nil {
		return fmt.Errorf("failed to launch TUI: %w", err)
	}

	return nil
}
