package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pb33f/wptlog/motor"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	baseURL     string
	days        int
	concurrency int
	windowFirst int
	windowLast  int
	outputFile  string
	Logger      *slog.Logger

	rootCmd = &cobra.Command{
		Use:   "wptlog",
		Short: "Export recent WebPageTest results as CSV",
		Long: `wptlog reads the test log of a WebPageTest instance, fetches the XML
result of every test in a fixed slice of the log and writes one CSV row per
test view. Tests that are still running get a single row with their status.
Every request is echoed to stderr as it completes.`,
		Args: cobra.NoArgs,
		Example: `  wptlog > results.csv
  wptlog --base-url http://localhost:9876 -o results.csv
  wptlog --concurrency 8 -v`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogger()
		},
		RunE: runExport,
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	defaults := motor.DefaultPipelineOptions()

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.Flags().StringVar(&baseURL, "base-url", defaults.BaseURL, "WebPageTest instance to query")
	rootCmd.Flags().IntVar(&days, "days", defaults.Days, "Days of test log to read")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", motor.DefaultConcurrency, "Maximum requests in flight")
	rootCmd.Flags().IntVar(&windowFirst, "window-first", defaults.Window.First, "First test log row to export (zero based, header is row 0)")
	rootCmd.Flags().IntVar(&windowLast, "window-last", defaults.Window.Last, "Last test log row to export (inclusive)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the CSV here instead of stdout")

	// will be reconfigured in PersistentPreRun based on flags
	setupLogger()
}

func runExport(cmd *cobra.Command, args []string) error {
	logger := GetLogger()

	if concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", concurrency)
	}
	if windowFirst < 0 || windowLast < windowFirst {
		return fmt.Errorf("invalid row window %d..%d", windowFirst, windowLast)
	}

	fetcher := motor.NewBoundedFetcher(motor.FetcherOptions{
		Concurrency: concurrency,
		Logger:      logger,
	})

	opts := motor.DefaultPipelineOptions()
	opts.BaseURL = baseURL
	opts.Days = days
	opts.Window = motor.Window{First: windowFirst, Last: windowLast}
	opts.Logger = logger

	report, err := motor.NewPipeline(fetcher, opts).Run(cmd.Context())
	if err != nil {
		return err
	}

	csv, err := motor.Serialize(report.Rows)
	if err != nil {
		return err
	}

	if err := writeReport(cmd.OutOrStdout(), csv); err != nil {
		return err
	}

	fetchStats := fetcher.Stats()
	logger.Info("report written",
		"references", report.Stats.References,
		"pending", report.Stats.Pending,
		"completed", report.Stats.Completed,
		"rows", report.Stats.Rows,
		"fields", report.Stats.Fields,
		"requests", fetchStats.Requests,
		"peak_in_flight", fetchStats.PeakInFlight,
		"avg_request", fetchStats.AverageDuration,
		"elapsed", report.Stats.Elapsed)

	return nil
}

// writeReport emits the whole report in a single write, to outputFile when
// set and to stdout otherwise.
func writeReport(stdout io.Writer, csv string) error {
	if outputFile == "" {
		if _, err := io.WriteString(stdout, csv); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(outputFile, []byte(csv), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// setupLogger configures the global slog logger based on the verbose flag
func setupLogger() {
	var opts *slog.HandlerOptions

	if verbose {
		opts = &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		}
	} else {
		opts = &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	Logger = slog.New(handler)
	slog.SetDefault(Logger)

	if verbose {
		Logger.Debug("verbose logging enabled",
			"level", slog.LevelDebug.String(),
			"pid", os.Getpid())
	}
}

// GetLogger returns the global logger instance
func GetLogger() *slog.Logger {
	if Logger == nil {
		setupLogger()
	}
	return Logger
}

// ValidateReportFile checks that path exists and is a regular file.
func ValidateReportFile(path string) error {
	if path == "" {
		return fmt.Errorf("report file path is required")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("report file does not exist: %s", path)
		}
		return fmt.Errorf("error accessing report file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("provided path is a directory, not a file: %s", path)
	}

	return nil
}
