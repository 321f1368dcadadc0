package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pb33f/wptlog/wptgen"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var (
	port      int
	serveDir  string
	serveSeed int64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a generated test log over HTTP",
	Long: `Start an HTTP server answering /testlog.php and /xmlResult/{id}/ the way
a WebPageTest instance does. Documents come from a directory written by
'wptlog generate', or are generated in memory when no directory is given.
Request counts are exposed on /metrics. Point the export at it with
--base-url.`,
	Args: cobra.NoArgs,
	Example: `  wptlog serve
  wptlog serve --dir fixtures --port 8080
  wptlog serve --seed 7 -v`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&port, "port", "p", 9876, "Port to listen on")
	serveCmd.Flags().StringVarP(&serveDir, "dir", "d", "", "Fixture directory written by 'generate' (default: generate in memory)")
	serveCmd.Flags().Int64VarP(&serveSeed, "seed", "s", 1, "Seed for in-memory fixtures")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := GetLogger()

	// Validate port range
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}

	var fixture *wptgen.Fixture
	var err error
	if serveDir != "" {
		fixture, err = wptgen.LoadDir(serveDir)
	} else {
		opts := wptgen.DefaultGenerateOptions
		opts.Seed = serveSeed
		opts.PendingEvery = 7
		fixture, err = wptgen.Generate(opts)
	}
	if err != nil {
		return fmt.Errorf("failed to load fixtures: %w", err)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           wptgen.InstrumentedHandler(fixture, prometheus.NewRegistry()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// capture interrupt signals for graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	logger.Info("test log server started",
		"address", fmt.Sprintf("http://localhost:%d", port),
		"results", len(fixture.Results),
		"metrics", fmt.Sprintf("http://localhost:%d/metrics", port),
		"source", fixtureSource())

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down test log server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	logger.Info("test log server stopped")
	return nil
}

func fixtureSource() string {
	if serveDir != "" {
		return serveDir
	}
	return fmt.Sprintf("memory (seed %d)", serveSeed)
}
