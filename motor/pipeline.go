package motor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pb33f/wptlog/motor/model"
	"golang.org/x/sync/errgroup"
)

// Report is the buffered outcome of one pipeline run.
type Report struct {
	References []model.RunReference
	Records    []*model.RunRecord
	Rows       []*model.Row
	Stats      ReportStats
}

// Pipeline pulls the test log, resolves every reference into a record and
// flattens the records into report rows. The fetcher is shared by both
// stages, so its limit applies to the whole run.
type Pipeline struct {
	fetcher Fetcher
	details RecordExtractor
	opts    PipelineOptions
	logger  *slog.Logger
}

// NewPipeline wires a pipeline whose result documents are parsed by a
// DetailExtractor on the same fetcher.
func NewPipeline(fetcher Fetcher, opts PipelineOptions) *Pipeline {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Days == 0 {
		opts.Days = DefaultDays
	}
	logger := loggerOrDefault(opts.Logger)
	details := NewDetailExtractor(fetcher, DetailOptions{
		BaseURL: opts.BaseURL,
		Logger:  logger,
	})
	return NewPipelineWithExtractor(fetcher, details, opts)
}

// NewPipelineWithExtractor wires a pipeline around a custom record extractor.
func NewPipelineWithExtractor(fetcher Fetcher, details RecordExtractor, opts PipelineOptions) *Pipeline {
	return &Pipeline{
		fetcher: fetcher,
		details: details,
		opts:    opts,
		logger:  loggerOrDefault(opts.Logger),
	}
}

// References fetches the test log and extracts the references inside the
// configured row window.
func (p *Pipeline) References(ctx context.Context) ([]model.RunReference, error) {
	body, err := p.fetcher.Fetch(ctx, ListingURL(p.opts.BaseURL, p.opts.Days))
	if err != nil {
		return nil, err
	}
	return ExtractListing(body, p.opts.Window)
}

// Records resolves refs concurrently. The result has the same order as
// refs regardless of completion order; the first failure aborts the run
// and discards everything collected.
func (p *Pipeline) Records(ctx context.Context, refs []model.RunReference) ([]*model.RunRecord, error) {
	return resolveOrdered(ctx, refs, p.details.Extract)
}

// Run executes the whole job and returns the buffered report.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	start := time.Now()

	refs, err := p.References(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load test log: %w", err)
	}
	p.logger.Debug("test log loaded", "references", len(refs))

	records, err := p.Records(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve results: %w", err)
	}

	rows := Flatten(records)

	report := &Report{
		References: refs,
		Records:    records,
		Rows:       rows,
	}
	report.Stats = summarize(report)
	report.Stats.Elapsed = time.Since(start)
	return report, nil
}

func summarize(r *Report) ReportStats {
	stats := ReportStats{
		References: len(r.References),
		Rows:       len(r.Rows),
		Fields:     len(FieldUnion(r.Rows)),
	}
	for _, record := range r.Records {
		if record.Kind() == model.RecordPending {
			stats.Pending++
			continue
		}
		stats.Completed++
		stats.Runs += len(record.Runs)
	}
	return stats
}

// resolveOrdered applies fn to every item concurrently. Each goroutine
// writes only its own slot, which keeps input order without a reorder
// step. Goroutines are not limited here; admission happens in the fetcher.
func resolveOrdered[T, R any](ctx context.Context, items []T, fn func(context.Context, T) (R, error)) ([]R, error) {
	results := make([]R, len(items))

	var g errgroup.Group
	for i, item := range items {
		g.Go(func() error {
			r, err := fn(ctx, item)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
