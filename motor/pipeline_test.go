package motor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pb33f/wptlog/motor/model"
	"github.com/pb33f/wptlog/wptgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixturePipeline(t *testing.T, opts wptgen.GenerateOptions) (*Pipeline, *BoundedFetcher, *fixtureServer) {
	t.Helper()
	server := newFixtureServer(t, opts)

	fetcher := NewBoundedFetcher(FetcherOptions{Concurrency: DefaultConcurrency, Logger: discardLogger()})
	popts := DefaultPipelineOptions()
	popts.BaseURL = server.URL
	popts.Logger = discardLogger()

	return NewPipeline(fetcher, popts), fetcher, server
}

func TestPipeline_Run_GeneratedLog(t *testing.T) {
	opts := wptgen.DefaultGenerateOptions
	opts.Seed = 11
	opts.PendingEvery = 5
	opts.RunsPerTest = 2

	pipeline, fetcher, server := fixturePipeline(t, opts)

	report, err := pipeline.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.References, 42)
	require.Len(t, report.Records, 42)
	assert.Equal(t, int64(0), atomic.LoadInt64(&server.misses), "every id resolves to a result")
	assert.Equal(t, int64(43), atomic.LoadInt64(&server.requests))

	for i, tf := range server.fixture.Tests {
		assert.Equal(t, tf.Ref, report.References[i])
		assert.Equal(t, tf.Ref.ID, report.Records[i].ID, "records keep listing order")
		if tf.Pending {
			assert.Equal(t, model.RecordPending, report.Records[i].Kind())
		} else {
			assert.Equal(t, model.RecordCompleted, report.Records[i].Kind())
			assert.Len(t, report.Records[i].Runs, 2)
		}
	}

	assert.Equal(t, ExpectedRowCount(report.Records), len(report.Rows))
	// 8 pending tests, 34 completed with two runs of two views each
	assert.Equal(t, 8+34*4, len(report.Rows))
	assert.Equal(t, 8, report.Stats.Pending)
	assert.Equal(t, 34, report.Stats.Completed)
	assert.Equal(t, 68, report.Stats.Runs)
	assert.Equal(t, len(report.Rows), report.Stats.Rows)

	stats := fetcher.Stats()
	assert.Equal(t, int64(43), stats.Requests)
	assert.LessOrEqual(t, stats.PeakInFlight, int64(DefaultConcurrency))

	out, err := Serialize(report.Rows)
	require.NoError(t, err)
	header := strings.SplitN(out, "\n", 2)[0]
	assert.True(t, strings.HasPrefix(header, "view,id,date,network,url,statusCode,statusText,summary"),
		"the first row is a completed view, so its layout leads the header")
}

func TestPipeline_Run_EmptyWindow(t *testing.T) {
	opts := wptgen.DefaultGenerateOptions
	opts.Seed = 3
	opts.TestCount = 0
	opts.LeadingRows = 10
	opts.TrailingRows = 0

	pipeline, _, server := fixturePipeline(t, opts)

	report, err := pipeline.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.References)
	assert.Empty(t, report.Rows)
	assert.Equal(t, int64(1), atomic.LoadInt64(&server.requests), "only the log is fetched")
}

func TestPipeline_Run_DetailFailureAborts(t *testing.T) {
	opts := wptgen.DefaultGenerateOptions
	opts.Seed = 5

	server := newFixtureServer(t, opts)
	missing := server.fixture.Tests[7].Ref.ID
	delete(server.fixture.Results, missing)

	popts := DefaultPipelineOptions()
	popts.BaseURL = server.URL
	popts.Logger = discardLogger()
	pipeline := NewPipeline(NewBoundedFetcher(FetcherOptions{Logger: discardLogger()}), popts)

	report, err := pipeline.Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, report, "no partial report")

	var failure *FetchFailure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, DetailURL(server.URL, missing), failure.URL)
	assert.Equal(t, 404, failure.StatusCode)
}

func TestPipeline_Run_ListingFailure(t *testing.T) {
	fetcher := &stubFetcher{bodies: map[string]string{}}
	pipeline := NewPipeline(fetcher, PipelineOptions{BaseURL: "http://wpt.test", Window: DefaultWindow(), Logger: discardLogger()})

	_, err := pipeline.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load test log")
	assert.Equal(t, []string{ListingURL("http://wpt.test", DefaultDays)}, fetcher.requested())
}

func TestPipeline_Run_MalformedListing(t *testing.T) {
	listing := buildListing(60)
	listing = strings.Replace(listing, `<a href="/result/ID55/">`, "", 1)

	fetcher := &stubFetcher{bodies: map[string]string{
		ListingURL("http://wpt.test", DefaultDays): listing,
	}}
	pipeline := NewPipeline(fetcher, PipelineOptions{BaseURL: "http://wpt.test", Days: DefaultDays, Window: DefaultWindow(), Logger: discardLogger()})

	_, err := pipeline.Run(context.Background())
	assert.ErrorIs(t, err, ErrMalformedListing)
}

// delayedExtractor finishes later references first
type delayedExtractor struct {
	total int
	order chan string
}

func (d *delayedExtractor) Extract(ctx context.Context, ref model.RunReference) (*model.RunRecord, error) {
	var n int
	fmt.Sscanf(ref.ID, "t%d", &n)
	time.Sleep(time.Duration(d.total-n) * 5 * time.Millisecond)
	d.order <- ref.ID
	return model.NewPendingRecord(ref, "100", "Test Started"), nil
}

func TestPipeline_Records_KeepsInputOrder(t *testing.T) {
	refs := make([]model.RunReference, 10)
	for i := range refs {
		refs[i] = model.RunReference{ID: fmt.Sprintf("t%d", i)}
	}

	extractor := &delayedExtractor{total: len(refs), order: make(chan string, len(refs))}
	pipeline := NewPipelineWithExtractor(&stubFetcher{}, extractor, DefaultPipelineOptions())

	records, err := pipeline.Records(context.Background(), refs)
	require.NoError(t, err)
	close(extractor.order)

	var completion []string
	for id := range extractor.order {
		completion = append(completion, id)
	}
	assert.Equal(t, "t9", completion[0], "later references finished first")

	require.Len(t, records, len(refs))
	for i, record := range records {
		assert.Equal(t, refs[i].ID, record.ID)
	}
}

type failingExtractor struct {
	failOn string
}

func (f failingExtractor) Extract(ctx context.Context, ref model.RunReference) (*model.RunRecord, error) {
	if ref.ID == f.failOn {
		return nil, errors.New("result unavailable")
	}
	return model.NewPendingRecord(ref, "100", ""), nil
}

func TestPipeline_Records_FirstFailureDiscardsAll(t *testing.T) {
	refs := []model.RunReference{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	pipeline := NewPipelineWithExtractor(&stubFetcher{}, failingExtractor{failOn: "b"}, DefaultPipelineOptions())

	records, err := pipeline.Records(context.Background(), refs)
	assert.EqualError(t, err, "result unavailable")
	assert.Nil(t, records)
}
