package motor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// BoundedFetcher performs GET requests with a fixed number of requests in
// flight. Callers beyond the limit wait in arrival order.
type BoundedFetcher struct {
	transport Transport
	limiter   Limiter
	logger    *slog.Logger
	stats     atomicFetchStats
}

type atomicFetchStats struct {
	requests        int64
	failures        int64
	bytesRead       int64
	inFlight        int64
	peakInFlight    int64
	totalDurationNs int64
}

func NewBoundedFetcher(opts FetcherOptions) *BoundedFetcher {
	limiter := opts.Limiter
	if limiter == nil {
		n := opts.Concurrency
		if n < 1 {
			n = DefaultConcurrency
		}
		limiter = semaphore.NewWeighted(int64(n))
	}

	transport := opts.Transport
	if transport == nil {
		transport = &http.Client{}
	}

	return &BoundedFetcher{
		transport: transport,
		limiter:   limiter,
		logger:    loggerOrDefault(opts.Logger),
	}
}

// Fetch returns the body of url. Every request that was sent is echoed to
// the logger once it completes, whether it succeeded or not.
func (f *BoundedFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := f.limiter.Acquire(ctx, 1); err != nil {
		return "", &FetchFailure{URL: url, Cause: err}
	}

	f.trackPeak(atomic.AddInt64(&f.stats.inFlight, 1))
	start := time.Now()

	body, status, err := f.get(ctx, url)

	elapsed := time.Since(start)
	atomic.AddInt64(&f.stats.inFlight, -1)
	f.limiter.Release(1)

	atomic.AddInt64(&f.stats.requests, 1)
	atomic.AddInt64(&f.stats.totalDurationNs, int64(elapsed))
	atomic.AddInt64(&f.stats.bytesRead, int64(len(body)))

	if err != nil {
		atomic.AddInt64(&f.stats.failures, 1)
		f.logger.Info("fetched", "url", url, "status", status, "duration", elapsed, "error", err)
		return "", err
	}

	f.logger.Info("fetched", "url", url, "status", status, "bytes", len(body), "duration", elapsed)
	return body, nil
}

func (f *BoundedFetcher) get(ctx context.Context, url string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, &FetchFailure{URL: url, Cause: err}
	}

	resp, err := f.transport.Do(req)
	if err != nil {
		return "", 0, &FetchFailure{URL: url, Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, &FetchFailure{
			URL:        url,
			StatusCode: resp.StatusCode,
			Cause:      fmt.Errorf("failed to read body: %w", err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", resp.StatusCode, &FetchFailure{
			URL:        url,
			StatusCode: resp.StatusCode,
			Cause:      ErrUnexpectedStatus,
		}
	}

	return string(data), resp.StatusCode, nil
}

// compare-and-swap loop so concurrent callers never lower the peak
func (f *BoundedFetcher) trackPeak(current int64) {
	for {
		peak := atomic.LoadInt64(&f.stats.peakInFlight)
		if current <= peak {
			return
		}
		if atomic.CompareAndSwapInt64(&f.stats.peakInFlight, peak, current) {
			return
		}
	}
}

func (f *BoundedFetcher) Stats() FetcherStats {
	requests := atomic.LoadInt64(&f.stats.requests)
	var avg time.Duration
	if requests > 0 {
		avg = time.Duration(atomic.LoadInt64(&f.stats.totalDurationNs) / requests)
	}

	return FetcherStats{
		Requests:        requests,
		Failures:        atomic.LoadInt64(&f.stats.failures),
		BytesRead:       atomic.LoadInt64(&f.stats.bytesRead),
		InFlight:        atomic.LoadInt64(&f.stats.inFlight),
		PeakInFlight:    atomic.LoadInt64(&f.stats.peakInFlight),
		AverageDuration: avg,
	}
}
