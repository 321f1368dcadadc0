package motor

import (
	"context"
	"net/http"

	"github.com/pb33f/wptlog/motor/model"
)

// Transport sends a single HTTP request. *http.Client satisfies it.
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

// Limiter admits a bounded amount of concurrent work. Waiters must be
// admitted in the order they arrived. *semaphore.Weighted satisfies it.
type Limiter interface {
	// Acquire blocks until n units are available or ctx is done
	Acquire(ctx context.Context, n int64) error

	// Release returns n units
	Release(n int64)
}

// Fetcher retrieves a document body by URL
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// RecordExtractor resolves a test log reference into a full record
type RecordExtractor interface {
	Extract(ctx context.Context, ref model.RunReference) (*model.RunRecord, error)
}
