package motor

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pb33f/wptlog/wptgen"
	"github.com/stretchr/testify/require"
)

// stubFetcher serves fixed bodies by URL; unknown URLs fail with a 404
// FetchFailure.
type stubFetcher struct {
	bodies map[string]string
	mu     sync.Mutex
	urls   []string
}

func (s *stubFetcher) Fetch(ctx context.Context, url string) (string, error) {
	s.mu.Lock()
	s.urls = append(s.urls, url)
	s.mu.Unlock()

	body, ok := s.bodies[url]
	if !ok {
		return "", &FetchFailure{URL: url, StatusCode: http.StatusNotFound, Cause: ErrUnexpectedStatus}
	}
	return body, nil
}

func (s *stubFetcher) requested() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.urls...)
}

type transportFunc func(*http.Request) (*http.Response, error)

func (f transportFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

func textResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// captureLogger returns a logger writing text lines into the returned buffer
func captureLogger() (*slog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// fixtureServer serves a generated fixture and counts requests that
// missed (404).
type fixtureServer struct {
	*httptest.Server
	fixture  *wptgen.Fixture
	requests int64
	misses   int64
}

func newFixtureServer(t *testing.T, opts wptgen.GenerateOptions) *fixtureServer {
	t.Helper()

	fixture, err := wptgen.Generate(opts)
	require.NoError(t, err)

	fs := &fixtureServer{fixture: fixture}
	handler := wptgen.Handler(fixture)
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&fs.requests, 1)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		handler.ServeHTTP(rec, r)
		if rec.status == http.StatusNotFound {
			atomic.AddInt64(&fs.misses, 1)
		}
	}))
	t.Cleanup(fs.Close)
	return fs
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
