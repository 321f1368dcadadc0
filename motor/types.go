package motor

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the WebPageTest instance queried when no other is given.
	DefaultBaseURL = "http://www.webpagetest.org"

	// DefaultDays is how many days of test log the listing covers.
	DefaultDays = 7

	// DefaultConcurrency is the number of requests allowed in flight at once,
	// shared by the listing fetch and every result fetch.
	DefaultConcurrency = 4

	// DefaultWindowFirst and DefaultWindowLast bound the listing rows that
	// are turned into references (zero based, inclusive).
	DefaultWindowFirst = 50
	DefaultWindowLast  = 91

	listingPathFormat = "/testlog.php?days=%d&filter=&all=on"
	detailPathFormat  = "/xmlResult/%s/"
)

var (
	// ErrMalformedListing is returned when a kept listing row has no result link.
	ErrMalformedListing = errors.New("listing row has no result link")

	// ErrUnexpectedStatus is the cause of a FetchFailure for a non-2xx response.
	ErrUnexpectedStatus = errors.New("unexpected response status")
)

// FetchFailure is returned when a request could not be completed or the
// server answered with a non-2xx status.
type FetchFailure struct {
	URL        string
	StatusCode int
	Cause      error
}

func (e *FetchFailure) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: %v (%d)", e.URL, e.Cause, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Cause)
}

func (e *FetchFailure) Unwrap() error {
	return e.Cause
}

// SerializationFailure is returned when the CSV encoder rejects the report.
type SerializationFailure struct {
	Cause error
}

func (e *SerializationFailure) Error() string {
	return fmt.Sprintf("failed to serialize report: %v", e.Cause)
}

func (e *SerializationFailure) Unwrap() error {
	return e.Cause
}

// Window is an inclusive range of zero based listing row indexes.
type Window struct {
	First int
	Last  int
}

// DefaultWindow returns the row window the upstream test log paginates on.
func DefaultWindow() Window {
	return Window{First: DefaultWindowFirst, Last: DefaultWindowLast}
}

// Contains reports whether row index i falls inside the window.
func (w Window) Contains(i int) bool {
	return i >= w.First && i <= w.Last
}

// ListingURL returns the test log address for baseURL.
func ListingURL(baseURL string, days int) string {
	return baseURL + fmt.Sprintf(listingPathFormat, days)
}

// DetailURL returns the XML result address of test id.
func DetailURL(baseURL, id string) string {
	return baseURL + fmt.Sprintf(detailPathFormat, id)
}

type FetcherOptions struct {
	// Concurrency sizes the default limiter. Ignored when Limiter is set.
	Concurrency int
	// Limiter overrides the admission control.
	Limiter Limiter
	// Transport performs the requests. Defaults to an http.Client with no
	// timeout: a hung request holds its slot until the server gives up.
	Transport Transport
	Logger    *slog.Logger
}

func DefaultFetcherOptions() FetcherOptions {
	return FetcherOptions{
		Concurrency: DefaultConcurrency,
		Transport:   &http.Client{},
	}
}

type FetcherStats struct {
	Requests        int64
	Failures        int64
	BytesRead       int64
	InFlight        int64
	PeakInFlight    int64
	AverageDuration time.Duration
}

type PipelineOptions struct {
	BaseURL string
	Days    int
	Window  Window
	Logger  *slog.Logger
}

func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		BaseURL: DefaultBaseURL,
		Days:    DefaultDays,
		Window:  DefaultWindow(),
	}
}

// ReportStats summarises a pipeline run.
type ReportStats struct {
	References int
	Pending    int
	Completed  int
	Runs       int
	Rows       int
	Fields     int
	Elapsed    time.Duration
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
