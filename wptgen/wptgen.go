// Package wptgen generates WebPageTest style fixtures: a test log page and
// the XML result of every test it lists. Fixtures are deterministic for a
// given seed and can be written to disk or served over HTTP.
package wptgen

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pb33f/wptlog/motor/model"
)

const (
	listingFileName = "testlog.html"
	resultsDirName  = "xmlResult"
	resultExt       = ".xml"
)

// GenerateOptions configures fixture generation
type GenerateOptions struct {
	TestCount      int    // tests listed inside the row window
	LeadingRows    int    // rows before the window, header row included
	TrailingRows   int    // rows after the window
	PendingEvery   int    // every nth test is still running (0 = none)
	RunsPerTest    int    // run elements per completed result
	FramesPerView  int    // video frames per view
	SkipRepeatView bool   // emit first views only
	Seed           int64  // random seed for reproducibility (0 = use time)
	DictionaryPath string // word list for host names (empty = built in)
}

// DefaultGenerateOptions fills exactly the 50..91 row window of the test log
var DefaultGenerateOptions = GenerateOptions{
	TestCount:     42,
	LeadingRows:   50,
	TrailingRows:  5,
	RunsPerTest:   1,
	FramesPerView: 6,
}

// TestFixture describes one generated test, for assertions
type TestFixture struct {
	Ref        model.RunReference
	Row        int // zero based row index in the history table
	Pending    bool
	Runs       int
	RepeatView bool
}

// Fixture is a complete generated data set
type Fixture struct {
	ListingHTML string
	Results     map[string]string // test id -> XML result document
	Tests       []TestFixture     // tests inside the window, in row order
}

// Result returns the XML result document for id.
func (f *Fixture) Result(id string) (string, bool) {
	doc, ok := f.Results[id]
	return doc, ok
}

func applyDefaults(opts GenerateOptions) GenerateOptions {
	if opts.LeadingRows == 0 {
		opts.LeadingRows = DefaultGenerateOptions.LeadingRows
	}
	if opts.RunsPerTest == 0 {
		opts.RunsPerTest = DefaultGenerateOptions.RunsPerTest
	}
	if opts.FramesPerView == 0 {
		opts.FramesPerView = DefaultGenerateOptions.FramesPerView
	}
	return opts
}

// Generate creates a fixture in memory. A zero TestCount is honoured so
// empty logs can be tested.
func Generate(opts GenerateOptions) (*Fixture, error) {
	opts = applyDefaults(opts)

	// create local rng (avoid mutating global rand)
	var rng *rand.Rand
	if opts.Seed != 0 {
		rng = rand.New(rand.NewSource(opts.Seed))
	} else {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	dict, err := LoadDictionary(opts.DictionaryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionary: %w", err)
	}

	gen := newDocumentGenerator(dict, rng, opts)

	fixture := &Fixture{
		Results: make(map[string]string, opts.TestCount),
	}

	// row 0 is the header row, it counts towards the leading rows
	var rows []listingRow
	total := opts.LeadingRows + opts.TestCount + opts.TrailingRows
	for i := 1; i < total; i++ {
		rows = append(rows, gen.listingRow(i))
	}

	for _, row := range rows {
		if row.index < opts.LeadingRows || row.index >= opts.LeadingRows+opts.TestCount {
			continue
		}
		n := row.index - opts.LeadingRows + 1
		pending := opts.PendingEvery > 0 && n%opts.PendingEvery == 0

		tf := TestFixture{
			Ref:        row.ref,
			Row:        row.index,
			Pending:    pending,
			RepeatView: !opts.SkipRepeatView,
		}
		if pending {
			fixture.Results[row.ref.ID] = gen.pendingResult(row.ref)
		} else {
			tf.Runs = opts.RunsPerTest
			fixture.Results[row.ref.ID] = gen.completedResult(row.ref)
		}
		fixture.Tests = append(fixture.Tests, tf)
	}

	fixture.ListingHTML = renderListing(rows)
	return fixture, nil
}

// GenerateToDir generates a fixture and writes it below dir as
// testlog.html plus xmlResult/<id>.xml.
func GenerateToDir(dir string, opts GenerateOptions) (*Fixture, error) {
	fixture, err := Generate(opts)
	if err != nil {
		return nil, err
	}
	if err := fixture.WriteDir(dir); err != nil {
		return nil, err
	}
	return fixture, nil
}

// WriteDir writes f below dir.
func (f *Fixture) WriteDir(dir string) error {
	resultsDir := filepath.Join(dir, resultsDirName)
	if err := os.MkdirAll(resultsDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, listingFileName), []byte(f.ListingHTML), 0644); err != nil {
		return fmt.Errorf("failed to write listing: %w", err)
	}

	ids := make([]string, 0, len(f.Results))
	for id := range f.Results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		path := filepath.Join(resultsDir, id+resultExt)
		if err := os.WriteFile(path, []byte(f.Results[id]), 0644); err != nil {
			return fmt.Errorf("failed to write result %s: %w", id, err)
		}
	}
	return nil
}

// LoadDir reads a fixture previously written by WriteDir. Tests is left
// empty; only the documents are restored.
func LoadDir(dir string) (*Fixture, error) {
	listing, err := os.ReadFile(filepath.Join(dir, listingFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to read listing: %w", err)
	}

	entries, err := os.ReadDir(filepath.Join(dir, resultsDirName))
	if err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}

	fixture := &Fixture{
		ListingHTML: string(listing),
		Results:     make(map[string]string, len(entries)),
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), resultExt) {
			continue
		}
		doc, err := os.ReadFile(filepath.Join(dir, resultsDirName, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read result %s: %w", entry.Name(), err)
		}
		fixture.Results[strings.TrimSuffix(entry.Name(), resultExt)] = string(doc)
	}
	return fixture, nil
}
