package wptgen

import (
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Deterministic(t *testing.T) {
	opts := DefaultGenerateOptions
	opts.Seed = 99

	a, err := Generate(opts)
	require.NoError(t, err)
	b, err := Generate(opts)
	require.NoError(t, err)

	assert.Equal(t, a.ListingHTML, b.ListingHTML)
	assert.Equal(t, a.Results, b.Results)
	assert.Equal(t, a.Tests, b.Tests)
}

func TestGenerate_Layout(t *testing.T) {
	opts := DefaultGenerateOptions
	opts.Seed = 1
	opts.PendingEvery = 4

	f, err := Generate(opts)
	require.NoError(t, err)

	require.Len(t, f.Tests, 42)
	assert.Len(t, f.Results, 42, "only tests inside the window get results")
	assert.Equal(t, 50, f.Tests[0].Row)
	assert.Equal(t, 91, f.Tests[41].Row)

	// header row plus every generated row
	assert.Equal(t, 50+42+5, strings.Count(f.ListingHTML, "<tr>"))

	pending := 0
	for _, tf := range f.Tests {
		doc, ok := f.Result(tf.Ref.ID)
		require.True(t, ok)
		assert.Contains(t, f.ListingHTML, `href="/result/`+tf.Ref.ID+`/"`)
		if tf.Pending {
			pending++
			assert.NotContains(t, doc, "<run>")
			assert.Equal(t, 0, tf.Runs)
		} else {
			assert.Contains(t, doc, "<statusCode>200</statusCode>")
			assert.Equal(t, 1, strings.Count(doc, "<run>"))
			assert.Equal(t, 2*opts.FramesPerView, strings.Count(doc, "<frame>"))
		}
	}
	assert.Equal(t, 10, pending)
}

func TestGenerate_SkipRepeatView(t *testing.T) {
	opts := DefaultGenerateOptions
	opts.Seed = 2
	opts.TestCount = 3
	opts.RunsPerTest = 2
	opts.SkipRepeatView = true

	f, err := Generate(opts)
	require.NoError(t, err)
	require.Len(t, f.Tests, 3)

	for _, tf := range f.Tests {
		doc, _ := f.Result(tf.Ref.ID)
		assert.Equal(t, 2, strings.Count(doc, "<firstView>"))
		assert.NotContains(t, doc, "<repeatView>")
		assert.False(t, tf.RepeatView)
	}
}

func TestGenerate_LastFrameComplete(t *testing.T) {
	opts := DefaultGenerateOptions
	opts.Seed = 8
	opts.TestCount = 1

	f, err := Generate(opts)
	require.NoError(t, err)

	doc, _ := f.Result(f.Tests[0].Ref.ID)
	assert.Contains(t, doc, "<VisuallyComplete>100</VisuallyComplete>\n</frame>\n</videoFrames>")
}

func TestWriteDir_LoadDir(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultGenerateOptions
	opts.Seed = 4
	opts.TestCount = 5

	f, err := GenerateToDir(dir, opts)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "testlog.html"))
	require.NoError(t, err)

	loaded, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, f.ListingHTML, loaded.ListingHTML)
	assert.Equal(t, f.Results, loaded.Results)
	assert.Empty(t, loaded.Tests)
}

func TestLoadDir_Missing(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestHandler(t *testing.T) {
	opts := DefaultGenerateOptions
	opts.Seed = 6
	opts.TestCount = 2

	f, err := Generate(opts)
	require.NoError(t, err)

	server := httptest.NewServer(Handler(f))
	defer server.Close()

	get := func(path string) (int, string) {
		resp, err := http.Get(server.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	status, body := get("/testlog.php?days=7&filter=&all=on")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, f.ListingHTML, body)

	id := f.Tests[1].Ref.ID
	status, body = get("/xmlResult/" + id + "/")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, f.Results[id], body)

	status, _ = get("/xmlResult/unknown/")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestLoadDictionary(t *testing.T) {
	d, err := LoadDictionary("")
	require.NoError(t, err)
	assert.Equal(t, len(fallbackWords), d.Size())

	d, err = LoadDictionary(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Equal(t, len(fallbackWords), d.Size())

	path := filepath.Join(t.TempDir(), "words")
	require.NoError(t, os.WriteFile(path, []byte("Alpha\nab\nbeta's\ngamma\n"), 0644))
	d, err = LoadDictionary(path)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Size())
	word := d.RandomWord(rand.New(rand.NewSource(1)))
	assert.Contains(t, []string{"alpha", "gamma"}, word)

	empty := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(empty, []byte("x\n"), 0644))
	_, err = LoadDictionary(empty)
	assert.Error(t, err)
}

func TestInstrumentedHandler(t *testing.T) {
	opts := DefaultGenerateOptions
	opts.Seed = 6
	opts.TestCount = 2

	f, err := Generate(opts)
	require.NoError(t, err)

	server := httptest.NewServer(InstrumentedHandler(f, prometheus.NewRegistry()))
	defer server.Close()

	for _, path := range []string{
		"/testlog.php?days=7&filter=&all=on",
		"/xmlResult/" + f.Tests[0].Ref.ID + "/",
		"/xmlResult/" + f.Tests[1].Ref.ID + "/",
		"/xmlResult/unknown/",
	} {
		resp, err := http.Get(server.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
	}

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	metrics := string(body)
	assert.Contains(t, metrics, `wptgen_requests_total{code="200",endpoint="testlog"} 1`)
	assert.Contains(t, metrics, `wptgen_requests_total{code="200",endpoint="result"} 2`)
	assert.Contains(t, metrics, `wptgen_requests_total{code="404",endpoint="result"} 1`)
}
