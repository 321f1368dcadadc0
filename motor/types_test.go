package motor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindow_Contains(t *testing.T) {
	w := DefaultWindow()

	assert.False(t, w.Contains(0))
	assert.False(t, w.Contains(49))
	assert.True(t, w.Contains(50))
	assert.True(t, w.Contains(91))
	assert.False(t, w.Contains(92))
}

func TestURLs(t *testing.T) {
	assert.Equal(t, "http://www.webpagetest.org/testlog.php?days=7&filter=&all=on",
		ListingURL(DefaultBaseURL, DefaultDays))
	assert.Equal(t, "http://www.webpagetest.org/xmlResult/241016_AB_3C/",
		DetailURL(DefaultBaseURL, "241016_AB_3C"))
	assert.Equal(t, "http://localhost:9876/xmlResult//", DetailURL("http://localhost:9876", ""),
		"an empty id still produces a request")
}

func TestFetchFailure(t *testing.T) {
	withStatus := &FetchFailure{URL: "http://wpt.test/x", StatusCode: 503, Cause: ErrUnexpectedStatus}
	assert.Equal(t, "fetch http://wpt.test/x: unexpected response status (503)", withStatus.Error())
	assert.ErrorIs(t, withStatus, ErrUnexpectedStatus)

	boom := errors.New("connection reset")
	transport := &FetchFailure{URL: "http://wpt.test/y", Cause: boom}
	assert.Equal(t, "fetch http://wpt.test/y: connection reset", transport.Error())
	assert.ErrorIs(t, transport, boom)
}

func TestSerializationFailure(t *testing.T) {
	cause := errors.New("short write")
	err := &SerializationFailure{Cause: cause}
	assert.Equal(t, "failed to serialize report: short write", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestDefaultOptions(t *testing.T) {
	fopts := DefaultFetcherOptions()
	assert.Equal(t, 4, fopts.Concurrency)
	assert.NotNil(t, fopts.Transport)

	popts := DefaultPipelineOptions()
	assert.Equal(t, DefaultBaseURL, popts.BaseURL)
	assert.Equal(t, 7, popts.Days)
	assert.Equal(t, Window{First: 50, Last: 91}, popts.Window)
}
