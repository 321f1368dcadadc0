package model

import "math"

// Field names shared by the record scalars and the report columns.
const (
	FieldView         = "view"
	FieldID           = "id"
	FieldDate         = "date"
	FieldNetwork      = "network"
	FieldURL          = "url"
	FieldStatusCode   = "statusCode"
	FieldStatusText   = "statusText"
	FieldSummary      = "summary"
	FieldCompleted    = "completed"
	FieldConnectivity = "connectivity"
	FieldBwDown       = "bwDown"
	FieldBwUp         = "bwUp"
	FieldLatency      = "latency"
	FieldMobile       = "mobile"

	FieldVisual70Time     = "visual70_time"
	FieldVisual70Complete = "visual70_complete"
	FieldVisual70Image    = "visual70_image"

	FieldDOMContentLoadedStart = "domContentLoadedEventStart"
	FieldDOMContentLoadedEnd   = "domContentLoadedEventEnd"
	FieldDOMContentLoadedTime  = "domContentLoadedEventTime"
)

// View names carried in the "view" column.
const (
	ViewFirst  = "first"
	ViewRepeat = "repeat"
)

// RunReference is one line of the test log: enough to locate the full
// result document for a test.
type RunReference struct {
	// ID is the test identifier used in the result URL.
	ID string
	// Date is the submission date as printed in the log.
	Date string
	// Network is the connectivity label from the location cell.
	Network string
	// URL is the page that was tested.
	URL string
}

// RecordKind tells a pending test apart from a completed one.
type RecordKind int

const (
	// RecordPending is a test whose status code is below 200: still queued,
	// running, or failed before producing results.
	RecordPending RecordKind = iota
	// RecordCompleted is a test with a result block.
	RecordCompleted
)

func (k RecordKind) String() string {
	switch k {
	case RecordPending:
		return "pending"
	case RecordCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// TestMetrics are the top level scalars of a completed result.
type TestMetrics struct {
	Summary      string
	Completed    string
	Connectivity string
	BwDown       string
	BwUp         string
	Latency      string
	Mobile       string
}

// RunPair holds the two views of a single run. A nil view means the
// result had no markup for it.
type RunPair struct {
	FirstView  *Row
	RepeatView *Row
}

// RunRecord is the parsed result of one test. Metrics and Runs are only
// populated for RecordCompleted; use NewPendingRecord and
// NewCompletedRecord to build one.
type RunRecord struct {
	RunReference
	StatusCode string
	StatusText string

	kind    RecordKind
	Metrics TestMetrics
	Runs    []RunPair
}

// NewPendingRecord creates a record that carries only status fields.
func NewPendingRecord(ref RunReference, statusCode, statusText string) *RunRecord {
	return &RunRecord{
		RunReference: ref,
		StatusCode:   statusCode,
		StatusText:   statusText,
		kind:         RecordPending,
	}
}

// NewCompletedRecord creates a record with a metric block. Runs are
// attached by the caller once the views have been converted.
func NewCompletedRecord(ref RunReference, statusCode, statusText string, metrics TestMetrics) *RunRecord {
	return &RunRecord{
		RunReference: ref,
		StatusCode:   statusCode,
		StatusText:   statusText,
		kind:         RecordCompleted,
		Metrics:      metrics,
	}
}

// Kind returns the record variant.
func (r *RunRecord) Kind() RecordKind {
	return r.kind
}

// StatusFields returns the reference and status columns only. This is the
// whole row for a pending record.
func (r *RunRecord) StatusFields() *Row {
	row := NewRow(13)
	row.SetText(FieldID, r.ID)
	row.SetText(FieldDate, r.Date)
	row.SetText(FieldNetwork, r.Network)
	row.SetText(FieldURL, r.URL)
	row.SetText(FieldStatusCode, r.StatusCode)
	row.SetText(FieldStatusText, r.StatusText)
	return row
}

// Fields returns the record scalars as a row, in report column order.
func (r *RunRecord) Fields() *Row {
	row := r.StatusFields()
	if r.kind != RecordCompleted {
		return row
	}
	row.SetText(FieldSummary, r.Metrics.Summary)
	row.SetText(FieldCompleted, r.Metrics.Completed)
	row.SetText(FieldConnectivity, r.Metrics.Connectivity)
	row.SetText(FieldBwDown, r.Metrics.BwDown)
	row.SetText(FieldBwUp, r.Metrics.BwUp)
	row.SetText(FieldLatency, r.Metrics.Latency)
	row.SetText(FieldMobile, r.Metrics.Mobile)
	return row
}

// IsPendingStatus reports whether a status code text is below 200 once
// read as a number. Blank text counts as zero; text that is not a number
// never compares below 200 and is treated as completed.
func IsPendingStatus(code string) bool {
	return ToNumber(code) < 200
}

func nan() float64 {
	return math.NaN()
}
