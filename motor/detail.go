package motor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/pb33f/wptlog/motor/model"
)

const (
	statusCodePath = "//response/statusCode"
	statusTextPath = "//response/statusText"
	runPath        = "//response/data/run"
)

// scalarRule binds one fixed tag path of the result document to a field
// of the record's metric block. Values are copied as raw text.
type scalarRule struct {
	path   string
	assign func(m *model.TestMetrics, text string)
}

var metricSchema = []scalarRule{
	{"//response/data/summary", func(m *model.TestMetrics, s string) { m.Summary = s }},
	{"//response/data/completed", func(m *model.TestMetrics, s string) { m.Completed = s }},
	{"//response/data/connectivity", func(m *model.TestMetrics, s string) { m.Connectivity = s }},
	{"//response/data/bwDown", func(m *model.TestMetrics, s string) { m.BwDown = s }},
	{"//response/data/bwUp", func(m *model.TestMetrics, s string) { m.BwUp = s }},
	{"//response/data/latency", func(m *model.TestMetrics, s string) { m.Latency = s }},
	{"//response/data/mobile", func(m *model.TestMetrics, s string) { m.Mobile = s }},
}

type DetailOptions struct {
	BaseURL string
	// Interner is shared between extractors running concurrently. A fresh
	// one is created when nil.
	Interner *Interner
	Logger   *slog.Logger
}

// DetailExtractor fetches and parses the XML result of each test.
type DetailExtractor struct {
	fetcher  Fetcher
	baseURL  string
	interner *Interner
	logger   *slog.Logger
}

func NewDetailExtractor(fetcher Fetcher, opts DetailOptions) *DetailExtractor {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	interner := opts.Interner
	if interner == nil {
		interner = NewInterner()
	}
	return &DetailExtractor{
		fetcher:  fetcher,
		baseURL:  baseURL,
		interner: interner,
		logger:   loggerOrDefault(opts.Logger),
	}
}

func (d *DetailExtractor) Extract(ctx context.Context, ref model.RunReference) (*model.RunRecord, error) {
	url := DetailURL(d.baseURL, ref.ID)
	body, err := d.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	record, err := d.Parse(ref, body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse result %s: %w", url, err)
	}
	return record, nil
}

// Parse builds a record from an XML result document. A status code below
// 200 yields a pending record with no metrics and no runs.
func (d *DetailExtractor) Parse(ref model.RunReference, body string) (*model.RunRecord, error) {
	doc, err := xmlquery.Parse(strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	statusCode := textOf(xmlquery.Find(doc, statusCodePath))
	statusText := textOf(xmlquery.Find(doc, statusTextPath))

	if model.IsPendingStatus(statusCode) {
		d.logger.Debug("test not complete", "id", ref.ID, "statusCode", statusCode, "statusText", statusText)
		return model.NewPendingRecord(ref, statusCode, statusText), nil
	}

	var metrics model.TestMetrics
	for _, rule := range metricSchema {
		rule.assign(&metrics, textOf(xmlquery.Find(doc, rule.path)))
	}

	record := model.NewCompletedRecord(ref, statusCode, statusText, metrics)
	scalars := record.Fields()

	runs := xmlquery.Find(doc, runPath)
	record.Runs = make([]model.RunPair, 0, len(runs))
	for _, run := range runs {
		record.Runs = append(record.Runs, model.RunPair{
			FirstView:  d.convertView(scalars, descendants([]*xmlquery.Node{run}, "firstView"), model.ViewFirst),
			RepeatView: d.convertView(scalars, descendants([]*xmlquery.Node{run}, "repeatView"), model.ViewRepeat),
		})
	}

	d.logger.Debug("parsed result", "id", ref.ID, "runs", len(record.Runs))
	return record, nil
}

// descendants returns every element below roots named name, in document
// order and without duplicates when roots nest.
func descendants(roots []*xmlquery.Node, name string) []*xmlquery.Node {
	var found []*xmlquery.Node
	seen := make(map[*xmlquery.Node]struct{})

	var walk func(n *xmlquery.Node)
	walk = func(n *xmlquery.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != xmlquery.ElementNode {
				continue
			}
			if tagName(c) == name {
				if _, dup := seen[c]; !dup {
					seen[c] = struct{}{}
					found = append(found, c)
				}
			}
			walk(c)
		}
	}

	for _, root := range roots {
		walk(root)
	}
	return found
}

func elementChildren(n *xmlquery.Node) []*xmlquery.Node {
	var children []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			children = append(children, c)
		}
	}
	return children
}

// tagName is the element name as written, namespace prefix included.
func tagName(n *xmlquery.Node) string {
	if n.Prefix != "" {
		return n.Prefix + ":" + n.Data
	}
	return n.Data
}

// textOf concatenates the text content of every node.
func textOf(nodes []*xmlquery.Node) string {
	switch len(nodes) {
	case 0:
		return ""
	case 1:
		return nodes[0].InnerText()
	}
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(n.InnerText())
	}
	return b.String()
}
