package wptgen

import (
	"fmt"
	"html"
	"math/rand"
	"strings"
	"time"

	"github.com/pb33f/wptlog/motor/model"
)

var (
	browsers  = []string{"Chrome", "Firefox", "Edge"}
	locations = []string{"Dulles", "London", "Frankfurt", "Tokyo", "Sydney"}
	networks  = []string{"Cable", "DSL", "3G", "4G", "Native", "FIOS"}
	tlds      = []string{"com", "org", "net", "io", "co.uk"}
)

// network profile: bwDown, bwUp (kbps), latency (ms)
var networkProfiles = map[string][3]int{
	"Cable":  {5000, 1000, 28},
	"DSL":    {1500, 384, 50},
	"3G":     {1600, 768, 300},
	"4G":     {9000, 9000, 170},
	"Native": {0, 0, 0},
	"FIOS":   {20000, 5000, 4},
}

// epoch the generated dates count back from, fixed so fixtures stay stable
var fixtureEpoch = time.Date(2024, time.October, 16, 14, 0, 0, 0, time.UTC)

type listingRow struct {
	index    int
	ref      model.RunReference
	location string
	browser  string
}

type documentGenerator struct {
	dict *Dictionary
	rng  *rand.Rand
	opts GenerateOptions
}

func newDocumentGenerator(dict *Dictionary, rng *rand.Rand, opts GenerateOptions) *documentGenerator {
	return &documentGenerator{dict: dict, rng: rng, opts: opts}
}

func (g *documentGenerator) pick(list []string) string {
	return list[g.rng.Intn(len(list))]
}

func (g *documentGenerator) listingRow(index int) listingRow {
	submitted := fixtureEpoch.Add(-time.Duration(index) * 7 * time.Minute)
	id := fmt.Sprintf("%s_%c%c_%X",
		submitted.Format("060102"),
		'A'+rune(g.rng.Intn(26)), 'A'+rune(g.rng.Intn(26)),
		index)

	return listingRow{
		index:    index,
		location: g.pick(locations),
		browser:  g.pick(browsers),
		ref: model.RunReference{
			ID:      id,
			Date:    submitted.Format("01/02/06 15:04"),
			Network: g.pick(networks),
			URL:     fmt.Sprintf("http://www.%s.%s/", g.dict.RandomWord(g.rng), g.pick(tlds)),
		},
	}
}

// renderListing writes the test log page. Result links have the form
// /result/<id>/ so the id sits between the eighth byte and the last one.
func renderListing(rows []listingRow) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head><title>WebPageTest - Test Log</title></head>\n<body>\n")
	b.WriteString(`<table class="history" border="0" cellpadding="5px" cellspacing="0">` + "\n")
	b.WriteString("<tr><th class=\"date\">Date/Time</th><th class=\"location\">From</th><th class=\"url\">Test URL</th></tr>\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "<tr>\n<td class=\"date\">%s</td>\n", html.EscapeString(row.ref.Date))
		fmt.Fprintf(&b, "<td class=\"location\">%s - <b>%s</b> - <b>%s</b></td>\n",
			html.EscapeString(row.location), html.EscapeString(row.browser), html.EscapeString(row.ref.Network))
		fmt.Fprintf(&b, "<td class=\"url\"><a href=\"/result/%s/\">%s</a></td>\n</tr>\n",
			html.EscapeString(row.ref.ID), html.EscapeString(row.ref.URL))
	}
	b.WriteString("</table>\n</body>\n</html>\n")
	return b.String()
}

func (g *documentGenerator) pendingResult(ref model.RunReference) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<response>\n")
	if g.rng.Intn(2) == 0 {
		b.WriteString("<statusCode>100</statusCode>\n<statusText>Test Started 12 seconds ago</statusText>\n")
	} else {
		fmt.Fprintf(&b, "<statusCode>101</statusCode>\n<statusText>Waiting behind %d other tests...</statusText>\n", g.rng.Intn(9)+1)
	}
	fmt.Fprintf(&b, "<data>\n<testId>%s</testId>\n</data>\n</response>\n", html.EscapeString(ref.ID))
	return b.String()
}

func (g *documentGenerator) completedResult(ref model.RunReference) string {
	profile := networkProfiles[ref.Network]

	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<response>\n")
	b.WriteString("<statusCode>200</statusCode>\n<statusText>Ok</statusText>\n<data>\n")
	writeElement(&b, "testId", ref.ID)
	writeElement(&b, "summary", "http://www.webpagetest.org/results.php?test="+ref.ID)
	writeElement(&b, "testUrl", ref.URL)
	writeElement(&b, "completed", fixtureEpoch.Format(time.RFC1123Z))
	writeElement(&b, "connectivity", ref.Network)
	writeElement(&b, "bwDown", fmt.Sprint(profile[0]))
	writeElement(&b, "bwUp", fmt.Sprint(profile[1]))
	writeElement(&b, "latency", fmt.Sprint(profile[2]))
	writeElement(&b, "mobile", "0")

	for run := 1; run <= g.opts.RunsPerTest; run++ {
		b.WriteString("<run>\n")
		writeElement(&b, "id", fmt.Sprint(run))
		g.writeView(&b, "firstView", ref.ID, run, 1)
		if !g.opts.SkipRepeatView {
			g.writeView(&b, "repeatView", ref.ID, run, 2)
		}
		b.WriteString("</run>\n")
	}

	b.WriteString("</data>\n</response>\n")
	return b.String()
}

// writeView emits one view. Repeat views are cached loads, so their
// timings are scaled down.
func (g *documentGenerator) writeView(b *strings.Builder, tag, id string, run, cached int) {
	scale := 1.0
	if cached == 2 {
		scale = 0.4
	}
	ms := func(base, spread int) string {
		return fmt.Sprint(int(float64(base+g.rng.Intn(spread)) * scale))
	}

	ttfb := ms(200, 400)
	dclStart := 800 + g.rng.Intn(1500)
	dclEnd := dclStart + g.rng.Intn(120)
	suffix := fmt.Sprintf("%d", run)
	if cached == 2 {
		suffix += "_Cached"
	}

	fmt.Fprintf(b, "<%s>\n<results>\n", tag)
	writeElement(b, "URL", "")
	writeElement(b, "loadTime", ms(1500, 4000))
	writeElement(b, "TTFB", ttfb)
	writeElement(b, "bytesIn", ms(300000, 2000000))
	writeElement(b, "requests", ms(20, 120))
	writeElement(b, "render", ms(600, 1800))
	writeElement(b, "fullyLoaded", ms(2500, 6000))
	writeElement(b, "SpeedIndex", ms(900, 3000))
	writeElement(b, "domContentLoadedEventStart", fmt.Sprint(dclStart))
	writeElement(b, "domContentLoadedEventEnd", fmt.Sprint(dclEnd))
	writeElement(b, "browser_version", "118.0.5993.88")
	writeElement(b, "cached", fmt.Sprint(cached-1))
	b.WriteString("</results>\n<pages>\n")
	writeElement(b, "details", fmt.Sprintf("http://www.webpagetest.org/details.php?test=%s&run=%d&cached=%d", id, run, cached-1))
	writeElement(b, "checklist", fmt.Sprintf("http://www.webpagetest.org/performance_optimization.php?test=%s&run=%d&cached=%d", id, run, cached-1))
	b.WriteString("</pages>\n<images>\n")
	writeElement(b, "waterfall", fmt.Sprintf("http://www.webpagetest.org/results/%s/%s_waterfall.png", id, suffix))
	writeElement(b, "screenShot", fmt.Sprintf("http://www.webpagetest.org/results/%s/%s_screen.jpg", id, suffix))
	b.WriteString("</images>\n<videoFrames>\n")

	complete := 0
	frameTime := 0
	for i := 0; i < g.opts.FramesPerView; i++ {
		frameTime += 100 + g.rng.Intn(400)
		if i == g.opts.FramesPerView-1 {
			complete = 100
		} else {
			complete += g.rng.Intn(100-complete) / 2
		}
		b.WriteString("<frame>\n")
		writeElement(b, "time", fmt.Sprint(frameTime))
		writeElement(b, "image", fmt.Sprintf("http://www.webpagetest.org/getfile.php?test=%s&video=video_%s&file=frame_%04d.jpg", id, suffix, frameTime/100))
		writeElement(b, "VisuallyComplete", fmt.Sprint(complete))
		b.WriteString("</frame>\n")
	}

	fmt.Fprintf(b, "</videoFrames>\n</%s>\n", tag)
}

func writeElement(b *strings.Builder, tag, text string) {
	fmt.Fprintf(b, "<%s>%s</%s>\n", tag, html.EscapeString(text), tag)
}
