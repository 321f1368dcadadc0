package tui

import (
	"fmt"
	"math"
	"net/url"
	"time"

	"github.com/charmbracelet/bubbles/v2/table"
	"github.com/pb33f/wptlog/motor/model"
)

const (
	columnLoadTime = "loadTime"
	missingCell    = "---"
	notANumber     = "n/a"
)

func (m *ReportViewModel) buildTableRows() {
	rows := make([]table.Row, 0, len(m.allRows))

	for _, row := range m.allRows {
		rows = append(rows, formatReportRow(row, m.width))
	}

	m.rows = rows
}

func formatReportRow(row *model.Row, terminalWidth int) table.Row {
	id := truncateString(cell(row, model.FieldID), idColumnWidth)
	view := formatView(cell(row, model.FieldView))
	status := formatStatus(cell(row, model.FieldStatusCode), cell(row, model.FieldStatusText))
	testURL := formatURL(cell(row, model.FieldURL), terminalWidth)

	return table.Row{
		id,
		view,
		status,
		testURL,
		formatMillis(cell(row, columnLoadTime)),
		formatMillis(cell(row, model.FieldVisual70Time)),
		formatMillis(cell(row, model.FieldDOMContentLoadedTime)),
	}
}

func cell(row *model.Row, name string) string {
	v, ok := row.Get(name)
	if !ok {
		return ""
	}
	return v.String()
}

func formatView(view string) string {
	if view == "" {
		return missingCell
	}
	return view
}

func formatStatus(code, text string) string {
	if code == "" {
		return missingCell
	}

	if text != "" {
		status := code + " " + text
		if len(status) > statusColumnWidth {
			return code
		}
		return status
	}

	return code
}

// formatURL drops the scheme and fits the rest into the space the fixed
// columns leave.
func formatURL(fullURL string, terminalWidth int) string {
	if fullURL == "" {
		return missingCell
	}

	display := fullURL
	if u, err := url.Parse(fullURL); err == nil && u.Host != "" {
		display = u.Host + u.Path
		if u.RawQuery != "" {
			display += "?" + u.RawQuery
		}
	}

	availableWidth := terminalWidth - fixedColumnsWidth - borderPadding
	if availableWidth < minURLColumnWidth {
		availableWidth = minURLColumnWidth
	}
	if availableWidth > maxURLColumnWidth {
		availableWidth = maxURLColumnWidth
	}

	return truncateString(display, availableWidth)
}

// formatMillis renders a millisecond cell as a short duration.
func formatMillis(s string) string {
	if s == "" {
		return missingCell
	}

	ms := model.ToNumber(s)
	if math.IsNaN(ms) {
		return notANumber
	}

	d := time.Duration(ms * float64(time.Millisecond))

	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		seconds := float64(d.Milliseconds()) / 1000.0
		return fmt.Sprintf("%.1fs", seconds)
	default:
		minutes := int(d.Minutes())
		seconds := int(d.Seconds()) - (minutes * 60)
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return s[:maxLen]
	}

	return s[:maxLen-3] + "..."
}
