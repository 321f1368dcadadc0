package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/pb33f/wptlog/motor/model"
)

// pre-computed styles to avoid allocation in hot path
var (
	keyStyleBase = lipgloss.NewStyle().
			Foreground(RGBGrey).
			Align(lipgloss.Right)

	sectionHeaderStyleBase = lipgloss.NewStyle().
				Bold(true).
				Foreground(RGBPink)

	emptyValueText = lipgloss.NewStyle().Faint(true).Render("(empty)")
)

// fields shown in the leading sections of the detail panel, in order
var (
	testFields = []string{
		model.FieldID, model.FieldView, model.FieldDate, model.FieldNetwork,
		model.FieldURL, model.FieldStatusCode, model.FieldStatusText,
	}
	resultFields = []string{
		model.FieldSummary, model.FieldCompleted, model.FieldConnectivity,
		model.FieldBwDown, model.FieldBwUp, model.FieldLatency, model.FieldMobile,
	}
)

// KeyValuePair represents a single key-value pair
type KeyValuePair struct {
	Key   string
	Value string
}

// Section represents a grouped section of key-value pairs
type Section struct {
	Title string
	Pairs []KeyValuePair
}

// RenderOptions configures key-value rendering
type RenderOptions struct {
	Width    int  // total available width
	Truncate bool // whether to truncate long values
	KeyWidth int  // key column width (0 = auto-calculate)
}

// buildRowSections groups the cells of a report row for the detail panel.
// Test and result scalars come first; every other non-empty cell is listed
// under Metrics in report column order.
func buildRowSections(row *model.Row) []Section {
	known := make(map[string]struct{}, len(testFields)+len(resultFields))

	pick := func(names []string) []KeyValuePair {
		pairs := make([]KeyValuePair, 0, len(names))
		for _, name := range names {
			known[name] = struct{}{}
			if row.Has(name) {
				pairs = append(pairs, KeyValuePair{name, cell(row, name)})
			}
		}
		return pairs
	}

	sections := make([]Section, 0, 3)
	if pairs := pick(testFields); len(pairs) > 0 {
		sections = append(sections, Section{Title: "Test", Pairs: pairs})
	}

	results := pick(resultFields)
	if hasValue(results) {
		sections = append(sections, Section{Title: "Result", Pairs: results})
	}

	var metrics []KeyValuePair
	for _, name := range row.Names() {
		if _, ok := known[name]; ok {
			continue
		}
		if value := cell(row, name); value != "" {
			metrics = append(metrics, KeyValuePair{name, value})
		}
	}
	if len(metrics) > 0 {
		sections = append(sections, Section{Title: "Metrics", Pairs: metrics})
	}

	return sections
}

func hasValue(pairs []KeyValuePair) bool {
	for _, pair := range pairs {
		if pair.Value != "" {
			return true
		}
	}
	return false
}

// renderSections renders multiple sections as formatted key-value output
func renderSections(sections []Section, opts RenderOptions) string {
	if len(sections) == 0 {
		return ""
	}

	// calculate column widths
	keyWidth := opts.KeyWidth
	if keyWidth == 0 {
		keyWidth = opts.Width * 3 / 10 // 30% for keys
		if keyWidth > 28 {
			keyWidth = 28
		}
		if keyWidth < 15 {
			keyWidth = 15
		}
	}
	valueWidth := opts.Width - keyWidth - 3 // -3 for spacing

	var output strings.Builder

	for i, section := range sections {
		if section.Title != "" {
			output.WriteString(renderSectionHeader(section.Title, opts.Width))
			output.WriteString("\n")
		}

		for _, pair := range section.Pairs {
			output.WriteString(renderKeyValueRow(pair, keyWidth, valueWidth, opts.Truncate))
			output.WriteString("\n")
		}

		// add spacing between sections (except after last)
		if i < len(sections)-1 {
			output.WriteString("\n")
		}
	}

	return output.String()
}

// renderSectionHeader renders a section title
func renderSectionHeader(title string, width int) string {
	return sectionHeaderStyleBase.Width(width).Render(title)
}

// renderKeyValueRow renders a single key-value pair
func renderKeyValueRow(pair KeyValuePair, keyWidth, valueWidth int, truncate bool) string {
	keyStyle := keyStyleBase.Width(keyWidth)

	value := pair.Value
	if value == "" {
		value = emptyValueText
	} else if truncate && valueWidth > 3 && len(value) > valueWidth {
		value = value[:valueWidth-3] + "..."
	}

	return keyStyle.Render(pair.Key) + "  " + value
}
