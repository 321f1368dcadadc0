package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/v2/table"
	"github.com/pb33f/wptlog/motor/model"
)

// pre-rendered view names to avoid repeated style.Render() calls in hot path
var (
	renderedFirst  string
	renderedRepeat string
)

func init() {
	renderedFirst = StyleViewFirst.Render(model.ViewFirst)
	renderedRepeat = StyleViewRepeat.Render(model.ViewRepeat)
}

// ColorizeReportTableOutput colorizes the rendered table line by line,
// skipping the header and the selected row so its background survives.
func ColorizeReportTableOutput(tableView string, cursor int, rows []table.Row) string {
	lines := strings.Split(tableView, "\n")

	// id plus view identifies a row; the background marker alone fails once the table scrolls
	var selectedID, selectedView string
	if cursor >= 0 && cursor < len(rows) && len(rows[cursor]) >= 2 {
		selectedID = rows[cursor][0]
		selectedView = rows[cursor][1]
	}

	// ANSI escape sequence for pink background (matches table selected style from styles.go)
	selectedLineMarker := "\x1b[1;38;5;201;48;2;42;26;42m"

	var result strings.Builder
	result.Grow(len(tableView) + (len(lines) * 40))

	for i, line := range lines {
		isSelectedLine := strings.Contains(line, selectedLineMarker) ||
			(selectedID != "" && strings.Contains(line, selectedID) && strings.Contains(line, " "+selectedView+" "))

		if i >= 1 && !isSelectedLine {
			line = colorizeViews(line)
			line = colorizeStatusCodes(line)
			line = colorizeDurations(line)
		}

		result.WriteString(line)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}

	return result.String()
}

func colorizeViews(line string) string {
	if strings.Contains(line, " "+model.ViewFirst+" ") {
		return strings.Replace(line, " "+model.ViewFirst+" ", " "+renderedFirst+" ", 1)
	}
	if strings.Contains(line, " "+model.ViewRepeat+" ") {
		return strings.Replace(line, " "+model.ViewRepeat+" ", " "+renderedRepeat+" ", 1)
	}
	return line
}

// colorizes pending (below 200) and failed (400 and up) test status codes
func colorizeStatusCodes(line string) string {
	// find " NNN " pattern (3 digits surrounded by spaces)
	for i := 0; i < len(line)-4; i++ {
		if line[i] == ' ' &&
			line[i+1] >= '0' && line[i+1] <= '9' &&
			line[i+2] >= '0' && line[i+2] <= '9' &&
			line[i+3] >= '0' && line[i+3] <= '9' &&
			line[i+4] == ' ' {

			statusCode := int(line[i+1]-'0')*100 + int(line[i+2]-'0')*10 + int(line[i+3]-'0')
			statusStr := line[i+1 : i+4]

			switch {
			case statusCode < 200:
				return line[:i] + " " + StyleStatusPending.Render(statusStr) + " " + line[i+5:]
			case statusCode >= 400:
				return line[:i] + " " + StyleStatusFailed.Render(statusStr) + " " + line[i+5:]
			}
			return line
		}
	}
	return line
}

// colorizes the trailing timing column with faint style
func colorizeDurations(line string) string {
	trimmed := strings.TrimRight(line, " ")
	lastSpaceIdx := strings.LastIndexByte(trimmed, ' ')
	if lastSpaceIdx == -1 {
		return line
	}

	durationPart := trimmed[lastSpaceIdx+1:]
	if isDuration(durationPart) {
		styled := StyleDurationFaint.Render(durationPart)
		return trimmed[:lastSpaceIdx+1] + styled + line[len(trimmed):]
	}

	return line
}

// isDuration validates if string is a time duration (e.g., "150ms", "2.5s")
// rejects URLs, paths, and random identifiers by requiring digit-only numeric portion
func isDuration(s string) bool {
	if s == "" {
		return false
	}

	if (s[0] < '0' || s[0] > '9') && s[0] != '-' {
		return false
	}

	var valueStr string
	if strings.HasSuffix(s, "ms") {
		valueStr = strings.TrimSuffix(s, "ms")
	} else if strings.HasSuffix(s, "s") {
		valueStr = strings.TrimSuffix(s, "s")
	} else {
		return false
	}

	valueStr = strings.TrimPrefix(valueStr, "-")
	if len(valueStr) == 0 {
		return false
	}

	// reject identifiers like "5u7hmsls"; minute values ("1m5s") pass as digits plus m
	dotCount := 0
	for _, c := range valueStr {
		switch {
		case c == '.':
			dotCount++
			if dotCount > 1 {
				return false
			}
		case c == 'm':
		case c < '0' || c > '9':
			return false
		}
	}

	return true
}
