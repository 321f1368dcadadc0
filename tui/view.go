package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
)

func (m *ReportViewModel) render() string {
	var builder strings.Builder

	builder.WriteString(m.renderTitle())
	builder.WriteString("\n")

	// post-process table view to add colorization (vacuum pattern)
	builder.WriteString(ColorizeReportTableOutput(m.table.View(), m.table.Cursor(), m.rows))
	builder.WriteString("\n")

	if m.detailVisible {
		builder.WriteString(m.renderDetailPanel())
		builder.WriteString("\n")
	}

	builder.WriteString(m.renderStatusBar())

	return builder.String()
}

func (m *ReportViewModel) renderTitle() string {
	title := fmt.Sprintf("wptlog: %s | ", m.fileName)
	titleStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		Padding(0, 1).
		Width(m.width).BorderForeground(RGBBlue).BorderTop(false).BorderLeft(false).BorderRight(false).BorderBottom(true)

	titleText := lipgloss.NewStyle().Bold(true).Render(title)

	count := fmt.Sprintf("(%d rows, %d columns", len(m.allRows), len(m.header))
	if m.loadingTime > 0 {
		count += fmt.Sprintf(", loaded in %v", m.loadingTime.Round(time.Millisecond))
	}
	count += ")"

	return titleStyle.Render(titleText + lipgloss.NewStyle().Faint(true).Render(count))
}

func (m *ReportViewModel) renderStatusBar() string {
	var parts []string

	parts = append(parts, "↑/↓: Navigate")
	if m.viewMode == ViewModeTable {
		parts = append(parts, "Enter: View Row")
	} else {
		parts = append(parts, "Enter/Esc: Close Row")
	}
	parts = append(parts, "q: Quit")

	if len(m.allRows) > 0 {
		parts = append(parts, fmt.Sprintf("Row %d/%d", m.selectedIndex+1, len(m.allRows)))
	}

	return lipgloss.NewStyle().Faint(true).Render(strings.Join(parts, " | "))
}

func (m *ReportViewModel) renderDetailPanel() string {
	panelStyle := lipgloss.NewStyle().
		Width(m.width - splitPanelPadding).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(RGBBlue)

	return panelStyle.Render(m.detailViewport.View())
}
