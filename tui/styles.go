package tui

import (
	"github.com/charmbracelet/bubbles/v2/table"
	"github.com/charmbracelet/lipgloss/v2"
)

// Color constants matching vacuum
var (
	RGBBlue       = lipgloss.Color("45")
	RGBPink       = lipgloss.Color("201")
	RGBRed        = lipgloss.Color("196")
	RGBYellow     = lipgloss.Color("220")
	RGBGreen      = lipgloss.Color("46")
	RGBGrey       = lipgloss.Color("246")
	RGBSubtlePink = lipgloss.Color("#2a1a2a")
)

// General styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(RGBPink)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(RGBGrey)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(RGBBlue)

	HelpStyle = lipgloss.NewStyle().
			Foreground(RGBGrey)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(RGBRed).
			Bold(true)
)

// Table colorization styles for views and test status
var (
	StyleViewFirst  = lipgloss.NewStyle().Foreground(RGBGreen)
	StyleViewRepeat = lipgloss.NewStyle().Foreground(RGBBlue)

	StyleStatusPending = lipgloss.NewStyle().Foreground(RGBYellow) // 1xx, still running
	StyleStatusFailed  = lipgloss.NewStyle().Foreground(RGBRed)    // 4xx and up

	// timings (faint like entry count)
	StyleDurationFaint = lipgloss.NewStyle().Faint(true)
)

// ApplyTableStyles applies the vacuum table theme
func ApplyTableStyles(t table.Model) table.Model {
	s := table.DefaultStyles()

	s.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(RGBPink).
		BorderBottom(true).
		BorderLeft(false).
		BorderRight(false).
		BorderTop(false).
		Foreground(RGBPink).
		Bold(true).
		Padding(0, 1)

	s.Selected = lipgloss.NewStyle().
		Bold(true).
		Foreground(RGBPink).
		Background(RGBSubtlePink).
		Padding(0, 0)

	s.Cell = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(RGBPink).
		BorderRight(false).
		Padding(0, 1)

	t.SetStyles(s)
	return t
}
