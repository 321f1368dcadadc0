package cmd

import (
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/pb33f/wptlog/tui"
)

const wptlogASCII = `                 _   _             
 __      ___ __ | |_| | ___   __ _ 
 \ \ /\ / / '_ \| __| |/ _ \ / _' |
  \ V  V /| |_) | |_| | (_) | (_| |
   \_/\_/ | .__/ \__|_|\___/ \__, |
          |_|                |___/ `

// RenderBanner returns the styled banner shown by the version command
func RenderBanner() string {
	bannerStyle := lipgloss.NewStyle().
		Foreground(tui.RGBPink).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(tui.RGBBlue).
		Italic(true)

	containerStyle := lipgloss.NewStyle().
		Align(lipgloss.Left).
		MarginBottom(1)

	banner := bannerStyle.Render(wptlogASCII)
	subtitle := subtitleStyle.Render("pb33f - WebPageTest results as CSV")

	return containerStyle.Render(banner + "\n" + subtitle)
}
