package tui

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/pb33f/wptlog/motor"
	"github.com/pb33f/wptlog/motor/model"
)

type LoadState int

const (
	LoadStateLoading LoadState = iota
	LoadStateLoaded
	LoadStateError
)

type reportLoadedMsg struct {
	header   []string
	rows     []*model.Row
	duration time.Duration
}

type reportErrorMsg struct {
	err error
}

func (m *ReportViewModel) startLoading() tea.Cmd {
	fileName := m.fileName
	return func() tea.Msg {
		return loadReport(fileName)
	}
}

func loadReport(fileName string) tea.Msg {
	start := time.Now()

	f, err := os.Open(fileName)
	if err != nil {
		return reportErrorMsg{err: err}
	}
	defer f.Close()

	header, rows, err := motor.ReadCSV(f)
	if err != nil {
		return reportErrorMsg{err: err}
	}

	return reportLoadedMsg{
		header:   header,
		rows:     rows,
		duration: time.Since(start),
	}
}

func (m *ReportViewModel) renderLoadingView() string {
	spinnerStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center)

	title := TitleStyle.Render("Loading report")
	fileInfo := SubtitleStyle.Render(fmt.Sprintf("\n%s", m.fileName))

	return spinnerStyle.Render(fmt.Sprintf("%s %s%s", m.loadingSpinner.View(), title, fileInfo))
}

func (m *ReportViewModel) renderErrorView() string {
	errorStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(RGBRed).
		Bold(true)

	errorMsg := fmt.Sprintf("❌ Error loading report\n\n%v\n\nPress 'q' to quit", m.err)
	return errorStyle.Render(errorMsg)
}

// matching vacuum's Dot spinner
func createLoadingSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(RGBPink)
	return s
}
