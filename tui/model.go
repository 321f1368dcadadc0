package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/table"
	"github.com/charmbracelet/bubbles/v2/viewport"
	"github.com/pb33f/wptlog/motor/model"
)

// ViewMode represents the different view states
type ViewMode int

const (
	ViewModeTable ViewMode = iota
	ViewModeTableWithDetail
)

// ReportViewModel browses a CSV report: a table of the key columns and an
// optional detail panel listing every cell of the selected row.
type ReportViewModel struct {
	table   table.Model
	header  []string
	allRows []*model.Row
	rows    []table.Row
	columns []table.Column

	selectedIndex int

	viewMode      ViewMode
	width         int
	height        int
	ready         bool
	quitting      bool
	detailVisible bool

	detailViewport viewport.Model

	fileName string

	loadState      LoadState
	loadingSpinner spinner.Model
	loadingTime    time.Duration

	err error
}

func NewReportViewModel(fileName string) (*ReportViewModel, error) {
	columns := []table.Column{
		{Title: "ID", Width: idColumnWidth},
		{Title: "View", Width: viewColumnWidth},
		{Title: "Status", Width: statusColumnWidth},
		{Title: "URL", Width: minURLColumnWidth},
		{Title: "Load", Width: timeColumnWidth},
		{Title: "Visual 70%", Width: timeColumnWidth},
		{Title: "DCL", Width: timeColumnWidth},
	}

	m := &ReportViewModel{
		fileName:       fileName,
		columns:        columns,
		viewMode:       ViewModeTable,
		loadState:      LoadStateLoading,
		loadingSpinner: createLoadingSpinner(),
	}

	return m, nil
}

func (m *ReportViewModel) Init() tea.Cmd {
	return tea.Batch(
		m.loadingSpinner.Tick,
		m.startLoading(),
	)
}

func (m *ReportViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	if m.loadState == LoadStateLoading {
		m.loadingSpinner, cmd = m.loadingSpinner.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	switch msg := msg.(type) {
	case reportLoadedMsg:
		m.loadState = LoadStateLoaded
		m.header = msg.header
		m.allRows = msg.rows
		m.loadingTime = msg.duration

		if m.width > 0 && m.height > 0 {
			m.initializeTable()
			m.ready = true
		}
		return m, nil

	case reportErrorMsg:
		m.loadState = LoadStateError
		m.err = msg.err
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		if m.loadState == LoadStateLoaded && !m.ready {
			m.initializeTable()
			m.ready = true
		} else if m.ready {
			m.buildTableRows()
			m.table.SetRows(m.rows)
			m.updateTableDimensions()
		}

		if m.detailVisible {
			m.updateViewportDimensions()
			m.updateViewportContent()
		}

	case tea.KeyPressMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			if m.ready {
				m.toggleDetailView()
			}
			return m, nil

		case "esc":
			if m.ready && m.detailVisible {
				m.toggleDetailView()
			}
			return m, nil
		}
	}

	if m.ready {
		m.table, cmd = m.table.Update(msg)
		cmds = append(cmds, cmd)

		if m.table.Cursor() != m.selectedIndex {
			m.selectedIndex = m.table.Cursor()
			if m.detailVisible {
				m.updateViewportContent()
			}
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *ReportViewModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.loadState {
	case LoadStateLoading:
		return m.renderLoadingView()
	case LoadStateError:
		return m.renderErrorView()
	case LoadStateLoaded:
		if !m.ready {
			return "Initializing..."
		}
		return m.render()
	default:
		return "Unknown state"
	}
}

// SelectedRow returns the report row under the cursor, or nil.
func (m *ReportViewModel) SelectedRow() *model.Row {
	if m.selectedIndex < 0 || m.selectedIndex >= len(m.allRows) {
		return nil
	}
	return m.allRows[m.selectedIndex]
}

func (m *ReportViewModel) tableHeight() int {
	height := m.height - tableVerticalPadding
	if m.detailVisible {
		height /= 2
	}
	return height
}

func (m *ReportViewModel) initializeTable() {
	m.buildTableRows()
	m.adjustColumnWidths()

	m.table = table.New(
		table.WithColumns(m.columns),
		table.WithRows(m.rows),
		table.WithFocused(true),
		table.WithHeight(m.tableHeight()),
		table.WithWidth(m.width),
	)

	m.table = ApplyTableStyles(m.table)
}

func (m *ReportViewModel) updateTableDimensions() {
	m.table.SetHeight(m.tableHeight())
	m.table.SetWidth(m.width)

	m.adjustColumnWidths()
	m.table.SetColumns(m.columns)
}

func (m *ReportViewModel) updateViewportDimensions() {
	detailHeight := (m.height-tableVerticalPadding)/2 - splitPanelPadding
	detailWidth := m.width - splitPanelPadding

	if m.detailViewport.Width() == 0 {
		m.detailViewport = viewport.New(viewport.WithWidth(detailWidth), viewport.WithHeight(detailHeight))
	} else {
		m.detailViewport.SetWidth(detailWidth)
		m.detailViewport.SetHeight(detailHeight)
	}
}

func (m *ReportViewModel) toggleDetailView() {
	if m.viewMode == ViewModeTable {
		m.viewMode = ViewModeTableWithDetail
		m.detailVisible = true
		m.updateTableDimensions()
		m.updateViewportDimensions()
		m.updateViewportContent()
	} else {
		m.viewMode = ViewModeTable
		m.detailVisible = false
		m.updateTableDimensions()
	}
}

func (m *ReportViewModel) updateViewportContent() {
	row := m.SelectedRow()
	if row == nil {
		m.detailViewport.SetContent("No row selected")
		return
	}

	m.detailViewport.SetContent(renderSections(buildRowSections(row), RenderOptions{
		Width:    m.detailViewport.Width(),
		Truncate: true,
	}))
	m.detailViewport.GotoTop()
}

func (m *ReportViewModel) adjustColumnWidths() {
	urlWidth := m.width - fixedColumnsWidth - borderPadding
	if urlWidth < minURLColumnWidth {
		urlWidth = minURLColumnWidth
	}
	if urlWidth > maxURLColumnWidth {
		urlWidth = maxURLColumnWidth
	}

	m.columns[3].Width = urlWidth
}
