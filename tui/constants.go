package tui

const (
	tableVerticalPadding = 4
	splitPanelPadding    = 2
	minURLColumnWidth    = 20
	maxURLColumnWidth    = 80
	borderPadding        = 16

	idColumnWidth     = 20
	viewColumnWidth   = 8
	statusColumnWidth = 12
	timeColumnWidth   = 10
	timeColumnCount   = 3

	// columns that are not the url
	fixedColumnsWidth = idColumnWidth + viewColumnWidth + statusColumnWidth + timeColumnWidth*timeColumnCount
)
