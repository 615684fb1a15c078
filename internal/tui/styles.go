package tui

import "github.com/charmbracelet/lipgloss"

// Palette. Streak colours run from ember (primary) to ash (muted).
var (
	colorEmber  = lipgloss.Color("#FF7A45")
	colorAsh    = lipgloss.Color("#6B6F80")
	colorLeaf   = lipgloss.Color("#5FD38D")
	colorAmber  = lipgloss.Color("#F6C453")
	colorRed    = lipgloss.Color("#F25C5C")
	colorText   = lipgloss.Color("#D8DEE9")
	colorBorder = lipgloss.Color("#3B4252")
	colorSky    = lipgloss.Color("#88C0D0")
)

// Chrome
var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorEmber).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorEmber).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().Foreground(colorAsh).Padding(0, 2)

	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(colorAsh).Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2)

	// Overlays such as the export picker.
	activePanelStyle = panelStyle.BorderForeground(colorEmber)
)

// Text
var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	mutedStyle     = lipgloss.NewStyle().Foreground(colorAsh)
	highlightStyle = lipgloss.NewStyle().Foreground(colorSky)
	successStyle   = lipgloss.NewStyle().Foreground(colorLeaf)
	warningStyle   = lipgloss.NewStyle().Foreground(colorAmber)
	errorStyle     = lipgloss.NewStyle().Foreground(colorRed)
	countdownStyle = warningStyle.Bold(true)
)

// Task rows
var (
	normalItemStyle   = lipgloss.NewStyle().Foreground(colorText)
	selectedItemStyle = lipgloss.NewStyle().Foreground(colorEmber).Bold(true)
	doneItemStyle     = mutedStyle.Strikethrough(true)
)
