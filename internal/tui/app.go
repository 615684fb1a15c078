package tui

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/streakr/internal/export"
	"github.com/sadopc/streakr/internal/notify"
	"github.com/sadopc/streakr/internal/session"
	"github.com/sadopc/streakr/internal/store"
	"github.com/sadopc/streakr/internal/tasks"
)

var exportFormats = []string{"CSV", "JSON", "Markdown"}

// App is the root Bubble Tea model. The session must notify events into
// the given Recorder; the app drains it after every update.
type App struct {
	sess      *session.Session
	events    *notify.Recorder
	exportDir string
	width     int
	height    int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	daily     tasksModel
	monthly   tasksModel
	challenge challengeModel
	settings  settingsModel

	help           help.Model
	status         string
	statusSeverity notify.Severity
}

func NewApp(sess *session.Session, s *store.Store, events *notify.Recorder, exportDir string) App {
	h := help.New()
	h.ShowAll = false

	return App{
		sess:       sess,
		events:     events,
		exportDir:  exportDir,
		activeView: viewDaily,
		daily:      newTasksModel(sess, s, tasks.Daily),
		monthly:    newTasksModel(sess, s, tasks.Monthly),
		challenge:  newChallengeModel(sess, s),
		settings:   newSettingsModel(s, sess),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.settings.refresh(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := a.update(msg)
	app := model.(App)
	app.drainEvents()
	return app, cmd
}

func (a App) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.daily.setSize(a.width, contentHeight)
		a.monthly.setSize(a.width, contentHeight)
		a.challenge.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewDaily
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewMonthly
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewChallenge
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			if a.activeView == viewSettings {
				return a, a.settings.refresh()
			}
			return a, nil
		}

	case tickMsg:
		a.sess.CheckExpiry()
		return a, tickCmd()

	case statusMsg:
		a.status = msg.text
		a.statusSeverity = notify.Info
		if msg.isError {
			a.statusSeverity = notify.Danger
		}
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusSeverity = notify.Success
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

// drainEvents moves session notifications into the status line.
func (a *App) drainEvents() {
	if a.events == nil {
		return
	}
	text, sev := statusFor(a.events.Drain())
	if text != "" {
		a.status = text
		a.statusSeverity = sev
	}
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDaily:
		a.daily, cmd = a.daily.update(msg)
	case viewMonthly:
		a.monthly, cmd = a.monthly.update(msg)
	case viewChallenge:
		a.challenge, cmd = a.challenge.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewDaily:
		return a.daily.formActive
	case viewMonthly:
		return a.monthly.formActive
	case viewChallenge:
		return a.challenge.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDaily:
		content = a.daily.view()
	case viewMonthly:
		content = a.monthly.view()
	case viewChallenge:
		content = a.challenge.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(a.height-headerHeight-footerHeight, 1)

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorEmber).Render("streakr")
	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = severityStyle(a.statusSeverity).Render(" " + a.status)
	}

	left := footerStyle.Render(helpView)

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(status)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, status)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport snapshots the session before returning, so the command never
// reads session state from another goroutine.
func (a App) doExport(format int) tea.Cmd {
	ts := a.sess.Tasks().All()
	state := a.sess.Challenge().State()
	dir := a.exportDir
	dateStr := time.Now().Format("2006-01-02")

	return func() tea.Msg {
		var (
			path string
			err  error
		)
		switch format {
		case 0:
			path = filepath.Join(dir, fmt.Sprintf("streakr-export-%s.csv", dateStr))
			err = export.ToCSV(ts, state, path)
		case 1:
			path = filepath.Join(dir, fmt.Sprintf("streakr-export-%s.json", dateStr))
			err = export.ToJSON(ts, state, path)
		default:
			path = filepath.Join(dir, fmt.Sprintf("streakr-export-%s.md", dateStr))
			err = export.ToMarkdown(ts, state, path)
		}
		if err != nil {
			return statusMsg{text: fmt.Sprintf("%s export error: %v", exportFormats[format], err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
