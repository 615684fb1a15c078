package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/sadopc/streakr/internal/challenge"
	"github.com/sadopc/streakr/internal/export"
	"github.com/sadopc/streakr/internal/session"
	"github.com/sadopc/streakr/internal/store"
	"github.com/sadopc/streakr/internal/tasks"
)

// tasksModel lists one category. The daily and monthly views are two
// instances of it.
type tasksModel struct {
	sess     *session.Session
	store    *store.Store
	category tasks.Category
	width    int
	height   int

	cursor int

	formActive bool
	form       *huh.Form
	formType   string // "add", "delete"

	// Form field pointers (survive value copies)
	formText    *string
	formConfirm *bool

	pendingID string // task awaiting delete confirmation
}

func newTasksModel(sess *session.Session, s *store.Store, c tasks.Category) tasksModel {
	text, confirm := "", false
	return tasksModel{
		sess:        sess,
		store:       s,
		category:    c,
		formText:    &text,
		formConfirm: &confirm,
	}
}

func (m *tasksModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m tasksModel) items() []tasks.Task {
	return m.sess.Tasks().AllInCategory(m.category)
}

func (m tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	items := m.items()

	switch {
	case key.Matches(km, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(km, keys.Down):
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case key.Matches(km, keys.New):
		return m.showAddForm()
	case key.Matches(km, keys.Toggle):
		if len(items) > 0 {
			m.sess.ToggleTask(items[m.cursor].ID)
		}
	case key.Matches(km, keys.Delete):
		if len(items) == 0 {
			return m, nil
		}
		task := items[m.cursor]
		if m.store.GetBoolSetting("confirm_delete", true) {
			return m.showDeleteForm(task)
		}
		m.sess.RemoveTask(task.ID)
		m.clampCursor()
	case key.Matches(km, keys.Copy):
		return m, m.copyChecklist(items)
	}
	return m, nil
}

func (m *tasksModel) clampCursor() {
	n := len(m.items())
	if m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

func (m tasksModel) copyChecklist(items []tasks.Task) tea.Cmd {
	text := export.Markdown(items)
	category := m.category.String()
	return func() tea.Msg {
		if text == "" {
			return statusMsg{text: "Nothing to copy", isError: true}
		}
		if err := clipboard.WriteAll(text); err != nil {
			return statusMsg{text: fmt.Sprintf("Clipboard error: %v", err), isError: true}
		}
		return statusMsg{text: fmt.Sprintf("Copied %s checklist", category)}
	}
}

func (m tasksModel) showAddForm() (tasksModel, tea.Cmd) {
	*m.formText = ""
	m.formType = "add"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task").Value(m.formText),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) showDeleteForm(task tasks.Task) (tasksModel, tea.Cmd) {
	*m.formConfirm = false
	m.formType = "delete"
	m.pendingID = task.ID

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", task.Text)).
				Affirmative("Delete").
				Negative("Cancel").
				Value(m.formConfirm),
		),
	).WithShowHelp(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			m.pendingID = ""
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		switch m.formType {
		case "add":
			// Blank input still goes through the session so the rejection
			// reaches the status line.
			m.sess.AddTask(*m.formText, m.category)
		case "delete":
			if *m.formConfirm && m.pendingID != "" {
				m.sess.RemoveTask(m.pendingID)
				m.clampCursor()
			}
			m.pendingID = ""
		}
		return m, nil
	}

	return m, cmd
}

func (m tasksModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("New " + titleCase(m.category.String()) + " Task")
		if m.formType == "delete" {
			title = titleStyle.Render("Delete Task")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	panels := []string{m.renderList(w)}
	if m.category == tasks.Daily {
		panels = append(panels, m.renderChallengeStrip(w, time.Now()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, panels...)
}

func (m tasksModel) renderList(w int) string {
	items := m.items()
	done, total := m.sess.Tasks().Counts(m.category)
	title := titleStyle.Render(titleCase(m.category.String()) + " Tasks")
	header := fmt.Sprintf("%s  %s", title, highlightStyle.Render(fmt.Sprintf("%d/%d", done, total)))

	if len(items) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			mutedStyle.Render("No tasks yet. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, header)
	rows = append(rows, "")

	for i, task := range items {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		check := mutedStyle.Render("[ ]")
		if task.IsCompleted {
			check = successStyle.Render("[x]")
			if i != m.cursor {
				style = doneItemStyle
			}
		}
		rows = append(rows, style.Render(cursor)+check+" "+style.Render(task.Text))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  x: toggle  d: delete  y: copy"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

// renderChallengeStrip is a one-line reminder of what completing the daily
// list will do.
func (m tasksModel) renderChallengeStrip(w int, now time.Time) string {
	tr := m.sess.Challenge()
	done, total := tr.Progress()

	var line string
	switch tr.Status() {
	case challenge.Active:
		deadline, _ := tr.Deadline()
		line = fmt.Sprintf("%s  day %d of %d  %s",
			highlightStyle.Render("Challenge"),
			done+1, total,
			mutedStyle.Render("expires "+humanize.RelTime(deadline, now, "ago", "from now")),
		)
	case challenge.Completed:
		line = successStyle.Render(fmt.Sprintf("Challenge complete: %d/%d days", done, total))
	case challenge.Expired:
		line = warningStyle.Render("Challenge expired. Press 3 then s to start again.")
	default:
		line = mutedStyle.Render("No challenge running. Press 3 then s to start one.")
	}
	return panelStyle.Width(w).Render(line)
}
