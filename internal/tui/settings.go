package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/streakr/internal/challenge"
	"github.com/sadopc/streakr/internal/session"
	"github.com/sadopc/streakr/internal/store"
)

type settingsModel struct {
	store  *store.Store
	sess   *session.Session
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	defaultDays     *string
	resetOnComplete *string
	confirmDelete   *string
}

func newSettingsModel(s *store.Store, sess *session.Session) settingsModel {
	dd, rc, cd := "", "", ""
	return settingsModel{
		store:           s,
		sess:            sess,
		defaultDays:     &dd,
		resetOnComplete: &rc,
		confirmDelete:   &cd,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	// Load current values
	*s.defaultDays = strconv.Itoa(s.store.GetIntSetting("default_days", 7))
	*s.resetOnComplete = strconv.FormatBool(s.store.GetBoolSetting("reset_on_complete", true))
	*s.confirmDelete = strconv.FormatBool(s.store.GetBoolSetting("confirm_delete", true))

	onOff := []huh.Option[string]{
		huh.NewOption("On", "true"),
		huh.NewOption("Off", "false"),
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Default challenge length (days)").
				Value(s.defaultDays).
				Validate(func(v string) error {
					_, err := challenge.ParseDayCount(v)
					return err
				}),
		).Title("Challenge"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Reset a category once it is fully completed").
				Options(onOff...).Value(s.resetOnComplete),
			huh.NewSelect[string]().Title("Confirm before deleting a task").
				Options(onOff...).Value(s.confirmDelete),
		).Title("Tasks"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if err := s.saveSettings(); err != nil {
			return s, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Settings error: %v", err), isError: true}
			}
		}
		return s, s.refresh()
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	if err := s.store.SetSetting("default_days", *s.defaultDays); err != nil {
		return err
	}
	if err := s.store.SetSetting("reset_on_complete", *s.resetOnComplete); err != nil {
		return err
	}
	if err := s.store.SetSetting("confirm_delete", *s.confirmDelete); err != nil {
		return err
	}
	s.sess.SetResetOnComplete(s.store.GetBoolSetting("reset_on_complete", true))
	return nil
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case "default_days":
		if n, err := strconv.Atoi(v); err == nil {
			if n == 1 {
				return "1 day"
			}
			return fmt.Sprintf("%d days", n)
		}
	case "reset_on_complete", "confirm_delete":
		if b, err := strconv.ParseBool(v); err == nil {
			if b {
				return "on"
			}
			return "off"
		}
	}
	return v
}
