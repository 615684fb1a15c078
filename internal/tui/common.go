package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/streakr/internal/notify"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDaily viewState = iota
	viewMonthly
	viewChallenge
	viewSettings
)

var viewNames = []string{"Daily", "Monthly", "Challenge", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// statusFor joins a batch of events into one line, styled by the most
// severe event in the batch.
func statusFor(events []notify.Event) (string, notify.Severity) {
	if len(events) == 0 {
		return "", ""
	}
	parts := make([]string, 0, len(events))
	worst := notify.Success
	for _, e := range events {
		parts = append(parts, notify.Describe(e))
		if severityRank(e.Severity) > severityRank(worst) {
			worst = e.Severity
		}
	}
	return strings.Join(parts, " · "), worst
}

func severityRank(s notify.Severity) int {
	switch s {
	case notify.Danger:
		return 3
	case notify.Warning:
		return 2
	case notify.Info:
		return 1
	}
	return 0
}

func severityStyle(s notify.Severity) lipgloss.Style {
	switch s {
	case notify.Danger:
		return errorStyle
	case notify.Warning:
		return warningStyle
	case notify.Info:
		return highlightStyle
	case notify.Success:
		return successStyle
	}
	return mutedStyle
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
