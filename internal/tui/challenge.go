package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/sadopc/streakr/internal/challenge"
	"github.com/sadopc/streakr/internal/session"
	"github.com/sadopc/streakr/internal/store"
	"github.com/sadopc/streakr/internal/tasks"
)

type challengeModel struct {
	sess   *session.Session
	store  *store.Store
	width  int
	height int

	formActive bool
	form       *huh.Form
	formDays   *string
}

func newChallengeModel(sess *session.Session, s *store.Store) challengeModel {
	days := ""
	return challengeModel{
		sess:     sess,
		store:    s,
		formDays: &days,
	}
}

func (c *challengeModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

func (c challengeModel) update(msg tea.Msg) (challengeModel, tea.Cmd) {
	if c.formActive && c.form != nil {
		return c.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, keys.Start) {
		return c.showStartForm()
	}
	return c, nil
}

func (c challengeModel) showStartForm() (challengeModel, tea.Cmd) {
	*c.formDays = strconv.Itoa(c.store.GetIntSetting("default_days", 7))

	title := "Number of days"
	if c.sess.Challenge().Status() == challenge.Active {
		title = "Number of days (replaces the running challenge)"
	}

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Value(c.formDays).
				Validate(func(s string) error {
					_, err := challenge.ParseDayCount(s)
					return err
				}),
		),
	).WithShowHelp(true).WithShowErrors(true)

	c.formActive = true
	return c, c.form.Init()
}

func (c challengeModel) updateForm(msg tea.Msg) (challengeModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			c.formActive = false
			c.form = nil
			return c, nil
		}
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	if c.form.State == huh.StateCompleted {
		c.formActive = false
		c.sess.StartChallengeInput(*c.formDays)
		return c, nil
	}

	return c, cmd
}

func (c challengeModel) view() string {
	w := c.width - 4

	if c.formActive && c.form != nil {
		title := titleStyle.Render("Start Challenge")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", c.form.View()),
		)
	}

	now := time.Now()
	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			c.renderHeader(now),
			"",
			c.renderDays(now),
			"",
			c.renderChart(w),
			"",
			mutedStyle.Render("  s: start a new challenge"),
		),
	)
}

func (c challengeModel) renderHeader(now time.Time) string {
	tr := c.sess.Challenge()
	st := tr.State()
	done, total := tr.Progress()
	title := titleStyle.Render("Challenge")

	switch tr.Status() {
	case challenge.Active:
		deadline, _ := tr.Deadline()
		countdown := countdownStyle.Render(formatDuration(deadline.Sub(now)))
		return lipgloss.JoinVertical(lipgloss.Left,
			fmt.Sprintf("%s  %s", title, highlightStyle.Render(fmt.Sprintf("%d/%d days", done, total))),
			mutedStyle.Render("Started "+humanize.RelTime(*st.StartTime, now, "ago", "from now")),
			fmt.Sprintf("Complete every daily task within %s", countdown),
		)
	case challenge.Completed:
		return lipgloss.JoinVertical(lipgloss.Left,
			fmt.Sprintf("%s  %s", title, successStyle.Render("completed")),
			mutedStyle.Render(fmt.Sprintf("All %d days done. Press s to go again.", total)),
		)
	case challenge.Expired:
		return lipgloss.JoinVertical(lipgloss.Left,
			fmt.Sprintf("%s  %s", title, warningStyle.Render("expired")),
			mutedStyle.Render(fmt.Sprintf("The %gh window passed. Press s to restart.", tr.Window().Hours())),
		)
	default:
		return lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No challenge running. Press s to start one."),
		)
	}
}

// renderDays draws one cell per day, ten to a row.
func (c challengeModel) renderDays(now time.Time) string {
	st := c.sess.Challenge().State()
	if len(st.Days) == 0 {
		return ""
	}

	var rows []string
	var cells []string
	for i, d := range st.Days {
		cell := mutedStyle.Render(fmt.Sprintf("%3d", d.Day))
		if d.IsCompleted {
			cell = successStyle.Render(fmt.Sprintf("%3d", d.Day))
		}
		cells = append(cells, cell)
		if (i+1)%10 == 0 {
			rows = append(rows, "  "+strings.Join(cells, " "))
			cells = nil
		}
	}
	if len(cells) > 0 {
		rows = append(rows, "  "+strings.Join(cells, " "))
	}

	if last := lastCompleted(st); last != nil {
		rows = append(rows, "", mutedStyle.Render(fmt.Sprintf("  Day %d completed %s",
			last.Day, humanize.RelTime(*last.CompletedAt, now, "ago", "from now"))))
	}
	return strings.Join(rows, "\n")
}

func lastCompleted(st challenge.State) *challenge.Day {
	var last *challenge.Day
	for i := range st.Days {
		if st.Days[i].IsCompleted {
			last = &st.Days[i]
		}
	}
	return last
}

// renderChart stacks done and open counts for each category and the days.
func (c challengeModel) renderChart(w int) string {
	chartWidth := w - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if c.height > 30 {
		chartHeight = 14
	}
	chart := barchart.New(chartWidth, chartHeight)

	doneStyle := lipgloss.NewStyle().Foreground(colorLeaf)
	openStyle := lipgloss.NewStyle().Foreground(colorBorder)
	bar := func(label string, done, total int) barchart.BarData {
		return barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{
				{Name: "done", Value: float64(done), Style: doneStyle},
				{Name: "open", Value: float64(total - done), Style: openStyle},
			},
		}
	}

	var bars []barchart.BarData
	for _, cat := range tasks.Categories {
		done, total := c.sess.Tasks().Counts(cat)
		bars = append(bars, bar(titleCase(cat.String()), done, total))
	}
	done, total := c.sess.Challenge().Progress()
	bars = append(bars, bar("Days", done, total))

	chart.PushAll(bars)
	chart.Draw()

	legend := fmt.Sprintf("  %s done  %s open",
		doneStyle.Render("●"), openStyle.Render("●"))
	return lipgloss.JoinVertical(lipgloss.Left, chart.View(), legend)
}
