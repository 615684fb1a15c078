package tui

import (
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/streakr/internal/challenge"
	"github.com/sadopc/streakr/internal/notify"
	"github.com/sadopc/streakr/internal/session"
	"github.com/sadopc/streakr/internal/store"
	"github.com/sadopc/streakr/internal/tasks"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestApp(t *testing.T) (App, *store.Store) {
	t.Helper()
	s := newTestStore(t)
	ts, err := tasks.New(s)
	if err != nil {
		t.Fatal(err)
	}
	tr, err := challenge.New(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	rec := &notify.Recorder{}
	sess := session.New(ts, tr, rec)
	app := NewApp(sess, s, rec, t.TempDir())
	app.width = 120
	app.height = 40
	app.daily.setSize(120, 36)
	app.monthly.setSize(120, 36)
	app.challenge.setSize(120, 36)
	app.settings.setSize(120, 36)
	return app, s
}

func press(t *testing.T, a App, k string) (App, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	m, cmd := a.Update(msg)
	return m.(App), cmd
}

// ============================================================
// Helper functions
// ============================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{-time.Second, "00:00:00"},
		{time.Second, "00:00:01"},
		{time.Hour + time.Minute + time.Second, "01:01:01"},
		{24 * time.Hour, "24:00:00"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestStatusForPicksWorstSeverity(t *testing.T) {
	text, sev := statusFor([]notify.Event{
		{Kind: notify.CategoryCompleted, Severity: notify.Success, Category: "daily"},
		{Kind: notify.CategoryReset, Severity: notify.Info, Category: "daily"},
	})
	if sev != notify.Info {
		t.Fatalf("severity = %s, want info", sev)
	}
	if !strings.Contains(text, "All daily tasks completed!") || !strings.Contains(text, "Daily tasks reset") {
		t.Fatalf("unexpected text %q", text)
	}

	if text, _ := statusFor(nil); text != "" {
		t.Fatal("no events should give no status")
	}
}

func TestFormatSettingValue(t *testing.T) {
	tests := []struct {
		k, v, want string
	}{
		{"default_days", "7", "7 days"},
		{"default_days", "1", "1 day"},
		{"reset_on_complete", "true", "on"},
		{"confirm_delete", "false", "off"},
		{"unknown", "x", "x"},
		{"default_days", "abc", "abc"},
	}
	for _, tt := range tests {
		if got := formatSettingValue(tt.k, tt.v); got != tt.want {
			t.Errorf("formatSettingValue(%q, %q) = %q, want %q", tt.k, tt.v, got, tt.want)
		}
	}
}

// ============================================================
// View state
// ============================================================

func TestViewNames(t *testing.T) {
	if len(viewNames) != 4 {
		t.Fatalf("expected 4 view names, got %d", len(viewNames))
	}
	if viewNames[viewChallenge] != "Challenge" {
		t.Fatalf("unexpected name for challenge view: %q", viewNames[viewChallenge])
	}
}

func TestTabCyclesViews(t *testing.T) {
	app, _ := newTestApp(t)
	for _, want := range []viewState{viewMonthly, viewChallenge, viewSettings, viewDaily} {
		app, _ = press(t, app, "tab")
		if app.activeView != want {
			t.Fatalf("activeView = %d, want %d", app.activeView, want)
		}
	}
}

func TestNumberKeysSwitchViews(t *testing.T) {
	app, _ := newTestApp(t)
	app, _ = press(t, app, "3")
	if app.activeView != viewChallenge {
		t.Fatalf("expected challenge view, got %d", app.activeView)
	}
	app, _ = press(t, app, "2")
	if app.activeView != viewMonthly {
		t.Fatalf("expected monthly view, got %d", app.activeView)
	}
}

// ============================================================
// Task views
// ============================================================

func TestToggleCompletesDailyAndAdvances(t *testing.T) {
	app, _ := newTestApp(t)
	if err := app.sess.StartChallenge(3); err != nil {
		t.Fatal(err)
	}
	task, _ := app.sess.AddTask("Run", tasks.Daily)

	app, _ = press(t, app, "x")

	if done, _ := app.sess.Challenge().Progress(); done != 1 {
		t.Fatalf("expected day 1 done, got %d", done)
	}
	got, _ := app.sess.Tasks().Get(task.ID)
	if got.IsCompleted {
		t.Fatal("daily task should be reset after the day advanced")
	}
	if !strings.Contains(app.status, "Day 1 of 3 complete") {
		t.Fatalf("status should mention the day, got %q", app.status)
	}
	if app.statusSeverity != notify.Info {
		t.Fatalf("severity = %s, want info (reset is the least positive event)", app.statusSeverity)
	}
}

func TestCursorMovesAndTogglesSelected(t *testing.T) {
	app, _ := newTestApp(t)
	app.sess.AddTask("First", tasks.Monthly)
	second, _ := app.sess.AddTask("Second", tasks.Monthly)

	app, _ = press(t, app, "2")
	app, _ = press(t, app, "down")
	app, _ = press(t, app, "x")

	got, _ := app.sess.Tasks().Get(second.ID)
	if !got.IsCompleted {
		t.Fatal("second monthly task should be completed")
	}
}

func TestDeleteWithoutConfirmation(t *testing.T) {
	app, s := newTestApp(t)
	if err := s.SetSetting("confirm_delete", "false"); err != nil {
		t.Fatal(err)
	}
	app.sess.AddTask("Run", tasks.Daily)

	app, _ = press(t, app, "d")

	if len(app.sess.Tasks().All()) != 0 {
		t.Fatal("task should be deleted immediately")
	}
	if !strings.Contains(app.status, `Deleted "Run"`) {
		t.Fatalf("unexpected status %q", app.status)
	}
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	app, _ := newTestApp(t)
	app.sess.AddTask("Run", tasks.Daily)

	app, _ = press(t, app, "d")

	if !app.isFormActive() || app.daily.formType != "delete" {
		t.Fatal("delete should open a confirmation form")
	}
	if len(app.sess.Tasks().All()) != 1 {
		t.Fatal("task must not be deleted before confirmation")
	}

	app, _ = press(t, app, "esc")
	if app.isFormActive() || app.daily.pendingID != "" {
		t.Fatal("esc should cancel the confirmation")
	}
	if len(app.sess.Tasks().All()) != 1 {
		t.Fatal("cancelled delete must keep the task")
	}
}

func TestNewOpensAddForm(t *testing.T) {
	app, _ := newTestApp(t)
	app, _ = press(t, app, "n")
	if !app.isFormActive() || app.daily.formType != "add" {
		t.Fatal("n should open the add form")
	}

	// Global keys go to the form while it is open.
	app, _ = press(t, app, "q")
	if !app.isFormActive() {
		t.Fatal("typing in the form should not quit or close it")
	}
}

func TestCopyReturnsCommand(t *testing.T) {
	app, _ := newTestApp(t)
	app.sess.AddTask("Run", tasks.Daily)
	if _, cmd := press(t, app, "y"); cmd == nil {
		t.Fatal("copy should return a command")
	}
}

// ============================================================
// Challenge view
// ============================================================

func TestTickExpiresChallenge(t *testing.T) {
	s := newTestStore(t)
	clock := challenge.ClockFunc(func() time.Time { return time.Now().Add(-48 * time.Hour) })
	ts, _ := tasks.New(s)
	tr, _ := challenge.New(s, clock)
	rec := &notify.Recorder{}
	sess := session.New(ts, tr, rec)
	if err := sess.StartChallenge(3); err != nil {
		t.Fatal(err)
	}
	rec.Drain()

	app := NewApp(sess, s, rec, t.TempDir())
	m, cmd := app.Update(tickMsg(time.Now()))
	app = m.(App)

	if cmd == nil {
		t.Fatal("tick should schedule the next tick")
	}
	if sess.Challenge().Status() != challenge.Expired {
		t.Fatalf("status = %s, want expired", sess.Challenge().Status())
	}
	if app.statusSeverity != notify.Warning {
		t.Fatalf("severity = %s, want warning", app.statusSeverity)
	}
}

func TestStartOpensFormWithDefaultDays(t *testing.T) {
	app, s := newTestApp(t)
	s.SetSetting("default_days", "21")

	app, _ = press(t, app, "3")
	app, _ = press(t, app, "s")

	if !app.challenge.formActive {
		t.Fatal("s should open the start form")
	}
	if *app.challenge.formDays != "21" {
		t.Fatalf("form should default to 21 days, got %q", *app.challenge.formDays)
	}
}

func TestChallengeViewRenders(t *testing.T) {
	app, _ := newTestApp(t)
	app.activeView = viewChallenge

	if out := app.View(); !strings.Contains(out, "No challenge running") {
		t.Fatal("empty challenge view should say so")
	}

	app.sess.StartChallenge(12)
	out := app.View()
	if !strings.Contains(out, "0/12 days") {
		t.Fatal("active challenge should show progress")
	}
	if !strings.Contains(out, "done") || !strings.Contains(out, "open") {
		t.Fatal("chart legend missing")
	}
}

// ============================================================
// Export
// ============================================================

func TestExportPicker(t *testing.T) {
	app, _ := newTestApp(t)
	app.sess.AddTask("Run", tasks.Daily)

	app, _ = press(t, app, "e")
	if !app.exportPicking {
		t.Fatal("e should open the export picker")
	}
	app, _ = press(t, app, "down")
	app, cmd := press(t, app, "enter")
	if app.exportPicking || cmd == nil {
		t.Fatal("enter should close the picker and export")
	}

	msg := cmd()
	done, ok := msg.(exportDoneMsg)
	if !ok {
		t.Fatalf("expected exportDoneMsg, got %#v", msg)
	}
	if !strings.HasSuffix(done.path, ".json") {
		t.Fatalf("second format should be JSON, got %s", done.path)
	}
	if _, err := os.Stat(done.path); err != nil {
		t.Fatalf("export file missing: %v", err)
	}
}

func TestExportPickerEscape(t *testing.T) {
	app, _ := newTestApp(t)
	app, _ = press(t, app, "e")
	app, _ = press(t, app, "esc")
	if app.exportPicking {
		t.Fatal("esc should close the picker")
	}
}

// ============================================================
// App model
// ============================================================

func TestAppViewStates(t *testing.T) {
	app, _ := newTestApp(t)
	for _, v := range []viewState{viewDaily, viewMonthly, viewChallenge, viewSettings} {
		app.activeView = v
		if app.View() == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	app, _ := newTestApp(t)
	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppLoadingState(t *testing.T) {
	app, _ := newTestApp(t)
	app.width = 0
	if out := app.View(); out != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", out)
	}
}

func TestAppStatusMessage(t *testing.T) {
	app, _ := newTestApp(t)
	m, _ := app.Update(statusMsg{text: "Clipboard error: no xclip", isError: true})
	app = m.(App)
	if app.statusSeverity != notify.Danger {
		t.Fatal("error status should be danger")
	}
	if !strings.Contains(app.renderFooter(), "Clipboard error") {
		t.Fatal("footer should contain status message")
	}
}

func TestSettingsRefresh(t *testing.T) {
	app, _ := newTestApp(t)
	app, cmd := press(t, app, "4")
	if cmd == nil {
		t.Fatal("settings view should refresh")
	}
	m, _ := app.Update(cmd())
	app = m.(App)
	if len(app.settings.settings) != 3 {
		t.Fatalf("expected 3 settings, got %d", len(app.settings.settings))
	}
	if !strings.Contains(app.View(), "confirm_delete") {
		t.Fatal("settings view should list keys")
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapFullHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
	for i, g := range keys.FullHelp() {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}
