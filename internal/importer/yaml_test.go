package importer

import (
	"errors"
	"testing"

	"github.com/sadopc/streakr/internal/challenge"
	"github.com/sadopc/streakr/internal/notify"
	"github.com/sadopc/streakr/internal/session"
	"github.com/sadopc/streakr/internal/store"
	"github.com/sadopc/streakr/internal/tasks"
)

func newSession(t *testing.T) *session.Session {
	t.Helper()
	db, err := store.NewMemory()
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ts, err := tasks.New(db)
	if err != nil {
		t.Fatal(err)
	}
	tr, err := challenge.New(db, nil)
	if err != nil {
		t.Fatal(err)
	}
	return session.New(ts, tr, notify.Discard)
}

func TestImport(t *testing.T) {
	s := newSession(t)
	input := `
tasks:
  - text: Run 5k
  - text: Read 20 pages
    category: daily
    completed: true
  - text: Pay rent
    category: Monthly
`
	n, err := Import(s, input)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if n != 3 {
		t.Fatalf("imported %d, want 3", n)
	}

	daily := s.Tasks().AllInCategory(tasks.Daily)
	if len(daily) != 2 || daily[0].Text != "Run 5k" {
		t.Fatalf("unexpected daily tasks: %+v", daily)
	}
	if daily[0].IsCompleted || !daily[1].IsCompleted {
		t.Fatalf("completed flags not applied: %+v", daily)
	}
	if _, total := s.Tasks().Counts(tasks.Monthly); total != 1 {
		t.Fatalf("expected 1 monthly task, got %d", total)
	}
}

func TestImportPartlyCompletedDailyKeepsChallenge(t *testing.T) {
	s := newSession(t)
	if err := s.StartChallenge(3); err != nil {
		t.Fatalf("StartChallenge: %v", err)
	}
	input := `
tasks:
  - text: Read
    completed: true
  - text: Run
  - text: Stretch
`
	if _, err := Import(s, input); err != nil {
		t.Fatalf("Import: %v", err)
	}

	if done, _ := s.Challenge().Progress(); done != 0 {
		t.Fatalf("challenge advanced to %d days on a 1/3 complete daily list", done)
	}
	daily := s.Tasks().AllInCategory(tasks.Daily)
	if len(daily) != 3 || !daily[0].IsCompleted || daily[1].IsCompleted || daily[2].IsCompleted {
		t.Fatalf("unexpected daily tasks: %+v", daily)
	}
}

func TestImportFullyCompletedDailyAdvancesOnce(t *testing.T) {
	s := newSession(t)
	if err := s.StartChallenge(3); err != nil {
		t.Fatalf("StartChallenge: %v", err)
	}
	input := `
tasks:
  - text: Read
    completed: true
  - text: Run
    completed: true
`
	if _, err := Import(s, input); err != nil {
		t.Fatalf("Import: %v", err)
	}

	if done, _ := s.Challenge().Progress(); done != 1 {
		t.Fatalf("expected 1 day done, got %d", done)
	}
	if done, total := s.Tasks().Counts(tasks.Daily); done != 0 || total != 2 {
		t.Fatalf("daily list should be reset after the day advanced, got %d/%d", done, total)
	}
}

func TestImportStopsAtFirstFailure(t *testing.T) {
	s := newSession(t)
	input := `
tasks:
  - text: First
  - text: "   "
  - text: Never added
`
	n, err := Import(s, input)
	if !errors.Is(err, tasks.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if n != 1 {
		t.Fatalf("imported %d before failure, want 1", n)
	}
	if len(s.Tasks().All()) != 1 {
		t.Fatal("tasks after the failure must not be added")
	}
}

func TestImportUnknownCategory(t *testing.T) {
	s := newSession(t)
	_, err := Import(s, "tasks:\n  - text: x\n    category: weekly\n")
	if !errors.Is(err, tasks.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(s.Tasks().All()) != 0 {
		t.Fatal("nothing should be added")
	}
}

func TestImportEmpty(t *testing.T) {
	s := newSession(t)
	if _, err := Import(s, "tasks: []\n"); err == nil {
		t.Fatal("expected error for empty task list")
	}
}

func TestImportBadYAML(t *testing.T) {
	s := newSession(t)
	if _, err := Import(s, "tasks: [unclosed"); err == nil {
		t.Fatal("expected parse error")
	}
}
