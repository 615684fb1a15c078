// Package session owns one user's task store and challenge tracker and
// wires daily-task completion to challenge advancement.
package session

import (
	"errors"

	"github.com/sadopc/streakr/internal/challenge"
	"github.com/sadopc/streakr/internal/notify"
	"github.com/sadopc/streakr/internal/tasks"
)

// Session is constructed once per run and passed to whatever drives it.
// It is not safe for concurrent use.
type Session struct {
	tasks    *tasks.Store
	tracker  *challenge.Tracker
	notifier notify.Notifier
	clock    challenge.Clock

	resetOnComplete bool
	alerted         map[tasks.Category]bool
}

type Option func(*Session)

// WithResetOnComplete resets any category as soon as it is fully completed,
// not only the daily category after a challenge day advances.
func WithResetOnComplete(on bool) Option {
	return func(s *Session) { s.resetOnComplete = on }
}

// WithClock sets the clock used by CheckExpiry. Use the tracker's clock.
func WithClock(c challenge.Clock) Option {
	return func(s *Session) { s.clock = c }
}

func New(ts *tasks.Store, tr *challenge.Tracker, n notify.Notifier, opts ...Option) *Session {
	if n == nil {
		n = notify.Discard
	}
	s := &Session{
		tasks:    ts,
		tracker:  tr,
		notifier: n,
		clock:    challenge.SystemClock,
		alerted:  make(map[tasks.Category]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	ts.Subscribe(s.onCompletionChange)
	return s
}

// SetResetOnComplete changes the reset_on_complete preference for later
// completions.
func (s *Session) SetResetOnComplete(on bool) { s.resetOnComplete = on }

func (s *Session) Tasks() *tasks.Store { return s.tasks }

func (s *Session) Challenge() *challenge.Tracker { return s.tracker }

// Resume handles categories that were already fully completed when the
// session was loaded, as if they had just been completed.
func (s *Session) Resume() error {
	var errs []error
	for _, c := range tasks.Categories {
		if s.tasks.IsCategoryFullyCompleted(c) {
			if err := s.onCompletionChange(tasks.CompletionChange{Category: c, Completed: true}); err != nil {
				errs = append(errs, err)
			}
		}
	}
	err := errors.Join(errs...)
	if err != nil {
		s.report(err)
	}
	return err
}

func (s *Session) AddTask(text string, category tasks.Category) (tasks.Task, error) {
	task, err := s.tasks.Add(text, category)
	if task.ID != "" {
		s.emit(notify.Event{Kind: notify.TaskAdded, Category: category.String(), TaskID: task.ID, Text: task.Text})
	}
	if err != nil {
		s.report(err)
	}
	return task, err
}

// ToggleTask flips a task. Completing the last open daily task may advance
// the challenge and reset the daily tasks before this returns.
func (s *Session) ToggleTask(id string) (tasks.Task, error) {
	task, err := s.tasks.Toggle(id)
	if err != nil {
		s.report(err)
	}
	return task, err
}

// RemoveTask deletes a task. The caller has already confirmed with the user.
func (s *Session) RemoveTask(id string) error {
	task, err := s.tasks.Get(id)
	if err != nil {
		s.report(err)
		return err
	}
	err = s.tasks.Remove(id)
	if _, gerr := s.tasks.Get(id); errors.Is(gerr, tasks.ErrNotFound) {
		s.emit(notify.Event{Kind: notify.TaskDeleted, Category: task.Category.String(), TaskID: id, Text: task.Text})
	}
	if err != nil {
		s.report(err)
	}
	return err
}

func (s *Session) StartChallenge(numDays int) error {
	if err := s.tracker.Start(numDays); err != nil {
		s.report(err)
		return err
	}
	s.emit(notify.Event{Kind: notify.ChallengeStarted, Days: numDays})
	return nil
}

// StartChallengeInput parses raw user input as a day count and starts.
func (s *Session) StartChallengeInput(raw string) error {
	n, err := challenge.ParseDayCount(raw)
	if err != nil {
		s.report(err)
		return err
	}
	return s.StartChallenge(n)
}

// ReloadChallenge rereads the challenge snapshot, picking up changes made by
// another process sharing the database.
func (s *Session) ReloadChallenge() error {
	if err := s.tracker.Reload(); err != nil {
		s.report(err)
		return err
	}
	return nil
}

// CheckExpiry expires the challenge if its window has passed.
func (s *Session) CheckExpiry() (challenge.ExpiryResult, error) {
	res, err := s.tracker.CheckExpiry(s.clock.Now())
	if err != nil {
		s.report(err)
		return res, err
	}
	if res.Expired {
		_, total := s.tracker.Progress()
		s.emit(notify.Event{Kind: notify.ChallengeExpired, Days: total})
	}
	return res, nil
}

func (s *Session) onCompletionChange(c tasks.CompletionChange) error {
	if !c.Completed {
		s.alerted[c.Category] = false
		return nil
	}
	if s.alerted[c.Category] {
		return nil
	}
	s.alerted[c.Category] = true
	s.emit(notify.Event{Kind: notify.CategoryCompleted, Category: c.Category.String()})

	advanced := false
	if c.Category == tasks.Daily {
		res, err := s.tracker.AdvanceIfEligible(true)
		if err != nil {
			return err
		}
		if res.Advanced {
			advanced = true
			_, total := s.tracker.Progress()
			s.emit(notify.Event{Kind: notify.DayCompleted, Day: res.Day, Days: total})
			if res.Finished {
				s.emit(notify.Event{Kind: notify.ChallengeFinished, Days: total})
			}
		}
	}

	if !advanced && !s.resetOnComplete {
		return nil
	}
	if err := s.tasks.ResetCategory(c.Category); err != nil {
		return err
	}
	s.emit(notify.Event{Kind: notify.CategoryReset, Category: c.Category.String()})
	return nil
}

func (s *Session) emit(e notify.Event) {
	if e.Severity == "" {
		e.Severity = notify.SeverityOf(e.Kind)
	}
	s.notifier.Notify(e)
}

// report turns an error into a single notification. Listener errors reach
// here joined with the mutation's own result, so only the caller of a
// mutation reports.
func (s *Session) report(err error) {
	switch {
	case errors.Is(err, tasks.ErrValidation), errors.Is(err, tasks.ErrAmbiguous), errors.Is(err, challenge.ErrValidation):
		s.emit(notify.Event{Kind: notify.ValidationFailed, Err: err})
	case errors.Is(err, tasks.ErrNotFound):
		s.emit(notify.Event{Kind: notify.NotFound, Err: err})
	default:
		s.emit(notify.Event{Kind: notify.StorageFailed, Err: err})
	}
}
