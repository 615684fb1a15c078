package challenge

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SnapshotKey is the durable store key holding days and start time together.
const SnapshotKey = "challenge"

// DefaultWindow is the deadline measured from the challenge start.
const DefaultWindow = 24 * time.Hour

// MaxDays is the longest challenge Start accepts, ten years of days.
const MaxDays = 3650

// Persister is the durable store collaborator.
type Persister interface {
	Load(key string) ([]byte, bool, error)
	Save(key string, data []byte) error
}

// Tracker owns the challenge day sequence. It never looks at tasks itself;
// callers pass in whether the daily tasks are fully completed.
type Tracker struct {
	persister Persister
	clock     Clock
	window    time.Duration
	state     State
}

type Option func(*Tracker)

// WithWindow overrides DefaultWindow. Non-positive values are ignored.
func WithWindow(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.window = d
		}
	}
}

// New loads the challenge snapshot. A missing snapshot means no challenge.
func New(p Persister, clock Clock, opts ...Option) (*Tracker, error) {
	if clock == nil {
		clock = SystemClock
	}
	t := &Tracker{persister: p, clock: clock, window: DefaultWindow}
	for _, opt := range opts {
		opt(t)
	}
	if err := t.Reload(); err != nil {
		return nil, err
	}
	return t, nil
}

// Reload replaces the in-memory state with the stored snapshot.
func (t *Tracker) Reload() error {
	data, ok, err := t.persister.Load(SnapshotKey)
	if err != nil {
		return &StorageError{Op: "load", Key: SnapshotKey, Err: err}
	}
	if !ok || len(data) == 0 {
		t.state = State{}
		return nil
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("decode challenge snapshot: %w", err)
	}
	if err := st.validate(); err != nil {
		return fmt.Errorf("challenge snapshot: %w", err)
	}
	t.state = st
	return nil
}

// Start replaces any existing challenge with days 1..numDays, all open.
func (t *Tracker) Start(numDays int) error {
	if err := checkDayCount(numDays); err != nil {
		return err
	}

	days := make([]Day, numDays)
	for i := range days {
		days[i] = Day{Day: i + 1}
	}
	start := t.clock.Now()
	return t.commit(State{Days: days, StartTime: &start})
}

// AdvanceIfEligible completes the first open day when dailyFullyCompleted
// is true. At most one day advances per call.
func (t *Tracker) AdvanceIfEligible(dailyFullyCompleted bool) (AdvanceResult, error) {
	if !dailyFullyCompleted || t.state.StartTime == nil || len(t.state.Days) == 0 {
		return AdvanceResult{}, nil
	}
	i := t.state.firstIncomplete()
	if i < 0 {
		return AdvanceResult{}, nil
	}

	next := t.state.clone()
	now := t.clock.Now()
	next.Days[i].IsCompleted = true
	next.Days[i].CompletedAt = &now
	if err := t.commit(next); err != nil {
		return AdvanceResult{}, err
	}
	return AdvanceResult{
		Advanced: true,
		Day:      next.Days[i].Day,
		Finished: next.firstIncomplete() < 0,
	}, nil
}

// CheckExpiry resets the challenge when more than the window has passed
// since it started. Once expired, StartTime is nil and further calls are
// no-ops. A fully completed challenge does not expire.
func (t *Tracker) CheckExpiry(now time.Time) (ExpiryResult, error) {
	if t.state.StartTime == nil || t.Status() == Completed {
		return ExpiryResult{}, nil
	}
	if now.Sub(*t.state.StartTime) <= t.window {
		return ExpiryResult{}, nil
	}

	next := t.state.clone()
	for i := range next.Days {
		next.Days[i].IsCompleted = false
		next.Days[i].CompletedAt = nil
	}
	next.StartTime = nil
	if err := t.commit(next); err != nil {
		return ExpiryResult{}, err
	}
	return ExpiryResult{Expired: true}, nil
}

func (t *Tracker) Status() Status {
	if t.state.StartTime == nil {
		if len(t.state.Days) == 0 {
			return NoChallenge
		}
		return Expired
	}
	if t.state.firstIncomplete() < 0 {
		return Completed
	}
	return Active
}

// State returns a copy of the current state.
func (t *Tracker) State() State {
	return t.state.clone()
}

// Deadline is when an active challenge expires.
func (t *Tracker) Deadline() (time.Time, bool) {
	if t.Status() != Active {
		return time.Time{}, false
	}
	return t.state.StartTime.Add(t.window), true
}

func (t *Tracker) Window() time.Duration { return t.window }

// Progress returns completed and total day counts.
func (t *Tracker) Progress() (done, total int) {
	for _, d := range t.state.Days {
		if d.IsCompleted {
			done++
		}
	}
	return done, len(t.state.Days)
}

func (t *Tracker) commit(next State) error {
	if next.Days == nil {
		next.Days = []Day{}
	}
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode challenge snapshot: %w", err)
	}
	if err := t.persister.Save(SnapshotKey, data); err != nil {
		return &StorageError{Op: "save", Key: SnapshotKey, Err: err}
	}
	t.state = next
	return nil
}

// ParseDayCount parses user input for Start. Only integers in 1..MaxDays pass.
func ParseDayCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a whole number of days", ErrValidation, s)
	}
	if err := checkDayCount(n); err != nil {
		return 0, err
	}
	return n, nil
}

func checkDayCount(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: number of days must be positive, got %d", ErrValidation, n)
	}
	if n > MaxDays {
		return fmt.Errorf("%w: number of days must be at most %d, got %d", ErrValidation, MaxDays, n)
	}
	return nil
}
