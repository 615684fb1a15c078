package challenge

import (
	"errors"
	"fmt"
	"time"
)

// Day is one step of an N-day challenge. CompletedAt is set once, when the
// day is completed.
type Day struct {
	Day         int        `json:"day"`
	IsCompleted bool       `json:"isCompleted"`
	CompletedAt *time.Time `json:"completedAt"`
}

// State is the persisted challenge: the day sequence plus the start time.
// A nil StartTime means no challenge is running.
type State struct {
	Days      []Day      `json:"days"`
	StartTime *time.Time `json:"startTime"`
}

func (s State) clone() State {
	out := State{Days: make([]Day, len(s.Days))}
	for i, d := range s.Days {
		out.Days[i] = d
		if d.CompletedAt != nil {
			at := *d.CompletedAt
			out.Days[i].CompletedAt = &at
		}
	}
	if s.StartTime != nil {
		start := *s.StartTime
		out.StartTime = &start
	}
	return out
}

func (s State) firstIncomplete() int {
	for i, d := range s.Days {
		if !d.IsCompleted {
			return i
		}
	}
	return -1
}

func (s State) validate() error {
	for i, d := range s.Days {
		if d.Day != i+1 {
			return fmt.Errorf("%w: day %d found at position %d", ErrValidation, d.Day, i+1)
		}
		if d.IsCompleted != (d.CompletedAt != nil) {
			return fmt.Errorf("%w: day %d completion timestamp mismatch", ErrValidation, d.Day)
		}
	}
	return nil
}

// Status is the challenge lifecycle state derived from State.
type Status int

const (
	NoChallenge Status = iota
	Active
	Completed
	Expired
)

func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Completed:
		return "completed"
	case Expired:
		return "expired"
	default:
		return "none"
	}
}

// AdvanceResult reports what AdvanceIfEligible did.
type AdvanceResult struct {
	Advanced bool
	Day      int  // the day that was completed
	Finished bool // every day is now completed
}

type ExpiryResult struct {
	Expired bool
}

var ErrValidation = errors.New("validation failed")

// StorageError wraps a persistence failure. The in-memory state is unchanged.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)
