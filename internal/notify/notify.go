// Package notify carries semantic events from the task engine to whatever
// presents them.
package notify

// Kind identifies what happened.
type Kind string

const (
	TaskAdded         Kind = "task_added"
	TaskDeleted       Kind = "task_deleted"
	ValidationFailed  Kind = "validation_failed"
	NotFound          Kind = "not_found"
	CategoryCompleted Kind = "category_completed"
	CategoryReset     Kind = "category_reset"
	ChallengeStarted  Kind = "challenge_started"
	DayCompleted      Kind = "day_completed"
	ChallengeFinished Kind = "challenge_finished"
	ChallengeExpired  Kind = "challenge_expired"
	StorageFailed     Kind = "storage_failed"
)

// Severity maps onto alert colours in the presentation layer.
type Severity string

const (
	Success Severity = "success"
	Info    Severity = "info"
	Warning Severity = "warning"
	Danger  Severity = "danger"
)

// Event is one notification. Only the parameters relevant to Kind are set.
type Event struct {
	Kind     Kind
	Severity Severity
	Category string
	TaskID   string
	Text     string
	Day      int
	Days     int
	Err      error
}

// SeverityOf returns the default severity for kind.
func SeverityOf(kind Kind) Severity {
	switch kind {
	case ValidationFailed, NotFound, StorageFailed:
		return Danger
	case ChallengeExpired:
		return Warning
	case CategoryReset:
		return Info
	default:
		return Success
	}
}

type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Event)

func (f NotifierFunc) Notify(e Event) { f(e) }

// Discard drops every event.
var Discard Notifier = NotifierFunc(func(Event) {})

// Multi fans an event out to several notifiers in order.
func Multi(ns ...Notifier) Notifier {
	return NotifierFunc(func(e Event) {
		for _, n := range ns {
			n.Notify(e)
		}
	})
}

// Recorder keeps events until drained.
type Recorder struct {
	events []Event
}

func (r *Recorder) Notify(e Event) {
	r.events = append(r.events, e)
}

// Events returns the recorded events without clearing them.
func (r *Recorder) Events() []Event {
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Drain returns the recorded events and clears the recorder.
func (r *Recorder) Drain() []Event {
	out := r.events
	r.events = nil
	return out
}

// Kinds lists the kinds recorded so far, in order.
func (r *Recorder) Kinds() []Kind {
	kinds := make([]Kind, len(r.events))
	for i, e := range r.events {
		kinds[i] = e.Kind
	}
	return kinds
}
