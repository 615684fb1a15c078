package notify

import (
	"fmt"
	"strings"
)

// Describe is a plain one-line wording of e. Presentation layers style it.
func Describe(e Event) string {
	switch e.Kind {
	case TaskAdded:
		return fmt.Sprintf("Added %q", e.Text)
	case TaskDeleted:
		return fmt.Sprintf("Deleted %q", e.Text)
	case CategoryCompleted:
		return fmt.Sprintf("All %s tasks completed!", e.Category)
	case CategoryReset:
		return fmt.Sprintf("%s tasks reset", capitalize(e.Category))
	case ChallengeStarted:
		return fmt.Sprintf("%d-day challenge started", e.Days)
	case DayCompleted:
		return fmt.Sprintf("Day %d of %d complete", e.Day, e.Days)
	case ChallengeFinished:
		return fmt.Sprintf("Challenge finished: all %d days done!", e.Days)
	case ChallengeExpired:
		return "Challenge expired, progress reset"
	case ValidationFailed, NotFound, StorageFailed:
		if e.Err != nil {
			return "Error: " + e.Err.Error()
		}
		return "Error"
	}
	return string(e.Kind)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
