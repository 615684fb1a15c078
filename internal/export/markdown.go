package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/sadopc/streakr/internal/challenge"
	"github.com/sadopc/streakr/internal/tasks"
)

// Markdown renders tasks as a GitHub-style checklist, one line per task.
func Markdown(ts []tasks.Task) string {
	var b strings.Builder
	for _, t := range ts {
		mark := " "
		if t.IsCompleted {
			mark = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s\n", mark, t.Text)
	}
	return b.String()
}

// ToMarkdown writes one checklist section per category and the challenge days.
func ToMarkdown(ts []tasks.Task, state challenge.State, path string) error {
	var b strings.Builder
	b.WriteString("# streakr\n")

	for _, c := range tasks.Categories {
		var in []tasks.Task
		for _, t := range ts {
			if t.Category == c {
				in = append(in, t)
			}
		}
		fmt.Fprintf(&b, "\n## %s\n\n", titleCase(c.String()))
		if len(in) == 0 {
			b.WriteString("_No tasks._\n")
			continue
		}
		b.WriteString(Markdown(in))
	}

	if len(state.Days) > 0 {
		b.WriteString("\n## Challenge\n\n")
		for _, d := range state.Days {
			mark := " "
			if d.IsCompleted {
				mark = "x"
			}
			fmt.Fprintf(&b, "- [%s] Day %d\n", mark, d.Day)
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write markdown file: %w", err)
	}
	return nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
