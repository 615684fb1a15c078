package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/streakr/internal/challenge"
	"github.com/sadopc/streakr/internal/tasks"
)

// ToCSV writes tasks followed by the challenge days.
func ToCSV(ts []tasks.Task, state challenge.State, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Kind", "ID", "Category", "Text", "Completed", "Completed At", "Elapsed"}); err != nil {
		return err
	}

	for _, t := range ts {
		row := []string{"task", t.ID, t.Category.String(), t.Text, yesNo(t.IsCompleted), "", ""}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	for _, d := range state.Days {
		at, elapsed := "", ""
		if d.CompletedAt != nil {
			at = d.CompletedAt.Local().Format(time.RFC3339)
			if state.StartTime != nil {
				elapsed = formatDuration(int64(d.CompletedAt.Sub(*state.StartTime).Seconds()))
			}
		}
		row := []string{"day", strconv.Itoa(d.Day), "", fmt.Sprintf("Day %d", d.Day), yesNo(d.IsCompleted), at, elapsed}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatDuration(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
