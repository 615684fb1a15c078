package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/streakr/internal/challenge"
	"github.com/sadopc/streakr/internal/tasks"
)

type jsonExport struct {
	ExportedAt string        `json:"exported_at"`
	Count      int           `json:"count"`
	Tasks      []jsonTask    `json:"tasks"`
	Challenge  jsonChallenge `json:"challenge"`
}

type jsonTask struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Category  string `json:"category"`
	Completed bool   `json:"completed"`
}

type jsonChallenge struct {
	StartTime string    `json:"start_time,omitempty"`
	Done      int       `json:"done"`
	Total     int       `json:"total"`
	Days      []jsonDay `json:"days"`
}

type jsonDay struct {
	Day         int    `json:"day"`
	Completed   bool   `json:"completed"`
	CompletedAt string `json:"completed_at,omitempty"`
	ElapsedSec  int64  `json:"elapsed_seconds,omitempty"`
	Elapsed     string `json:"elapsed,omitempty"`
}

func ToJSON(ts []tasks.Task, state challenge.State, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(ts),
	}

	for _, t := range ts {
		export.Tasks = append(export.Tasks, jsonTask{
			ID:        t.ID,
			Text:      t.Text,
			Category:  t.Category.String(),
			Completed: t.IsCompleted,
		})
	}

	if state.StartTime != nil {
		export.Challenge.StartTime = state.StartTime.Local().Format(time.RFC3339)
	}
	export.Challenge.Total = len(state.Days)
	for _, d := range state.Days {
		jd := jsonDay{Day: d.Day, Completed: d.IsCompleted}
		if d.CompletedAt != nil {
			export.Challenge.Done++
			jd.CompletedAt = d.CompletedAt.Local().Format(time.RFC3339)
			if state.StartTime != nil {
				jd.ElapsedSec = int64(d.CompletedAt.Sub(*state.StartTime).Seconds())
				jd.Elapsed = formatDuration(jd.ElapsedSec)
			}
		}
		export.Challenge.Days = append(export.Challenge.Days, jd)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
