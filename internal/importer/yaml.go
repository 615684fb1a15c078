// Package importer bulk-loads tasks from YAML.
package importer

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/streakr/internal/tasks"
)

// YAMLTask is a single task in the YAML input. Category defaults to daily.
type YAMLTask struct {
	Text      string `yaml:"text"`
	Category  string `yaml:"category,omitempty"`
	Completed bool   `yaml:"completed,omitempty"`
}

// YAMLInput is the root structure of the YAML input.
type YAMLInput struct {
	Tasks []YAMLTask `yaml:"tasks"`
}

// Sink receives imported tasks. *session.Session satisfies it, so imports
// go through the same validation, persistence and completion handling as
// interactive edits.
type Sink interface {
	AddTask(text string, category tasks.Category) (tasks.Task, error)
	ToggleTask(id string) (tasks.Task, error)
}

// Import parses yamlStr and adds each task in order, then marks the
// completed ones. Completions wait until every task is in, so a partly
// completed list never looks fully completed halfway through. It stops at
// the first failure and returns how many tasks were added before it.
func Import(s Sink, yamlStr string) (int, error) {
	var input YAMLInput
	if err := yaml.Unmarshal([]byte(yamlStr), &input); err != nil {
		return 0, fmt.Errorf("YAML parse error: %w", err)
	}

	if len(input.Tasks) == 0 {
		return 0, errors.New("no tasks found in YAML")
	}

	var completed []tasks.Task
	count := 0
	for i, yt := range input.Tasks {
		task, err := addTask(s, yt)
		if err != nil {
			return count, fmt.Errorf("task %d: %w", i+1, err)
		}
		count++
		if yt.Completed {
			completed = append(completed, task)
		}
	}

	for _, task := range completed {
		if _, err := s.ToggleTask(task.ID); err != nil {
			return count, fmt.Errorf("complete task %q: %w", task.Text, err)
		}
	}
	return count, nil
}

func addTask(s Sink, yt YAMLTask) (tasks.Task, error) {
	category := tasks.Daily
	if yt.Category != "" {
		c, err := tasks.ParseCategory(yt.Category)
		if err != nil {
			return tasks.Task{}, err
		}
		category = c
	}

	task, err := s.AddTask(yt.Text, category)
	if err != nil {
		return tasks.Task{}, fmt.Errorf("add task %q: %w", yt.Text, err)
	}
	return task, nil
}
