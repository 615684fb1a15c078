package tasks

import (
	"fmt"
	"strings"
)

// Category groups tasks. It is fixed when a task is created.
type Category string

const (
	Daily   Category = "daily"
	Monthly Category = "monthly"
)

// Categories lists every category in display order.
var Categories = []Category{Daily, Monthly}

func (c Category) Valid() bool {
	return c == Daily || c == Monthly
}

func (c Category) String() string { return string(c) }

// ParseCategory accepts a category name in any case.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown category %q", ErrValidation, s)
	}
	return c, nil
}

// Task is a single tracked item. The JSON shape is the persisted snapshot format.
type Task struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	IsCompleted bool     `json:"isCompleted"`
	Category    Category `json:"category"`
}

// CompletionChange reports that a category's fully-completed state flipped.
type CompletionChange struct {
	Category  Category
	Completed bool
}

// Listener observes completion changes. A returned error is handed back to
// the caller of the mutation that triggered it.
type Listener func(CompletionChange) error
