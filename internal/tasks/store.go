package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// SnapshotKey is the durable store key holding the task collection.
const SnapshotKey = "tasks"

// Persister is the durable store collaborator. Load reports false when the
// key has never been saved.
type Persister interface {
	Load(key string) ([]byte, bool, error)
	Save(key string, data []byte) error
}

// Store owns the task collection and writes the full collection on every
// mutation before returning.
type Store struct {
	persister Persister
	newID     func() string
	tasks     []Task
	listeners []Listener
}

type Option func(*Store)

// WithIDGenerator replaces the default random UUID ids.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// New loads the task snapshot from p. A missing snapshot is an empty collection.
func New(p Persister, opts ...Option) (*Store, error) {
	s := &Store{persister: p, newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}

	data, ok, err := p.Load(SnapshotKey)
	if err != nil {
		return nil, &StorageError{Op: "load", Key: SnapshotKey, Err: err}
	}
	if !ok || len(data) == 0 {
		return s, nil
	}

	var loaded []Task
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("decode tasks snapshot: %w", err)
	}
	seen := make(map[string]bool, len(loaded))
	for _, t := range loaded {
		if strings.TrimSpace(t.Text) == "" || !t.Category.Valid() {
			return nil, fmt.Errorf("%w: corrupt task record %q in snapshot", ErrValidation, t.ID)
		}
		if t.ID == "" || seen[t.ID] {
			return nil, fmt.Errorf("%w: missing or duplicate task id %q in snapshot", ErrValidation, t.ID)
		}
		seen[t.ID] = true
	}
	s.tasks = loaded
	return s, nil
}

// Subscribe registers l for completion changes. Listeners run synchronously
// after the triggering mutation has been persisted.
func (s *Store) Subscribe(l Listener) {
	s.listeners = append(s.listeners, l)
}

// Add creates a task in category. Empty or whitespace-only text is rejected.
func (s *Store) Add(text string, category Category) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, fmt.Errorf("%w: task text is empty", ErrValidation)
	}
	if !category.Valid() {
		return Task{}, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}

	id, err := s.uniqueID()
	if err != nil {
		return Task{}, err
	}
	task := Task{ID: id, Text: text, Category: category}

	before := s.completionState()
	next := append(s.clone(), task)
	if err := s.commit(next); err != nil {
		return Task{}, err
	}
	return task, s.emit(before)
}

// Toggle flips the completion flag of the task with the given id.
func (s *Store) Toggle(id string) (Task, error) {
	i := s.indexOf(id)
	if i < 0 {
		return Task{}, fmt.Errorf("toggle %q: %w", id, ErrNotFound)
	}

	before := s.completionState()
	next := s.clone()
	next[i].IsCompleted = !next[i].IsCompleted
	if err := s.commit(next); err != nil {
		return Task{}, err
	}
	return next[i], s.emit(before)
}

// Remove deletes the task with the given id. Callers confirm with the user first.
func (s *Store) Remove(id string) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("remove %q: %w", id, ErrNotFound)
	}

	before := s.completionState()
	next := make([]Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:i]...)
	next = append(next, s.tasks[i+1:]...)
	if err := s.commit(next); err != nil {
		return err
	}
	return s.emit(before)
}

// ResetCategory marks every task in category as not completed.
func (s *Store) ResetCategory(category Category) error {
	if !category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}

	before := s.completionState()
	next := s.clone()
	for i := range next {
		if next[i].Category == category {
			next[i].IsCompleted = false
		}
	}
	if err := s.commit(next); err != nil {
		return err
	}
	return s.emit(before)
}

// AllInCategory returns the category's tasks in insertion order.
func (s *Store) AllInCategory(category Category) []Task {
	var out []Task
	for _, t := range s.tasks {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// IsCategoryFullyCompleted is false for an empty category.
func (s *Store) IsCategoryFullyCompleted(category Category) bool {
	done, total := s.Counts(category)
	return total > 0 && done == total
}

// Counts returns the completed and total task counts for category.
func (s *Store) Counts(category Category) (done, total int) {
	for _, t := range s.tasks {
		if t.Category != category {
			continue
		}
		total++
		if t.IsCompleted {
			done++
		}
	}
	return done, total
}

func (s *Store) Get(id string) (Task, error) {
	i := s.indexOf(id)
	if i < 0 {
		return Task{}, fmt.Errorf("get %q: %w", id, ErrNotFound)
	}
	return s.tasks[i], nil
}

// All returns every task in insertion order.
func (s *Store) All() []Task {
	return s.clone()
}

// Lookup resolves an exact id or a unique id prefix.
func (s *Store) Lookup(prefix string) (Task, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return Task{}, fmt.Errorf("%w: empty task id", ErrValidation)
	}
	if i := s.indexOf(prefix); i >= 0 {
		return s.tasks[i], nil
	}

	var matches []Task
	for _, t := range s.tasks {
		if strings.HasPrefix(t.ID, prefix) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return Task{}, fmt.Errorf("lookup %q: %w", prefix, ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return Task{}, fmt.Errorf("lookup %q matches %d tasks: %w", prefix, len(matches), ErrAmbiguous)
	}
}

func (s *Store) commit(next []Task) error {
	if next == nil {
		next = []Task{}
	}
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode tasks snapshot: %w", err)
	}
	if err := s.persister.Save(SnapshotKey, data); err != nil {
		return &StorageError{Op: "save", Key: SnapshotKey, Err: err}
	}
	s.tasks = next
	return nil
}

func (s *Store) emit(before map[Category]bool) error {
	var errs []error
	for _, c := range Categories {
		now := s.IsCategoryFullyCompleted(c)
		if now == before[c] {
			continue
		}
		change := CompletionChange{Category: c, Completed: now}
		for _, l := range s.listeners {
			if err := l(change); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (s *Store) completionState() map[Category]bool {
	state := make(map[Category]bool, len(Categories))
	for _, c := range Categories {
		state[c] = s.IsCategoryFullyCompleted(c)
	}
	return state
}

func (s *Store) uniqueID() (string, error) {
	for attempt := 0; attempt < 3; attempt++ {
		id := s.newID()
		if id != "" && s.indexOf(id) < 0 {
			return id, nil
		}
	}
	return "", errors.New("generate task id: repeated collisions")
}

func (s *Store) indexOf(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) clone() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}
