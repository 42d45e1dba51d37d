// Package store holds the canonical task list and the active filter.
//
// Every accepted mutation rewrites the whole list through the Backend before
// the call returns, then notifies subscribers. Rejected mutations (blank
// text, unknown id) change nothing and write nothing.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/dori/tickoff/internal/model"
)

// DefaultKey is the storage key the task list is written under
const DefaultKey = "tasks"

// ErrInvalidFilter is returned by SetFilter for values outside the enum
var ErrInvalidFilter = errors.New("invalid filter")

// Backend is a string key/value store, like a browser's local storage
type Backend interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
}

// Snapshot is a read-only view of the store handed to subscribers
type Snapshot struct {
	Tasks   []model.Task
	Visible []model.Task
	Filter  model.Filter
	Summary model.Summary
}

type subscriber struct {
	id int
	fn func(Snapshot)
}

// Store is the root state container
type Store struct {
	backend Backend
	key     string
	logger  *slog.Logger
	newID   func() (string, error)

	tasks  []model.Task
	filter model.Filter

	subs    []subscriber
	nextSub int
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger used for load warnings and write failures
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithKey overrides the storage key
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithIDGenerator replaces the task id source
func WithIDGenerator(fn func() (string, error)) Option {
	return func(s *Store) { s.newID = fn }
}

// New creates a store and loads the persisted snapshot once. A missing or
// unreadable snapshot yields an empty list.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		key:     DefaultKey,
		logger:  slog.New(slog.DiscardHandler),
		newID:   model.NewID,
		tasks:   []model.Task{},
		filter:  model.FilterAll,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load()
	return s
}

func (s *Store) load() {
	raw, ok, err := s.backend.GetItem(s.key)
	if err != nil {
		s.logger.Warn("failed to read snapshot, starting empty", "key", s.key, "error", err)
		return
	}
	if !ok {
		s.logger.Debug("no snapshot stored, starting empty", "key", s.key)
		return
	}

	tasks, err := Decode(raw)
	if err != nil {
		s.logger.Warn("snapshot is corrupt, starting empty", "key", s.key, "error", err)
		s.backupCorrupt(raw)
		return
	}

	s.tasks = sanitize(tasks, s.logger)
	s.logger.Info("snapshot loaded", "key", s.key, "tasks", len(s.tasks))
}

// backupCorrupt keeps the unparseable value next to the real key so the next
// write does not destroy it.
func (s *Store) backupCorrupt(raw string) {
	backupKey := s.key + ".corrupt"
	if err := s.backend.SetItem(backupKey, raw); err != nil {
		s.logger.Warn("failed to back up corrupt snapshot", "key", backupKey, "error", err)
	}
}

// sanitize trims loaded text and drops entries that break the list's
// invariants: blank text, or an id already seen.
func sanitize(tasks []model.Task, logger *slog.Logger) []model.Task {
	seen := make(map[string]bool, len(tasks))
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		t.Text = strings.TrimSpace(t.Text)
		if t.Text == "" {
			logger.Warn("dropping task with blank text", "id", t.ID)
			continue
		}
		if seen[t.ID] {
			logger.Warn("dropping task with duplicate id", "id", t.ID)
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out
}

// Tasks returns a copy of the full list in order
func (s *Store) Tasks() []model.Task {
	return slices.Clone(s.tasks)
}

// Filter returns the active filter
func (s *Store) Filter() model.Filter {
	return s.filter
}

// Visible returns the tasks matching the active filter
func (s *Store) Visible() []model.Task {
	return model.Apply(s.tasks, s.filter)
}

// Summary counts over the unfiltered list
func (s *Store) Summary() model.Summary {
	return model.Summarize(s.tasks)
}

// Snapshot returns the current state
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Tasks:   s.Tasks(),
		Visible: s.Visible(),
		Filter:  s.filter,
		Summary: s.Summary(),
	}
}

// Get returns the task with the given id
func (s *Store) Get(id string) (model.Task, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, false
	}
	return s.tasks[i], true
}

// Add appends a new open task. Blank text is rejected without error.
func (s *Store) Add(text string) (model.Task, bool, error) {
	if strings.TrimSpace(text) == "" {
		return model.Task{}, false, nil
	}

	id, err := s.freshID()
	if err != nil {
		return model.Task{}, false, err
	}

	task := model.Task{ID: id, Text: strings.TrimSpace(text)}
	next := make([]model.Task, 0, len(s.tasks)+1)
	next = append(next, s.tasks...)
	next = append(next, task)

	return task, true, s.commit(next, "add", "id", id)
}

// freshID draws ids until one is not already in the list
func (s *Store) freshID() (string, error) {
	const maxAttempts = 8
	for i := 0; i < maxAttempts; i++ {
		id, err := s.newID()
		if err != nil {
			return "", err
		}
		if s.indexOf(id) < 0 {
			return id, nil
		}
		s.logger.Debug("generated id collides, drawing again", "id", id)
	}
	return "", fmt.Errorf("failed to generate a unique task id after %d attempts", maxAttempts)
}

// Delete removes the task with the given id
func (s *Store) Delete(id string) (bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	next := slices.Delete(slices.Clone(s.tasks), i, i+1)
	return true, s.commit(next, "delete", "id", id)
}

// Toggle flips the completion flag of the task with the given id
func (s *Store) Toggle(id string) (bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	next := slices.Clone(s.tasks)
	next[i].Completed = !next[i].Completed
	return true, s.commit(next, "toggle", "id", id, "completed", next[i].Completed)
}

// Edit replaces the text of the task with the given id. Blank text is
// rejected without error and completion is left alone.
func (s *Store) Edit(id, text string) (bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return false, nil
	}
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	next := slices.Clone(s.tasks)
	next[i].Text = text
	return true, s.commit(next, "edit", "id", id)
}

// ClearCompleted removes every completed task and returns how many went
func (s *Store) ClearCompleted() (int, error) {
	next := model.Apply(s.tasks, model.FilterActive)
	removed := len(s.tasks) - len(next)
	if removed == 0 {
		return 0, nil
	}
	return removed, s.commit(next, "clear completed", "removed", removed)
}

// SetFilter replaces the active filter. The filter is never persisted.
func (s *Store) SetFilter(f model.Filter) error {
	if !f.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidFilter, string(f))
	}
	s.filter = f
	s.notify()
	return nil
}

// Subscribe registers fn to run after every accepted change. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		s.subs = slices.DeleteFunc(s.subs, func(sub subscriber) bool {
			return sub.id == id
		})
	}
}

// commit installs the new list, writes it through and notifies. The
// in-memory state keeps the mutation even if the write fails.
func (s *Store) commit(next []model.Task, op string, attrs ...any) error {
	s.tasks = next
	err := s.persist()
	if err != nil {
		s.logger.Error("failed to persist snapshot", append([]any{"op", op, "error", err}, attrs...)...)
	} else {
		s.logger.Debug(op, attrs...)
	}
	s.notify()
	return err
}

func (s *Store) persist() error {
	data, err := Encode(s.tasks)
	if err != nil {
		return err
	}
	if err := s.backend.SetItem(s.key, data); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

func (s *Store) notify() {
	if len(s.subs) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, sub := range slices.Clone(s.subs) {
		sub.fn(snap)
	}
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t model.Task) bool {
		return t.ID == id
	})
}
