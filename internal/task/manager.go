package task

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultStoreFile is the store file name used when none is configured.
const DefaultStoreFile = "tasks.json"

// Op names a mutating manager operation.
type Op string

const (
	OpAdd            Op = "add"
	OpUpdate         Op = "update"
	OpDelete         Op = "delete"
	OpMarkInProgress Op = "mark-in-progress"
	OpMarkDone       Op = "mark-done"
)

// Recorder receives every task changed by a successful mutation,
// after the store has been written.
type Recorder interface {
	Record(op Op, t Task) error
}

// Manager performs task operations against one store file.
// It keeps no collection in memory between calls.
type Manager struct {
	path     string
	now      func() time.Time
	logger   *log.Logger
	recorder Recorder
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source used for createdAt/updatedAt.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets the logger for load/save diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithRecorder sets a sink notified after each successful mutation.
func WithRecorder(r Recorder) Option {
	return func(m *Manager) {
		m.recorder = r
	}
}

// NewManager creates a manager for the store at path.
func NewManager(path string, opts ...Option) *Manager {
	if path == "" {
		path = DefaultStoreFile
	}
	m := &Manager{
		path:   path,
		now:    time.Now,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Path returns the store file path.
func (m *Manager) Path() string {
	return m.path
}

// Add creates a task with status todo and the next free id.
func (m *Manager) Add(description string) (Task, error) {
	if err := validateDescription(description); err != nil {
		return Task{}, err
	}

	tasks, err := m.load()
	if err != nil {
		return Task{}, err
	}

	now := NewTimestamp(m.now())
	t := Task{
		ID:          nextID(tasks),
		Description: description,
		Status:      StatusTodo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	tasks = append(tasks, t)

	if err := m.save(tasks); err != nil {
		return Task{}, err
	}
	m.record(OpAdd, t)
	return t, nil
}

// List returns all tasks in creation order, or only those whose status equals
// status when it is non-empty. The result is never nil.
func (m *Manager) List(status string) ([]Task, error) {
	var filter Status
	if status != "" {
		s, err := ParseStatus(status)
		if err != nil {
			return nil, err
		}
		filter = s
	}

	tasks, err := m.load()
	if err != nil {
		return nil, err
	}
	if filter == "" {
		return tasks, nil
	}

	filtered := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == filter {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

// Get returns the task with id.
func (m *Manager) Get(id int) (Task, error) {
	tasks, err := m.load()
	if err != nil {
		return Task{}, err
	}
	i := indexOf(tasks, id)
	if i < 0 {
		return Task{}, &NotFoundError{ID: id}
	}
	return tasks[i], nil
}

// Update replaces the description of task id and refreshes updatedAt.
func (m *Manager) Update(id int, description string) (Task, error) {
	if err := validateDescription(description); err != nil {
		return Task{}, err
	}
	return m.mutate(OpUpdate, id, func(t *Task) {
		t.Description = description
	})
}

// Delete removes task id and returns it as it was before removal.
func (m *Manager) Delete(id int) (Task, error) {
	tasks, err := m.load()
	if err != nil {
		return Task{}, err
	}
	i := indexOf(tasks, id)
	if i < 0 {
		return Task{}, &NotFoundError{ID: id}
	}

	removed := tasks[i]
	tasks = append(tasks[:i], tasks[i+1:]...)

	if err := m.save(tasks); err != nil {
		return Task{}, err
	}
	m.record(OpDelete, removed)
	return removed, nil
}

// MarkInProgress sets task id to in-progress.
func (m *Manager) MarkInProgress(id int) (Task, error) {
	return m.setStatus(OpMarkInProgress, id, StatusInProgress)
}

// MarkDone sets task id to done.
func (m *Manager) MarkDone(id int) (Task, error) {
	return m.setStatus(OpMarkDone, id, StatusDone)
}

// setStatus is unconditional: any status may follow any other, including itself.
func (m *Manager) setStatus(op Op, id int, status Status) (Task, error) {
	return m.mutate(op, id, func(t *Task) {
		t.Status = status
	})
}

// mutate loads the store, applies fn to task id, stamps updatedAt, and saves.
func (m *Manager) mutate(op Op, id int, fn func(*Task)) (Task, error) {
	tasks, err := m.load()
	if err != nil {
		return Task{}, err
	}
	i := indexOf(tasks, id)
	if i < 0 {
		return Task{}, &NotFoundError{ID: id}
	}

	fn(&tasks[i])
	tasks[i].UpdatedAt = NewTimestamp(m.now())

	if err := m.save(tasks); err != nil {
		return Task{}, err
	}
	m.record(op, tasks[i])
	return tasks[i], nil
}

func (m *Manager) record(op Op, t Task) {
	if m.recorder == nil {
		return
	}
	if err := m.recorder.Record(op, t); err != nil {
		m.logger.Warn("failed to record activity", "op", op, "id", t.ID, "err", err)
	}
}
