package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status represents a task status.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Statuses returns every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// ParseStatus converts user input to a Status.
func ParseStatus(input string) (Status, error) {
	s := Status(input)
	if !s.Valid() {
		return "", &ValidationError{
			Field: "status",
			Err:   fmt.Errorf("%w %q, must be one of: %s", ErrInvalidStatusFilter, input, statusList()),
		}
	}
	return s, nil
}

func statusList() string {
	names := make([]string, 0, 3)
	for _, s := range Statuses() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

// TimestampLayout is the on-disk time format: local time, second precision,
// no zone offset.
const TimestampLayout = "2006-01-02T15:04:05"

// timestampLayouts are the local-time forms accepted when reading a store.
var timestampLayouts = []string{
	TimestampLayout,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is a local wall-clock time persisted in TimestampLayout.
// A stored value that is not a recognised time is kept verbatim and written
// back unchanged.
type Timestamp struct {
	time.Time

	raw string // original JSON value when it did not parse
}

// NewTimestamp truncates t to whole seconds in the local zone.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Local().Truncate(time.Second)}
}

// ParseTimestamp parses a local ISO 8601 date or date-time, with or without
// fractional seconds. RFC 3339 values are accepted as well and converted to
// local time. The result is truncated to whole seconds.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return NewTimestamp(t), nil
		}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Timestamp{}, fmt.Errorf("parse timestamp %q: expected %s", s, TimestampLayout)
	}
	return NewTimestamp(t), nil
}

// Raw reports whether the timestamp holds an unrecognised stored value.
func (t Timestamp) Raw() bool {
	return t.raw != ""
}

// String formats the timestamp in TimestampLayout, or returns the stored text
// of an unrecognised value.
func (t Timestamp) String() string {
	if t.raw != "" {
		var s string
		if err := json.Unmarshal([]byte(t.raw), &s); err == nil {
			return s
		}
		return t.raw
	}
	if t.IsZero() {
		return ""
	}
	return t.Time.Format(TimestampLayout)
}

// MarshalText implements encoding.TextMarshaler. YAML and TOML encoders use it.
func (t Timestamp) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Text that does not parse
// is kept as is.
func (t *Timestamp) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*t = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(string(data))
	if err != nil {
		quoted, err := json.Marshal(string(data))
		if err != nil {
			return err
		}
		*t = Timestamp{raw: string(quoted)}
		return nil
	}
	*t = parsed
	return nil
}

// MarshalJSON overrides the RFC 3339 encoding inherited from time.Time.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.raw != "" {
		return []byte(t.raw), nil
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON overrides the RFC 3339 decoding inherited from time.Time.
// Non-string values, null included, are kept verbatim.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '"' {
		*t = Timestamp{raw: string(data)}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	return t.UnmarshalText([]byte(s))
}

// Task represents a single task in the store.
type Task struct {
	ID          int       `json:"id" yaml:"id" toml:"id"`
	Description string    `json:"description" yaml:"description" toml:"description"`
	Status      Status    `json:"status" yaml:"status" toml:"status"`
	CreatedAt   Timestamp `json:"createdAt" yaml:"createdAt" toml:"createdAt"`
	UpdatedAt   Timestamp `json:"updatedAt" yaml:"updatedAt" toml:"updatedAt"`
}

func validateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return &ValidationError{Field: "description", Err: ErrEmptyDescription}
	}
	return nil
}

// nextID returns 1 for an empty collection, otherwise max(id) + 1.
func nextID(tasks []Task) int {
	maxID := 0
	for _, t := range tasks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return maxID + 1
}

func indexOf(tasks []Task, id int) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}
