package task

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const defaultFileMode fs.FileMode = 0644

// ErrNotTaskList is returned by DecodeTasks for well-formed JSON that is not
// an array.
var ErrNotTaskList = errors.New("not a JSON array")

// DecodeTasks parses store file contents. null decodes as an empty collection.
// A record that does not fit the Task shape is reported as a ValidationError
// naming its index.
func DecodeTasks(data []byte) ([]Task, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("parse tasks file: %w, found %s", ErrNotTaskList, typeErr.Value)
		}
		return nil, fmt.Errorf("parse tasks file: %w", err)
	}

	tasks := make([]Task, 0, len(items))
	for i, item := range items {
		var t Task
		if err := json.Unmarshal(item, &t); err != nil {
			return nil, &ValidationError{Field: fmt.Sprintf("[%d]", i), Err: err}
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// unreadable reports whether a DecodeTasks error means the file is not a JSON
// array at all, as opposed to an array holding a bad record.
func unreadable(err error) bool {
	var syntaxErr *json.SyntaxError
	return errors.As(err, &syntaxErr) || errors.Is(err, ErrNotTaskList)
}

// EncodeTasks writes tasks as a 2-space indented JSON array with a trailing
// newline. A nil slice is written as [].
func EncodeTasks(w io.Writer, tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tasks); err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	return nil
}

// load reads the full collection. A missing file, an empty file, and a file
// that is not a JSON array all yield an empty collection. An array with a
// record that does not decode is an error, so the file is never overwritten.
func (m *Manager) load() ([]Task, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			m.logger.Debug("tasks file not found, starting empty", "path", m.path)
			return []Task{}, nil
		}
		return nil, &StorageError{Op: "read", Path: m.path, Err: err}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		m.logger.Debug("tasks file is empty", "path", m.path)
		return []Task{}, nil
	}

	tasks, err := DecodeTasks(data)
	if err != nil {
		if !unreadable(err) {
			return nil, fmt.Errorf("tasks file %s: %w", m.path, err)
		}
		// Treated as empty for compatibility; the next save overwrites it.
		m.logger.Warn("tasks file is not a valid task list, treating it as empty",
			"path", m.path, "err", err)
		return []Task{}, nil
	}

	for _, t := range tasks {
		if !t.Status.Valid() {
			m.logger.Warn("task has an unknown status, it is kept as stored",
				"path", m.path, "id", t.ID, "status", t.Status)
		}
		if t.CreatedAt.Raw() || t.UpdatedAt.Raw() {
			m.logger.Warn("task has an unrecognised timestamp, it is kept as stored",
				"path", m.path, "id", t.ID, "createdAt", t.CreatedAt, "updatedAt", t.UpdatedAt)
		}
	}

	m.logger.Debug("loaded tasks", "path", m.path, "count", len(tasks))
	return tasks, nil
}

// save replaces the store with the full collection.
func (m *Manager) save(tasks []Task) error {
	var buf bytes.Buffer
	if err := EncodeTasks(&buf, tasks); err != nil {
		return &StorageError{Op: "write", Path: m.path, Err: err}
	}
	if err := writeFileAtomic(m.path, buf.Bytes()); err != nil {
		return &StorageError{Op: "write", Path: m.path, Err: err}
	}
	m.logger.Debug("saved tasks", "path", m.path, "count", len(tasks))
	return nil
}

// writeFileAtomic writes data to a temporary file next to path and renames it
// into place, so readers see either the old or the new contents.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	mode := defaultFileMode
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", path)
		}
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace tasks file: %w", err)
	}
	committed = true
	return nil
}
