package task

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDescription is wrapped by the ValidationError returned for a
	// description that is empty after trimming whitespace.
	ErrEmptyDescription = errors.New("description empty")
	// ErrInvalidStatusFilter is wrapped by the ValidationError returned for an
	// unknown status value.
	ErrInvalidStatusFilter = errors.New("invalid status filter")
)

// ValidationError represents caller input that violates a constraint,
// or a store entry that fails verification.
type ValidationError struct {
	Field string // Field name or JSON path of the offending value
	Err   error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NotFoundError is returned when no task in the current collection has ID.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task with id %d not found", e.ID)
}

// StorageError wraps an I/O failure while reading or writing the store.
// A missing or malformed store file is not a StorageError.
type StorageError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s tasks file %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is or wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsStorage reports whether err is or wraps a *StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
