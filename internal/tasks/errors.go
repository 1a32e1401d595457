package tasks

import "fmt"

// ValidationError rejects user input before any state changes.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func errValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.ID)
}

func errNotFound(id string) error {
	return &NotFoundError{ID: id}
}

// StorageWriteError means the collection could not be persisted.
// The in-memory collection is left as it was before the failed operation.
type StorageWriteError struct {
	Op  string
	Err error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("%s: persist tasks: %v", e.Op, e.Err)
}

func (e *StorageWriteError) Unwrap() error { return e.Err }

func errStorageWrite(op string, err error) error {
	return &StorageWriteError{Op: op, Err: err}
}
