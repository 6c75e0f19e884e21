package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation indicates the caller supplied invalid input
	ErrValidation = errors.New("validation error")

	// ErrCapacity indicates a request exceeded a size limit
	ErrCapacity = errors.New("capacity exceeded")

	// ErrStorage indicates the storage collaborator failed
	ErrStorage = errors.New("storage error")
)

// ValidationError describes the first invalid field of a request.
// Index is the position inside a batch, or -1 for single requests.
type ValidationError struct {
	Field   string
	Index   int
	Message string
}

// NewValidationError creates a validation error for a single request
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Index: -1, Message: message}
}

// NewBatchValidationError creates a validation error for one batch item
func NewBatchValidationError(index int, field, message string) *ValidationError {
	return &ValidationError{Field: field, Index: index, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("events[%d].%s: %s", e.Index, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// CapacityError reports a batch larger than the allowed limit
type CapacityError struct {
	Limit int
	Got   int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("batch of %d events exceeds the limit of %d", e.Got, e.Limit)
}

func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacity
}

// StorageError wraps a failure of the underlying store
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError wraps err, returning nil when err is nil
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}
