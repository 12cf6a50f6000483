// Package errors provides sentinel errors and custom error types for the stackedit application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// ErrInvalidStack indicates that an exported stack failed validation
	// and cannot be edited at all
	ErrInvalidStack = errors.New("invalid exported stack")

	// ErrRejectedEdit indicates that an operation was requested that the
	// corresponding capability predicate does not allow
	ErrRejectedEdit = errors.New("edit not allowed")

	// ErrNoSession indicates that no edit session exists yet
	ErrNoSession = errors.New("no edit session")

	// ErrNothingToUndo indicates that the history cursor is at the oldest entry
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo indicates that the history cursor is at the newest entry
	ErrNothingToRedo = errors.New("nothing to redo")
)

// InvalidStackError represents a structural validation failure of an
// exported stack (multiple roots, merge commits, duplicate identifiers).
type InvalidStackError struct {
	Reason string
}

func (e *InvalidStackError) Error() string {
	return fmt.Sprintf("cannot edit this stack: %s", e.Reason)
}

// Is returns true if the target error is ErrInvalidStack
func (e *InvalidStackError) Is(target error) bool {
	return target == ErrInvalidStack
}

// NewInvalidStackError creates a new InvalidStackError
func NewInvalidStackError(reason string) *InvalidStackError {
	return &InvalidStackError{Reason: reason}
}

// RejectedEditError represents an operation whose capability predicate
// returned false. Callers are expected to check the predicate first, so
// seeing this error usually means the session state changed underneath.
type RejectedEditError struct {
	Operation string
	Rev       int
}

func (e *RejectedEditError) Error() string {
	return fmt.Sprintf("cannot %s commit %d", e.Operation, e.Rev)
}

// Is returns true if the target error is ErrRejectedEdit
func (e *RejectedEditError) Is(target error) bool {
	return target == ErrRejectedEdit
}

// NewRejectedEditError creates a new RejectedEditError
func NewRejectedEditError(operation string, rev int) *RejectedEditError {
	return &RejectedEditError{Operation: operation, Rev: rev}
}
