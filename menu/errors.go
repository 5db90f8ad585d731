package menu

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports a target that does not exist under the requested parent scope.
	ErrNotFound = errors.New("not found")

	// ErrConflict reports a uniqueness violation on title.
	ErrConflict = errors.New("conflict")

	// ErrValidation reports input rejected before reaching the store.
	ErrValidation = errors.New("validation failed")
)

// NotFoundError names the entity kind that could not be found.
type NotFoundError struct {
	Kind Kind
}

// NewNotFound returns an error matching ErrNotFound for the given kind.
func NewNotFound(kind Kind) error {
	return &NotFoundError{Kind: kind}
}

func (e *NotFoundError) Error() string {
	return string(e.Kind) + " not found"
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ConflictError wraps the store error that triggered a title collision.
type ConflictError struct {
	Kind Kind
	Err  error
}

// NewConflict returns an error matching ErrConflict for the given kind.
func NewConflict(kind Kind, cause error) error {
	return &ConflictError{Kind: kind, Err: cause}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with this title already exists", e.Kind)
}

func (e *ConflictError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConflict}
	}
	return []error{ErrConflict, e.Err}
}

// ValidationError carries field level messages for rejected input.
type ValidationError struct {
	Kind   Kind
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s input: %v", e.Kind, e.Fields)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// IsNotFound is a shorthand for errors.Is(err, ErrNotFound).
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict is a shorthand for errors.Is(err, ErrConflict).
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
