// Package etlerrors defines the three failure kinds of a pipeline run:
// fetch, validation and persistence. Each concrete error carries a stack
// trace captured where it was created.
package etlerrors

import (
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Sentinel errors, matched with errors.Is.
var (
	// ErrFetch is returned when a source cannot be fetched or decoded.
	ErrFetch = errors.New("fetch failed")

	// ErrValidation is returned when a raw payload fails field checks.
	ErrValidation = errors.New("validation failed")

	// ErrPersistence is returned when the load target rejects the batch.
	ErrPersistence = errors.New("persistence failed")
)

// FetchError describes a failed HTTP extraction.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: http %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ValidationError represents a field that failed a constraint check.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// PersistenceError describes a failed step of a load: connect, reset,
// insert or commit.
type PersistenceError struct {
	Op     string
	Target string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a FetchError with a stack trace.
func NewFetchError(url string, status int, err error) error {
	return pkgerrors.WithStack(&FetchError{URL: url, StatusCode: status, Err: err})
}

// NewValidationError creates a ValidationError with a stack trace.
func NewValidationError(field, message string) error {
	return pkgerrors.WithStack(&ValidationError{Field: field, Message: message})
}

// NewPersistenceError creates a PersistenceError with a stack trace.
func NewPersistenceError(op, target string, err error) error {
	return pkgerrors.WithStack(&PersistenceError{Op: op, Target: target, Err: err})
}

// IsFetch checks if an error is a fetch error
func IsFetch(err error) bool {
	return errors.Is(err, ErrFetch)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsPersistence checks if an error is a persistence error
func IsPersistence(err error) bool {
	return errors.Is(err, ErrPersistence)
}

// Flatten renders err with every attached stack trace on a single line,
// frames separated by " | ".
func Flatten(err error) string {
	if err == nil {
		return ""
	}
	lines := strings.Split(fmt.Sprintf("%+v", err), "\n")
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, " | ")
}
