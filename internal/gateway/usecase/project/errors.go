package project

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a reference to an absent project. Routes map it to 404.
var ErrNotFound = errors.New("project not found")

// ValidationError rejects malformed input to a mutation. Routes map it to
// 400; callers should not retry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PersistenceError wraps a storage-collaborator failure. Routes map it to
// 503; callers may retry. It is never conflated with validation or
// not-found conditions.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
