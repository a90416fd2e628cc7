package catalog

import (
	"errors"
	"fmt"
)

// ErrEmptyCollection signals a list operation found no rows of the kind.
var ErrEmptyCollection = errors.New("no entries of this kind")

// InvalidFieldError reports a request field that failed validation. It is
// always detected before any write happens.
type InvalidFieldError struct {
	Kind  string
	Field string
	Msg   string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Kind, e.Field, e.Msg)
}

// NotFoundError reports that a row, or a referenced row, does not exist.
// ID may be empty when the lookup was by name.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Kind)
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// ConflictError reports a name already in use within its uniqueness scope.
type ConflictError struct {
	Kind string
	Name string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s name %q already exists", e.Kind, e.Name)
}

// InvariantError reports the name-uniqueness invariant found broken at read
// time: more than one row matched a name that can only belong to one. This
// signals prior data corruption, not a correctable request.
type InvariantError struct {
	Kind string
	Name string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s name %q exists more than once", e.Kind, e.Name)
}

// CascadeError reports a dependent-row rewrite that failed after the primary
// row already committed. Completed lists every row the cascade finished, so
// the caller can resubmit the identical operation: every propagation step is
// idempotent, and rows already at the target value are skipped on retry.
type CascadeError struct {
	TriggerKind string
	TriggerID   string
	Completed   []CompletedItem
	Err         error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("cascading update for %s %s failed after %d rows: %v",
		e.TriggerKind, e.TriggerID, len(e.Completed), e.Err)
}

func (e *CascadeError) Unwrap() error { return e.Err }
