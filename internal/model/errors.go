package model

import "fmt"

// ValidationError reports malformed or missing required input. It is raised
// before any state is mutated.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a field-level validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// LockedEntityError reports a mutation attempted on a harvested Charge or
// Plant. Diary appends are the only mutation exempt from the lock.
type LockedEntityError struct {
	Entity string
	ID     uint
}

func (e *LockedEntityError) Error() string {
	return fmt.Sprintf("%s %d is harvested and can no longer be modified", e.Entity, e.ID)
}

// NotFoundError reports a reference that does not resolve to a stored record
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// TransitionError reports a lifecycle status move rejected by the
// transition table
type TransitionError struct {
	Entity string
	From   Status
	To     Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s cannot move from %q to %q", e.Entity, e.From, e.To)
}
