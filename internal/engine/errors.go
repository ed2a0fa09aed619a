package engine

import "fmt"

// ValidationError rejects caller input before any state changes.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// QuestLockedError is returned when claiming a quest whose goal is not met.
type QuestLockedError struct {
	QuestID string
}

func (e QuestLockedError) Error() string {
	return fmt.Sprintf("quest '%s' is not complete yet", e.QuestID)
}

// PersistenceError means the remote write failed and the session state was
// rolled back to what it was before the operation. Retrying is safe.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s failed (changes rolled back): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Retryable() bool { return true }

// NotFoundError is returned when an operation names a task the session does not hold.
type NotFoundError struct {
	TaskID string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("task %s not found", e.TaskID)
}
