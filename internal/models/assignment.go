package models

// Assignment statuses. The set is closed; anything else is rejected.
const (
	StatusInProgress = "in progress"
	StatusDone       = "done"
)

// ValidStatus reports whether s is one of the closed set of assignment
// statuses.
func ValidStatus(s string) bool {
	return s == StatusInProgress || s == StatusDone
}

// Assignment links one User to one Todo with a completion status.
// At most one Assignment exists per (user, todo) pair; the pairing is a
// composite UNIQUE constraint in the schema, not an advisory check.
type Assignment struct {
	// ID is the unique identifier for the assignment, assigned by the store.
	ID int64

	// UserID is the assigned user. The owning user is always determined by
	// matching the authenticated principal, never a client-supplied id.
	UserID int64

	// TodoID is the assigned todo.
	TodoID int64

	// Status is one of StatusInProgress or StatusDone. New assignments
	// start as StatusInProgress.
	Status string

	// CreatedAt is the Unix timestamp when the assignment was created.
	CreatedAt int64
}
