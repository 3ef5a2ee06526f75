package models

// Todo represents a shared task for the trip.
type Todo struct {
	// ID is the unique identifier for the todo, assigned by the store.
	ID int64 `json:"id"`

	// Item is the task text (e.g., "book hostel"). Unique and non-empty.
	Item string `json:"item"`

	// Details holds optional free-form metadata (nested key/value data).
	// Opaque to the core: persisted as JSON and returned as-is.
	Details map[string]any `json:"details,omitempty"`

	// CreatedAt is the Unix timestamp when the todo was created.
	CreatedAt int64 `json:"createdAt"`
}
