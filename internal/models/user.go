package models

// User represents a registered traveller.
type User struct {
	// ID is the unique identifier for the user, assigned by the store.
	ID int64 `json:"id"`

	// Username is the unique login name. Non-empty; uniqueness is enforced
	// by the storage layer, not checked-then-raced in the service.
	Username string `json:"username"`

	// PurchaseFlightTicket records the one-time "I bought my flight ticket"
	// decision. Defaults to false on sign-up; toggled only by the user
	// themselves.
	PurchaseFlightTicket bool `json:"purchaseFlightTicket"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"createdAt"`
}
