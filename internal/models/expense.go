package models

// DefaultCurrency is used when an expense is created without a currency.
const DefaultCurrency = "RM"

// Expense represents money spent on the trip.
type Expense struct {
	// ID is the unique identifier for the expense, assigned by the store.
	ID int64

	// Item describes what the money was spent on (e.g., "lunch"). Non-empty.
	Item string

	// Value is the amount spent. Non-negative, at most two fractional
	// digits. Currency is a label only; no arithmetic crosses currencies.
	Value float64

	// Currency is the currency code label. Defaults to DefaultCurrency.
	Currency string

	// SharedWith lists the ids of users this expense is shared with.
	// Persisted as an ordered id list on the expense row itself: sharing
	// is an attribute of the expense, not a relation with its own
	// lifecycle. The list is never exposed raw: reads resolve it to full
	// User entities, silently dropping ids that no longer resolve.
	SharedWith []int64

	// UserID is the id of the user who created the expense.
	UserID int64

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}
