package models

// Bill represents an account holding money for one user.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string

	// UserID is the owning user. It never changes after creation.
	UserID string

	// Name is the human-readable name of the bill (e.g., "Cash", "Card").
	Name string

	// Balance is the money currently on the bill. Never negative after a commit.
	Balance float64

	// CreatedAt is the Unix timestamp when the bill was created.
	CreatedAt int64
}
