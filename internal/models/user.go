package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account holder.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the display name of the user.
	Name string

	// Email is the user's email address (unique).
	Email string

	// Balance is the sum of the balances of all bills owned by the user.
	// It is only changed as a side effect of bill balance changes.
	Balance float64

	// CreatedAt is the Unix timestamp when the user was created.
	CreatedAt int64
}

// NewUser creates a new User with a generated ID and a zero balance.
func NewUser(name, email string) *User {
	return &User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().Unix(),
	}
}
