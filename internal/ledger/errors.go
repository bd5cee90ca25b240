package ledger

import (
	"errors"
	"fmt"

	"github.com/mmynk/financery/internal/storage"
)

// Sentinel errors. Workflows wrap them with the entity and id involved, so
// callers match with errors.Is and show the message as is.
var (
	// ErrNotFound means a referenced user, bill, transaction or tag does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput means a business rule rejected the request: an amount
	// out of range, insufficient funds, a cross-user reference, an attempt
	// to change an immutable field or a malformed identifier.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyExists means a unique value (user email) is taken.
	ErrAlreadyExists = errors.New("already exists")

	// ErrConflict is reserved for operations whose dependencies are not ready.
	ErrConflict = errors.New("conflict")
)

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsInvalidInput reports whether err is or wraps ErrInvalidInput.
func IsInvalidInput(err error) bool { return errors.Is(err, ErrInvalidInput) }

// IsAlreadyExists reports whether err is or wraps ErrAlreadyExists.
func IsAlreadyExists(err error) bool { return errors.Is(err, ErrAlreadyExists) }

// IsConflict reports whether err is or wraps ErrConflict.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// lookupErr translates a store lookup failure. A missing row becomes
// ErrNotFound naming the entity; anything else is returned unchanged.
func lookupErr(err error, kind, id string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return notFound(kind, id)
	}
	return err
}
