// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/financery/internal/models"
)

var (
	// ErrNotFound is returned by getters when the requested row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique constraint (user email) is violated.
	ErrDuplicate = errors.New("duplicate record")
)

// Store defines the ledger's persistence operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the ledger layer.
//
// Every read of a related collection is an explicit method: a Transaction
// comes back with its Tags loaded, nothing else is fetched implicitly.
type Store interface {
	UserStore
	BillStore
	TransactionStore
	TagStore

	// InTx runs fn against a Store bound to a single database transaction.
	// The transaction commits if fn returns nil and rolls back otherwise.
	// Calls on tx inside fn see fn's own writes. Nested InTx calls on tx
	// reuse the outer transaction.
	InTx(ctx context.Context, fn func(tx Store) error) error

	// Close releases any resources held by the store.
	Close() error
}

// UserStore persists users.
type UserStore interface {
	// CreateUser inserts a new user. Returns ErrDuplicate if the email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser returns ErrNotFound if the user does not exist.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	ListUsers(ctx context.Context) ([]models.User, error)

	// UpdateUser saves name, email and balance. Returns ErrNotFound or ErrDuplicate.
	UpdateUser(ctx context.Context, user *models.User) error

	// DeleteUser removes the user together with its bills, transactions and tags.
	DeleteUser(ctx context.Context, userID string) error
}

// BillStore persists bills.
type BillStore interface {
	CreateBill(ctx context.Context, bill *models.Bill) error

	// GetBill returns ErrNotFound if the bill does not exist.
	GetBill(ctx context.Context, billID string) (*models.Bill, error)

	// GetUserBill returns the bill only if it belongs to userID, ErrNotFound otherwise.
	GetUserBill(ctx context.Context, billID, userID string) (*models.Bill, error)

	ListBillsByUser(ctx context.Context, userID string) ([]models.Bill, error)

	// UpdateBill saves name and balance.
	UpdateBill(ctx context.Context, bill *models.Bill) error

	// DeleteBill removes the bill and its transactions.
	DeleteBill(ctx context.Context, billID string) error
}

// TransactionStore persists transactions and their tag links.
type TransactionStore interface {
	// CreateTransaction inserts the transaction and links its Tags.
	CreateTransaction(ctx context.Context, txn *models.Transaction) error

	// GetTransaction returns the transaction with Tags loaded, or ErrNotFound.
	GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error)

	ListTransactionsByUser(ctx context.Context, userID string) ([]models.Transaction, error)
	ListTransactionsByBill(ctx context.Context, billID string) ([]models.Transaction, error)
	ListTransactionsByTag(ctx context.Context, tagID string) ([]models.Transaction, error)

	// UpdateTransaction saves the mutable fields and replaces the tag links with txn.Tags.
	UpdateTransaction(ctx context.Context, txn *models.Transaction) error

	// SaveTransactions applies UpdateTransaction to every element as one batch.
	SaveTransactions(ctx context.Context, txns []models.Transaction) error

	DeleteTransaction(ctx context.Context, transactionID string) error
}

// TagStore persists tags.
type TagStore interface {
	CreateTag(ctx context.Context, tag *models.Tag) error

	// GetTag returns ErrNotFound if the tag does not exist.
	GetTag(ctx context.Context, tagID string) (*models.Tag, error)

	// GetTagsByIDs returns the tags that exist among ids, in no particular order.
	GetTagsByIDs(ctx context.Context, ids []string) ([]models.Tag, error)

	ListTagsByUser(ctx context.Context, userID string) ([]models.Tag, error)

	UpdateTag(ctx context.Context, tag *models.Tag) error

	// DeleteTag removes the tag and every link to it.
	DeleteTag(ctx context.Context, tagID string) error
}
