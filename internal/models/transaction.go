package models

import "time"

// MaxTransactionAmount is the largest amount a single transaction may carry.
const MaxTransactionAmount = 1_000_000

// Transaction represents a money movement against one bill.
// Income transactions add Amount to the bill, expenses subtract it.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	// UserID and BillID identify the owner and the bill. Both are immutable.
	UserID string
	BillID string

	// Name is a short title, Description free text.
	Name        string
	Description string

	// Income is true for income (credit) and false for expense (debit).
	Income bool

	// Amount is in the range [0, MaxTransactionAmount].
	Amount float64

	// Date is the calendar day of the transaction (UTC midnight).
	Date time.Time

	// Tags are the tags linked to the transaction, ordered by title.
	// Populated by the store on every read.
	Tags []Tag
}

// TagIDs returns the IDs of the linked tags.
func (t *Transaction) TagIDs() []string {
	ids := make([]string, len(t.Tags))
	for i, tag := range t.Tags {
		ids[i] = tag.ID
	}
	return ids
}

// RemoveTag unlinks the tag with the given ID. It reports whether a tag was removed.
func (t *Transaction) RemoveTag(tagID string) bool {
	for i, tag := range t.Tags {
		if tag.ID == tagID {
			t.Tags = append(t.Tags[:i:i], t.Tags[i+1:]...)
			return true
		}
	}
	return false
}

// TransactionView is the read-facing, denormalized representation of a transaction.
// The per-user transaction cache stores lists of these.
type TransactionView struct {
	ID          string
	Name        string
	Description string
	Income      bool
	Amount      float64
	Date        time.Time
	UserID      string
	BillID      string
	Tags        []TagView
}

// View returns the projection of the transaction.
func (t *Transaction) View() TransactionView {
	tags := make([]TagView, len(t.Tags))
	for i, tag := range t.Tags {
		tags[i] = tag.View()
	}
	return TransactionView{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Income:      t.Income,
		Amount:      t.Amount,
		Date:        t.Date,
		UserID:      t.UserID,
		BillID:      t.BillID,
		Tags:        tags,
	}
}
