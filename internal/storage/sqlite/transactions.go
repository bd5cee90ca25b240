package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/financery/internal/models"
	"github.com/mmynk/financery/internal/storage"
)

// dateLayout is how transaction dates are stored. Lexical order matches
// chronological order.
const dateLayout = "2006-01-02"

const transactionColumns = `id, user_id, bill_id, name, description, income, amount, date`

// CreateTransaction inserts a new transaction and links its tags.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	return s.InTx(ctx, func(tx storage.Store) error {
		store := tx.(*SQLiteStore)

		query := `
			INSERT INTO transactions (` + transactionColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`

		_, err := store.q.ExecContext(ctx, query,
			txn.ID,
			txn.UserID,
			txn.BillID,
			txn.Name,
			txn.Description,
			txn.Income,
			txn.Amount,
			txn.Date.Format(dateLayout),
		)
		if err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}

		return store.linkTags(ctx, txn.ID, txn.Tags)
	})
}

// GetTransaction retrieves a transaction by ID with its tags loaded.
func (s *SQLiteStore) GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = ?`

	var (
		txn  models.Transaction
		date string
	)
	err := s.q.QueryRowContext(ctx, query, transactionID).Scan(
		&txn.ID,
		&txn.UserID,
		&txn.BillID,
		&txn.Name,
		&txn.Description,
		&txn.Income,
		&txn.Amount,
		&date,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	if txn.Date, err = time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("failed to parse transaction date %q: %w", date, err)
	}

	txns := []models.Transaction{txn}
	if err := s.loadTags(ctx, txns); err != nil {
		return nil, err
	}

	return &txns[0], nil
}

// ListTransactionsByUser returns the user's transactions ordered by date.
func (s *SQLiteStore) ListTransactionsByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = ?
		ORDER BY date, rowid
	`
	return s.listTransactions(ctx, query, userID)
}

// ListTransactionsByBill returns the bill's transactions ordered by date.
func (s *SQLiteStore) ListTransactionsByBill(ctx context.Context, billID string) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE bill_id = ?
		ORDER BY date, rowid
	`
	return s.listTransactions(ctx, query, billID)
}

// ListTransactionsByTag returns the transactions linked to the tag ordered by date.
func (s *SQLiteStore) ListTransactionsByTag(ctx context.Context, tagID string) ([]models.Transaction, error) {
	query := `
		SELECT t.id, t.user_id, t.bill_id, t.name, t.description, t.income, t.amount, t.date
		FROM transactions t
		JOIN transaction_tags tt ON tt.transaction_id = t.id
		WHERE tt.tag_id = ?
		ORDER BY t.date, t.rowid
	`
	return s.listTransactions(ctx, query, tagID)
}

// listTransactions scans every row first and loads tags afterwards, so no
// result set is open while the tag query runs.
func (s *SQLiteStore) listTransactions(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	txns := []models.Transaction{}
	for rows.Next() {
		var (
			txn  models.Transaction
			date string
		)
		if err := rows.Scan(
			&txn.ID,
			&txn.UserID,
			&txn.BillID,
			&txn.Name,
			&txn.Description,
			&txn.Income,
			&txn.Amount,
			&date,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if txn.Date, err = time.Parse(dateLayout, date); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to parse transaction date %q: %w", date, err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	rows.Close()

	if err := s.loadTags(ctx, txns); err != nil {
		return nil, err
	}
	return txns, nil
}

// loadTags fills Tags on every element of txns with a single query.
func (s *SQLiteStore) loadTags(ctx context.Context, txns []models.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	ids := make([]string, len(txns))
	index := make(map[string]int, len(txns))
	for i := range txns {
		ids[i] = txns[i].ID
		index[txns[i].ID] = i
		txns[i].Tags = []models.Tag{}
	}

	query := `
		SELECT tt.transaction_id, g.id, g.user_id, g.title
		FROM transaction_tags tt
		JOIN tags g ON g.id = tt.tag_id
		WHERE tt.transaction_id IN (` + placeholders(len(ids)) + `)
		ORDER BY g.title, g.id
	`

	rows, err := s.q.QueryContext(ctx, query, stringArgs(ids)...)
	if err != nil {
		return fmt.Errorf("failed to load transaction tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			transactionID string
			tag           models.Tag
		)
		if err := rows.Scan(&transactionID, &tag.ID, &tag.UserID, &tag.Title); err != nil {
			return fmt.Errorf("failed to scan transaction tag: %w", err)
		}
		i := index[transactionID]
		txns[i].Tags = append(txns[i].Tags, tag)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating transaction tags: %w", err)
	}
	return nil
}

// linkTags inserts one transaction_tags row per tag.
func (s *SQLiteStore) linkTags(ctx context.Context, transactionID string, tags []models.Tag) error {
	for _, tag := range tags {
		_, err := s.q.ExecContext(ctx,
			`INSERT OR IGNORE INTO transaction_tags (transaction_id, tag_id) VALUES (?, ?)`,
			transactionID, tag.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to link tag %s: %w", tag.ID, err)
		}
	}
	return nil
}

// UpdateTransaction saves the mutable fields and replaces the tag links.
func (s *SQLiteStore) UpdateTransaction(ctx context.Context, txn *models.Transaction) error {
	return s.InTx(ctx, func(tx storage.Store) error {
		return tx.(*SQLiteStore).updateTransaction(ctx, txn)
	})
}

// SaveTransactions updates every transaction in one database transaction.
func (s *SQLiteStore) SaveTransactions(ctx context.Context, txns []models.Transaction) error {
	return s.InTx(ctx, func(tx storage.Store) error {
		store := tx.(*SQLiteStore)
		for i := range txns {
			if err := store.updateTransaction(ctx, &txns[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) updateTransaction(ctx context.Context, txn *models.Transaction) error {
	query := `
		UPDATE transactions
		SET name = ?, description = ?, income = ?, amount = ?, date = ?
		WHERE id = ?
	`

	err := s.execOne(ctx, query,
		txn.Name,
		txn.Description,
		txn.Income,
		txn.Amount,
		txn.Date.Format(dateLayout),
		txn.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	if _, err := s.q.ExecContext(ctx, `DELETE FROM transaction_tags WHERE transaction_id = ?`, txn.ID); err != nil {
		return fmt.Errorf("failed to clear transaction tags: %w", err)
	}

	return s.linkTags(ctx, txn.ID, txn.Tags)
}

// DeleteTransaction removes a transaction and its tag links.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, transactionID string) error {
	if err := s.execOne(ctx, `DELETE FROM transactions WHERE id = ?`, transactionID); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}
