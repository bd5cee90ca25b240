package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/financery/internal/models"
	"github.com/mmynk/financery/internal/storage"
)

// CreateBill inserts a new bill into the database.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	query := `
		INSERT INTO bills (id, user_id, name, balance, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.q.ExecContext(ctx, query,
		bill.ID,
		bill.UserID,
		bill.Name,
		bill.Balance,
		bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create bill: %w", err)
	}

	return nil
}

// GetBill retrieves a bill by ID.
func (s *SQLiteStore) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	query := `
		SELECT id, user_id, name, balance, created_at
		FROM bills
		WHERE id = ?
	`

	return s.scanBill(ctx, query, billID)
}

// GetUserBill retrieves a bill by ID, scoped to its owner.
func (s *SQLiteStore) GetUserBill(ctx context.Context, billID, userID string) (*models.Bill, error) {
	query := `
		SELECT id, user_id, name, balance, created_at
		FROM bills
		WHERE id = ? AND user_id = ?
	`

	return s.scanBill(ctx, query, billID, userID)
}

func (s *SQLiteStore) scanBill(ctx context.Context, query string, args ...any) (*models.Bill, error) {
	bill := &models.Bill{}
	err := s.q.QueryRowContext(ctx, query, args...).Scan(
		&bill.ID,
		&bill.UserID,
		&bill.Name,
		&bill.Balance,
		&bill.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	return bill, nil
}

// ListBillsByUser returns the user's bills, oldest first.
func (s *SQLiteStore) ListBillsByUser(ctx context.Context, userID string) ([]models.Bill, error) {
	query := `
		SELECT id, user_id, name, balance, created_at
		FROM bills
		WHERE user_id = ?
		ORDER BY created_at, rowid
	`

	rows, err := s.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	bills := []models.Bill{}
	for rows.Next() {
		var bill models.Bill
		if err := rows.Scan(
			&bill.ID,
			&bill.UserID,
			&bill.Name,
			&bill.Balance,
			&bill.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, bill)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bills: %w", err)
	}

	return bills, nil
}

// UpdateBill saves the bill's name and balance.
func (s *SQLiteStore) UpdateBill(ctx context.Context, bill *models.Bill) error {
	query := `
		UPDATE bills
		SET name = ?, balance = ?
		WHERE id = ?
	`

	if err := s.execOne(ctx, query, bill.Name, bill.Balance, bill.ID); err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}
	return nil
}

// DeleteBill removes the bill. Its transactions go with it through ON DELETE CASCADE.
func (s *SQLiteStore) DeleteBill(ctx context.Context, billID string) error {
	if err := s.execOne(ctx, `DELETE FROM bills WHERE id = ?`, billID); err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	return nil
}
