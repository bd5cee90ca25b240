package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/financery/internal/models"
	"github.com/mmynk/financery/internal/storage"
)

// CreateBill opens a bill for the user with an initial balance. The user's
// balance grows by the same amount.
func (s *Service) CreateBill(ctx context.Context, userID, name string, balance float64) (*models.Bill, error) {
	if err := validateID("user", userID); err != nil {
		return nil, failed("CreateBill", err)
	}
	name, err := validateBill(name, balance)
	if err != nil {
		return nil, failed("CreateBill", err)
	}

	bill := &models.Bill{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Balance:   balance,
		CreatedAt: time.Now().Unix(),
	}
	err = s.store.InTx(ctx, func(tx storage.Store) error {
		user, err := tx.GetUser(ctx, userID)
		if err != nil {
			return lookupErr(err, "user", userID)
		}
		if err := tx.CreateBill(ctx, bill); err != nil {
			return err
		}
		user.Balance += balance
		return tx.UpdateUser(ctx, user)
	})
	if err != nil {
		return nil, failed("CreateBill", err)
	}

	slog.Info("Bill created", "bill_id", bill.ID, "user_id", userID, "balance", balance)
	return bill, nil
}

// GetBill returns one bill.
func (s *Service) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	if err := validateID("bill", billID); err != nil {
		return nil, failed("GetBill", err)
	}
	bill, err := s.store.GetBill(ctx, billID)
	if err != nil {
		return nil, failed("GetBill", lookupErr(err, "bill", billID))
	}
	return bill, nil
}

// ListBillsForUser returns the user's bills.
func (s *Service) ListBillsForUser(ctx context.Context, userID string) ([]models.Bill, error) {
	if err := validateID("user", userID); err != nil {
		return nil, failed("ListBillsForUser", err)
	}

	var bills []models.Bill
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		if _, err := tx.GetUser(ctx, userID); err != nil {
			return lookupErr(err, "user", userID)
		}
		var err error
		bills, err = tx.ListBillsByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, failed("ListBillsForUser", err)
	}
	return bills, nil
}

// UpdateBill renames a bill and sets its balance. The owner's balance moves
// by the difference.
func (s *Service) UpdateBill(ctx context.Context, billID, name string, balance float64) (*models.Bill, error) {
	if err := validateID("bill", billID); err != nil {
		return nil, failed("UpdateBill", err)
	}
	name, err := validateBill(name, balance)
	if err != nil {
		return nil, failed("UpdateBill", err)
	}

	var bill *models.Bill
	err = s.store.InTx(ctx, func(tx storage.Store) error {
		var err error
		if bill, err = tx.GetBill(ctx, billID); err != nil {
			return lookupErr(err, "bill", billID)
		}
		user, err := tx.GetUser(ctx, bill.UserID)
		if err != nil {
			return lookupErr(err, "user", bill.UserID)
		}

		user.Balance += balance - bill.Balance
		bill.Name = name
		bill.Balance = balance
		return persistBalances(ctx, tx, bill, user)
	})
	if err != nil {
		return nil, failed("UpdateBill", err)
	}

	slog.Info("Bill updated", "bill_id", bill.ID, "balance", bill.Balance)
	return bill, nil
}

// DeleteBill removes a bill with its transactions. The owner's balance
// drops by the bill's balance and the removed transactions leave the
// owner's cached list.
func (s *Service) DeleteBill(ctx context.Context, billID string) error {
	if err := validateID("bill", billID); err != nil {
		return failed("DeleteBill", err)
	}

	var (
		userID  string
		removed []models.Transaction
	)
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		bill, err := tx.GetBill(ctx, billID)
		if err != nil {
			return lookupErr(err, "bill", billID)
		}
		user, err := tx.GetUser(ctx, bill.UserID)
		if err != nil {
			return lookupErr(err, "user", bill.UserID)
		}
		if removed, err = tx.ListTransactionsByBill(ctx, billID); err != nil {
			return err
		}

		if err := tx.DeleteBill(ctx, billID); err != nil {
			return err
		}
		user.Balance -= bill.Balance
		userID = user.ID
		return tx.UpdateUser(ctx, user)
	})
	if err != nil {
		return failed("DeleteBill", err)
	}

	for _, txn := range removed {
		s.cache.RemoveItem(userID, txn.ID)
	}
	slog.Info("Bill deleted", "bill_id", billID, "transactions", len(removed))
	return nil
}

func validateBill(name string, balance float64) (string, error) {
	if balance < 0 {
		return "", invalid("bill balance %.2f must not be negative", balance)
	}
	return validateName("name", name)
}
