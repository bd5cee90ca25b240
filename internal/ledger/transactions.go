package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/financery/internal/calculator"
	"github.com/mmynk/financery/internal/models"
	"github.com/mmynk/financery/internal/storage"
)

// TransactionInput carries the fields of a create or update request.
type TransactionInput struct {
	UserID      string
	BillID      string
	Name        string
	Description string
	Income      bool
	Amount      float64
	Date        time.Time

	// TagIDs selects the linked tags. On update nil keeps the current tags,
	// an empty slice clears them and a populated slice replaces them.
	TagIDs []string
}

// ListTransactions returns the user's transactions ordered by date.
// A cached list is returned as is; on a miss the list is loaded from the
// store and cached.
func (s *Service) ListTransactions(ctx context.Context, userID string) ([]models.TransactionView, error) {
	if err := validateID("user", userID); err != nil {
		return nil, failed("ListTransactions", err)
	}

	var list []models.TransactionView
	// The population runs inside a store transaction so that a writer
	// committing concurrently updates the cache after it, not before.
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		if _, err := tx.GetUser(ctx, userID); err != nil {
			return lookupErr(err, "user", userID)
		}

		if cached, ok := s.cache.Get(userID); ok {
			list = cached
			return nil
		}

		txns, err := tx.ListTransactionsByUser(ctx, userID)
		if err != nil {
			return err
		}
		list = views(txns)
		s.cache.Put(userID, list)
		return nil
	})
	if err != nil {
		return nil, failed("ListTransactions", err)
	}
	return list, nil
}

// Summarize aggregates the user's transactions. It reads through the cache.
func (s *Service) Summarize(ctx context.Context, userID string) (calculator.Summary, error) {
	list, err := s.ListTransactions(ctx, userID)
	if err != nil {
		return calculator.Summary{}, err
	}
	return calculator.Summarize(list), nil
}

// GetTransaction returns one transaction. It does not use the cache.
func (s *Service) GetTransaction(ctx context.Context, transactionID string) (models.TransactionView, error) {
	if err := validateID("transaction", transactionID); err != nil {
		return models.TransactionView{}, failed("GetTransaction", err)
	}
	txn, err := s.store.GetTransaction(ctx, transactionID)
	if err != nil {
		return models.TransactionView{}, failed("GetTransaction", lookupErr(err, "transaction", transactionID))
	}
	return txn.View(), nil
}

// ListTransactionsForBill returns the bill's transactions ordered by date.
// It does not use the cache.
func (s *Service) ListTransactionsForBill(ctx context.Context, billID string) ([]models.TransactionView, error) {
	if err := validateID("bill", billID); err != nil {
		return nil, failed("ListTransactionsForBill", err)
	}

	var list []models.TransactionView
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		if _, err := tx.GetBill(ctx, billID); err != nil {
			return lookupErr(err, "bill", billID)
		}
		txns, err := tx.ListTransactionsByBill(ctx, billID)
		if err != nil {
			return err
		}
		list = views(txns)
		return nil
	})
	if err != nil {
		return nil, failed("ListTransactionsForBill", err)
	}
	return list, nil
}

// CreateTransaction records a new transaction and applies its effect to
// the bill and the owning user.
func (s *Service) CreateTransaction(ctx context.Context, in TransactionInput) (models.TransactionView, error) {
	// Cheap checks first, before any store round trip.
	if err := validateAmount(in.Amount); err != nil {
		return models.TransactionView{}, failed("CreateTransaction", err)
	}
	name, err := validateTransactionInput(in)
	if err != nil {
		return models.TransactionView{}, failed("CreateTransaction", err)
	}

	var view models.TransactionView
	err = s.store.InTx(ctx, func(tx storage.Store) error {
		user, err := tx.GetUser(ctx, in.UserID)
		if err != nil {
			return lookupErr(err, "user", in.UserID)
		}
		// Ownership is part of the lookup: a bill of another user is not found.
		bill, err := tx.GetUserBill(ctx, in.BillID, in.UserID)
		if err != nil {
			return lookupErr(err, "bill", in.BillID)
		}
		if !in.Income && in.Amount > bill.Balance {
			return invalid("expense %.2f exceeds balance %.2f of bill %s", in.Amount, bill.Balance, bill.ID)
		}

		tags, err := resolveTags(ctx, tx, in.UserID, in.TagIDs)
		if err != nil {
			return err
		}

		if err := calculator.Apply(bill, user, in.Income, in.Amount); err != nil {
			return balanceErr(err)
		}

		txn := &models.Transaction{
			ID:          uuid.NewString(),
			UserID:      in.UserID,
			BillID:      in.BillID,
			Name:        name,
			Description: in.Description,
			Income:      in.Income,
			Amount:      in.Amount,
			Date:        normalizeDate(in.Date),
			Tags:        tags,
		}
		if err := tx.CreateTransaction(ctx, txn); err != nil {
			return err
		}
		if err := persistBalances(ctx, tx, bill, user); err != nil {
			return err
		}

		view, err = reload(ctx, tx, txn.ID)
		return err
	})
	if err != nil {
		return models.TransactionView{}, failed("CreateTransaction", err)
	}

	s.cache.UpsertItem(view.UserID, view)
	slog.Info("Transaction created",
		"transaction_id", view.ID,
		"user_id", view.UserID,
		"bill_id", view.BillID,
		"income", view.Income,
		"amount", view.Amount,
	)
	return view, nil
}

// UpdateTransaction edits a transaction. The owning user and bill cannot
// change; the balance effect is replaced by one net adjustment.
func (s *Service) UpdateTransaction(ctx context.Context, transactionID string, in TransactionInput) (models.TransactionView, error) {
	if err := validateID("transaction", transactionID); err != nil {
		return models.TransactionView{}, failed("UpdateTransaction", err)
	}
	if err := validateInputIDs(in); err != nil {
		return models.TransactionView{}, failed("UpdateTransaction", err)
	}

	var view models.TransactionView
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		txn, err := tx.GetTransaction(ctx, transactionID)
		if err != nil {
			return lookupErr(err, "transaction", transactionID)
		}
		if err := validateAmount(in.Amount); err != nil {
			return err
		}
		name, err := validateTransactionFields(in)
		if err != nil {
			return err
		}
		if in.UserID != txn.UserID {
			return invalid("user_id of transaction %s cannot change, must be %s", txn.ID, txn.UserID)
		}
		if in.BillID != txn.BillID {
			return invalid("bill_id of transaction %s cannot change, must be %s", txn.ID, txn.BillID)
		}

		user, err := tx.GetUser(ctx, txn.UserID)
		if err != nil {
			return lookupErr(err, "user", txn.UserID)
		}
		bill, err := tx.GetUserBill(ctx, txn.BillID, txn.UserID)
		if err != nil {
			return lookupErr(err, "bill", txn.BillID)
		}
		// Checked against the balance that still includes the old effect.
		if !in.Income && in.Amount > bill.Balance {
			return invalid("expense %.2f exceeds balance %.2f of bill %s", in.Amount, bill.Balance, bill.ID)
		}

		tags := txn.Tags
		if in.TagIDs != nil {
			if tags, err = resolveTags(ctx, tx, txn.UserID, in.TagIDs); err != nil {
				return err
			}
		}

		if err := calculator.ReapplyOnUpdate(bill, user, txn.Income, txn.Amount, in.Income, in.Amount); err != nil {
			return balanceErr(err)
		}

		txn.Name = name
		txn.Description = in.Description
		txn.Income = in.Income
		txn.Amount = in.Amount
		txn.Date = normalizeDate(in.Date)
		txn.Tags = tags

		if err := tx.UpdateTransaction(ctx, txn); err != nil {
			return err
		}
		if err := persistBalances(ctx, tx, bill, user); err != nil {
			return err
		}

		view, err = reload(ctx, tx, txn.ID)
		return err
	})
	if err != nil {
		return models.TransactionView{}, failed("UpdateTransaction", err)
	}

	s.cache.UpsertItem(view.UserID, view)
	slog.Info("Transaction updated", "transaction_id", view.ID, "user_id", view.UserID)
	return view, nil
}

// DeleteTransaction removes a transaction and reverses its effect.
func (s *Service) DeleteTransaction(ctx context.Context, transactionID string) error {
	if err := validateID("transaction", transactionID); err != nil {
		return failed("DeleteTransaction", err)
	}

	var userID string
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		txn, err := tx.GetTransaction(ctx, transactionID)
		if err != nil {
			return lookupErr(err, "transaction", transactionID)
		}
		bill, err := tx.GetBill(ctx, txn.BillID)
		if err != nil {
			return lookupErr(err, "bill", txn.BillID)
		}
		user, err := tx.GetUser(ctx, bill.UserID)
		if err != nil {
			return lookupErr(err, "user", bill.UserID)
		}

		if err := calculator.ReverseOnDelete(bill, user, txn.Income, txn.Amount); err != nil {
			return balanceErr(err)
		}

		if err := tx.DeleteTransaction(ctx, txn.ID); err != nil {
			return err
		}
		if err := persistBalances(ctx, tx, bill, user); err != nil {
			return err
		}
		userID = txn.UserID
		return nil
	})
	if err != nil {
		return failed("DeleteTransaction", err)
	}

	s.cache.RemoveItem(userID, transactionID)
	slog.Info("Transaction deleted", "transaction_id", transactionID, "user_id", userID)
	return nil
}

func validateTransactionInput(in TransactionInput) (string, error) {
	if err := validateInputIDs(in); err != nil {
		return "", err
	}
	return validateTransactionFields(in)
}

// validateInputIDs checks the format of every id in the input.
func validateInputIDs(in TransactionInput) error {
	if err := validateID("user", in.UserID); err != nil {
		return err
	}
	if err := validateID("bill", in.BillID); err != nil {
		return err
	}
	for _, id := range in.TagIDs {
		if err := validateID("tag", id); err != nil {
			return err
		}
	}
	return nil
}

// validateTransactionFields checks the date and returns the trimmed name.
func validateTransactionFields(in TransactionInput) (string, error) {
	if in.Date.IsZero() {
		return "", invalid("date is required")
	}
	return validateName("name", in.Name)
}

// resolveTags loads the tags named by ids. Every tag must exist and belong
// to userID.
func resolveTags(ctx context.Context, tx storage.Store, userID string, ids []string) ([]models.Tag, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	if len(unique) == 0 {
		return []models.Tag{}, nil
	}

	tags, err := tx.GetTagsByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(unique) {
		found := make(map[string]bool, len(tags))
		for _, tag := range tags {
			found[tag.ID] = true
		}
		for _, id := range unique {
			if !found[id] {
				return nil, invalid("tag %s does not exist", id)
			}
		}
	}
	for _, tag := range tags {
		if tag.UserID != userID {
			return nil, invalid("tag %s belongs to another user", tag.ID)
		}
	}
	return tags, nil
}

// persistBalances saves the bill and its owner after a balance change.
func persistBalances(ctx context.Context, tx storage.Store, bill *models.Bill, user *models.User) error {
	if err := tx.UpdateBill(ctx, bill); err != nil {
		return err
	}
	return tx.UpdateUser(ctx, user)
}

// reload reads a transaction back so the returned projection is exactly
// what the store holds.
func reload(ctx context.Context, tx storage.Store, transactionID string) (models.TransactionView, error) {
	txn, err := tx.GetTransaction(ctx, transactionID)
	if err != nil {
		return models.TransactionView{}, err
	}
	return txn.View(), nil
}

// balanceErr surfaces calculator.ErrInsufficientFunds as ErrInvalidInput.
func balanceErr(err error) error {
	if errors.Is(err, calculator.ErrInsufficientFunds) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
