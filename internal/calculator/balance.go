// Package calculator keeps bill and user balances consistent with the
// transactions recorded against them.
//
// The functions here do no I/O. Callers load the bill and its owning user,
// apply one of the operations, and persist both entities in the same store
// transaction.
package calculator

import (
	"errors"
	"fmt"

	"github.com/mmynk/financery/internal/models"
)

// ErrInsufficientFunds is returned when a debit would take a bill below zero.
var ErrInsufficientFunds = errors.New("insufficient funds on bill")

// Effect returns the signed balance change a transaction of the given
// type and amount has on its bill: +amount for income, -amount for expense.
func Effect(income bool, amount float64) float64 {
	if income {
		return amount
	}
	return -amount
}

// ApplyCredit adds amount to the bill and, if present, to the owning user.
func ApplyCredit(bill *models.Bill, user *models.User, amount float64) {
	bill.Balance += amount
	if user != nil {
		user.Balance += amount
	}
}

// ApplyDebit subtracts amount from the bill and the owning user.
// It fails without mutating anything when amount exceeds the bill balance.
// An amount equal to the balance is allowed and leaves the bill at zero.
func ApplyDebit(bill *models.Bill, user *models.User, amount float64) error {
	if amount > bill.Balance {
		return fmt.Errorf("%w: need %.2f, bill %s has %.2f", ErrInsufficientFunds, amount, bill.ID, bill.Balance)
	}
	bill.Balance -= amount
	if user != nil {
		user.Balance -= amount
	}
	return nil
}

// Apply records the effect of a new transaction on its bill.
func Apply(bill *models.Bill, user *models.User, income bool, amount float64) error {
	if income {
		ApplyCredit(bill, user, amount)
		return nil
	}
	return ApplyDebit(bill, user, amount)
}

// ReapplyOnUpdate replaces the effect of an edited transaction with a
// single net adjustment: the old effect is undone and the new one applied
// in one step.
//
// Example: turning expense(100) into income(200) on a bill holding 50
// yields 50 + 100 + 200 = 350. Undoing and reapplying as two separate
// debits/credits could reject a change whose net result is positive.
//
// The adjustment is rejected only if the final balance would be negative.
func ReapplyOnUpdate(bill *models.Bill, user *models.User, oldIncome bool, oldAmount float64, newIncome bool, newAmount float64) error {
	delta := Effect(newIncome, newAmount) - Effect(oldIncome, oldAmount)
	if bill.Balance+delta < 0 {
		return fmt.Errorf("%w: adjustment %.2f on bill %s with %.2f", ErrInsufficientFunds, delta, bill.ID, bill.Balance)
	}
	ApplyCredit(bill, user, delta)
	return nil
}

// ReverseOnDelete undoes the effect of a removed transaction.
// Reversing an income debits the bill, so it fails if that income has
// already been spent.
func ReverseOnDelete(bill *models.Bill, user *models.User, income bool, amount float64) error {
	if income {
		return ApplyDebit(bill, user, amount)
	}
	ApplyCredit(bill, user, amount)
	return nil
}
