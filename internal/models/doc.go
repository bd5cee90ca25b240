// Package models defines the core domain models for Financery.
//
// # Entities
//
//   - User: owns bills, transactions and tags; Balance mirrors the sum of its bills' balances
//   - Bill: an account with a non-negative balance, owned by exactly one user
//   - Transaction: a dated income or expense against one bill
//   - Tag: a user-scoped label attached to any number of transactions
//
// # Projections
//
// TransactionView and TagView are the read-facing shapes returned to callers
// and held in the per-user transaction cache.
//
// # Design Principles
//
// 1. **No back-pointers**: relationships are ID strings (UserID, BillID) resolved through the store
// 2. **Explicit fetches**: a Transaction carries its Tags only because the store loaded them
// 3. **Float amounts**: balances and amounts are float64
package models
