package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/financery/internal/cache"
	"github.com/mmynk/financery/internal/models"
	"github.com/mmynk/financery/internal/storage"
	"github.com/mmynk/financery/internal/storage/sqlite"
)

type fixture struct {
	svc   *Service
	store storage.Store
	cache *cache.TransactionCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	c := cache.NewTransactionCache(cache.DefaultCapacity, nil)
	return &fixture{svc: New(store, c), store: store, cache: c}
}

// withStore rebuilds the service over a wrapped store, sharing the cache.
func (f *fixture) withStore(store storage.Store) *Service {
	return New(store, f.cache)
}

func (f *fixture) user(t *testing.T, email string) *models.User {
	t.Helper()
	user, err := f.svc.CreateUser(context.Background(), "Test User", email)
	require.NoError(t, err)
	return user
}

func (f *fixture) bill(t *testing.T, userID string, balance float64) *models.Bill {
	t.Helper()
	bill, err := f.svc.CreateBill(context.Background(), userID, "Main", balance)
	require.NoError(t, err)
	return bill
}

func (f *fixture) tag(t *testing.T, userID, title string) models.TagView {
	t.Helper()
	tag, err := f.svc.CreateTag(context.Background(), TagInput{UserID: userID, Title: title})
	require.NoError(t, err)
	return tag
}

// balances returns the stored balance of the user and of the bill.
func (f *fixture) balances(t *testing.T, userID, billID string) (float64, float64) {
	t.Helper()
	ctx := context.Background()
	user, err := f.store.GetUser(ctx, userID)
	require.NoError(t, err)
	bill, err := f.store.GetBill(ctx, billID)
	require.NoError(t, err)
	return user.Balance, bill.Balance
}

func (f *fixture) cached(t *testing.T, userID string) []models.TransactionView {
	t.Helper()
	list, ok := f.cache.Get(userID)
	require.True(t, ok, "user %s should be cached", userID)
	return list
}

var testDate = time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC)

func input(user *models.User, bill *models.Bill, income bool, amount float64) TransactionInput {
	return TransactionInput{
		UserID: user.ID,
		BillID: bill.ID,
		Name:   "Purchase",
		Income: income,
		Amount: amount,
		Date:   testDate,
	}
}

func viewIDs(list []models.TransactionView) []string {
	out := make([]string, len(list))
	for i, v := range list {
		out[i] = v.ID
	}
	return out
}

func findView(list []models.TransactionView, id string) (models.TransactionView, bool) {
	for _, v := range list {
		if v.ID == id {
			return v, true
		}
	}
	return models.TransactionView{}, false
}

func titles(tags []models.TagView) []string {
	out := make([]string, len(tags))
	for i, tag := range tags {
		out[i] = tag.Title
	}
	return out
}

func missingID() string { return uuid.NewString() }

var errStore = errors.New("store unavailable")

// failingStore fails the named write method, inside or outside InTx.
type failingStore struct {
	storage.Store
	failOn string
}

func (f *failingStore) InTx(ctx context.Context, fn func(tx storage.Store) error) error {
	return f.Store.InTx(ctx, func(tx storage.Store) error {
		return fn(&failingStore{Store: tx, failOn: f.failOn})
	})
}

func (f *failingStore) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	if f.failOn == "CreateTransaction" {
		return errStore
	}
	return f.Store.CreateTransaction(ctx, txn)
}

func (f *failingStore) UpdateTransaction(ctx context.Context, txn *models.Transaction) error {
	if f.failOn == "UpdateTransaction" {
		return errStore
	}
	return f.Store.UpdateTransaction(ctx, txn)
}

func (f *failingStore) DeleteTransaction(ctx context.Context, transactionID string) error {
	if f.failOn == "DeleteTransaction" {
		return errStore
	}
	return f.Store.DeleteTransaction(ctx, transactionID)
}

func (f *failingStore) SaveTransactions(ctx context.Context, txns []models.Transaction) error {
	if f.failOn == "SaveTransactions" {
		return errStore
	}
	return f.Store.SaveTransactions(ctx, txns)
}

func (f *failingStore) UpdateBill(ctx context.Context, bill *models.Bill) error {
	if f.failOn == "UpdateBill" {
		return errStore
	}
	return f.Store.UpdateBill(ctx, bill)
}

func (f *failingStore) UpdateUser(ctx context.Context, user *models.User) error {
	if f.failOn == "UpdateUser" {
		return errStore
	}
	return f.Store.UpdateUser(ctx, user)
}
