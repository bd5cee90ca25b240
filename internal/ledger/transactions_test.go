package ledger

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/financery/internal/calculator"
	"github.com/mmynk/financery/internal/models"
)

func TestEndToEndScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := f.user(t, "u@example.com")
	bill := f.bill(t, user.ID, 1000)

	deposit, err := f.svc.CreateTransaction(ctx, input(user, bill, true, 100))
	require.NoError(t, err)
	userBalance, billBalance := f.balances(t, user.ID, bill.ID)
	assert.Equal(t, 1100.0, billBalance)
	assert.Equal(t, 1100.0, userBalance)

	_, ok := f.cache.Get(user.ID)
	assert.False(t, ok, "writes must not populate the cache")

	list, err := f.svc.ListTransactions(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{deposit.ID}, viewIDs(list))
	assert.Equal(t, []string{deposit.ID}, viewIDs(f.cached(t, user.ID)))

	_, err = f.svc.CreateTransaction(ctx, input(user, bill, false, 2000))
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, billBalance = f.balances(t, user.ID, bill.ID)
	assert.Equal(t, 1100.0, billBalance)

	require.NoError(t, f.svc.DeleteTransaction(ctx, deposit.ID))
	userBalance, billBalance = f.balances(t, user.ID, bill.ID)
	assert.Equal(t, 1000.0, billBalance)
	assert.Equal(t, 1000.0, userBalance)
	assert.Empty(t, f.cached(t, user.ID))
}

func TestBalanceConservation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := f.user(t, "c@example.com")
	bill := f.bill(t, user.ID, 0)

	// checkConserved asserts the bill holds the net effect of its
	// transactions and the user holds the sum of its bills.
	checkConserved := func(t *testing.T) {
		t.Helper()
		txns, err := f.svc.ListTransactionsForBill(ctx, bill.ID)
		require.NoError(t, err)

		var net float64
		for _, txn := range txns {
			net += calculator.Effect(txn.Income, txn.Amount)
		}
		_, billBalance := f.balances(t, user.ID, bill.ID)
		assert.InDelta(t, net, billBalance, 1e-9)

		bills, err := f.svc.ListBillsForUser(ctx, user.ID)
		require.NoError(t, err)
		var total float64
		for _, b := range bills {
			assert.GreaterOrEqual(t, b.Balance, 0.0)
			total += b.Balance
		}
		u, err := f.svc.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.InDelta(t, total, u.Balance, 1e-9)
	}

	t1, err := f.svc.CreateTransaction(ctx, input(user, bill, true, 500))
	require.NoError(t, err)
	checkConserved(t)

	t2, err := f.svc.CreateTransaction(ctx, input(user, bill, false, 200))
	require.NoError(t, err)
	checkConserved(t)

	_, err = f.svc.UpdateTransaction(ctx, t2.ID, input(user, bill, false, 250))
	require.NoError(t, err)
	checkConserved(t)

	_, err = f.svc.UpdateTransaction(ctx, t1.ID, input(user, bill, true, 400))
	require.NoError(t, err)
	checkConserved(t)

	// Spends the bill down to exactly zero.
	_, err = f.svc.CreateTransaction(ctx, input(user, bill, false, 150))
	require.NoError(t, err)
	checkConserved(t)

	require.NoError(t, f.svc.DeleteTransaction(ctx, t2.ID))
	checkConserved(t)

	f.bill(t, user.ID, 100)
	checkConserved(t)

	_, billBalance := f.balances(t, user.ID, bill.ID)
	assert.Equal(t, 250.0, billBalance)
}

func TestDebitRejection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := f.user(t, "d@example.com")
	bill := f.bill(t, user.ID, 50)

	coffee, err := f.svc.CreateTransaction(ctx, input(user, bill, false, 20))
	require.NoError(t, err)

	before, err := f.svc.ListTransactions(ctx, user.ID)
	require.NoError(t, err)

	t.Run("create", func(t *testing.T) {
		_, err := f.svc.CreateTransaction(ctx, input(user, bill, false, 31))
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("update", func(t *testing.T) {
		_, err := f.svc.UpdateTransaction(ctx, coffee.ID, input(user, bill, false, 31))
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	userBalance, billBalance := f.balances(t, user.ID, bill.ID)
	assert.Equal(t, 30.0, billBalance)
	assert.Equal(t, 30.0, userBalance)
	assert.Equal(t, before, f.cached(t, user.ID))

	stored, err := f.svc.GetTransaction(ctx, coffee.ID)
	require.NoError(t, err)
	assert.Equal(t, 20.0, stored.Amount)
}

func TestUpdateAppliesNetDelta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := f.user(t, "n@example.com")
	bill := f.bill(t, user.ID, 150)

	txn, err := f.svc.CreateTransaction(ctx, input(user, bill, false, 100))
	require.NoError(t, err)
	_, billBalance := f.balances(t, user.ID, bill.ID)
	require.Equal(t, 50.0, billBalance)

	// Undoing the expense first would be fine, but debiting 100 from 50
	// first would not. The net change is +300.
	updated, err := f.svc.UpdateTransaction(ctx, txn.ID, input(user, bill, true, 200))
	require.NoError(t, err)
	assert.True(t, updated.Income)

	userBalance, billBalance := f.balances(t, user.ID, bill.ID)
	assert.Equal(t, 350.0, billBalance)
	assert.Equal(t, 350.0, userBalance)
}

func TestExpenseBoundary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := f.user(t, "b@example.com")
	bill := f.bill(t, user.ID, 300)

	txn, err := f.svc.CreateTransaction(ctx, input(user, bill, false, 100))
	require.NoError(t, err)

	t.Run("new expense equal to balance is accepted", func(t *testing.T) {
		_, err := f.svc.UpdateTransaction(ctx, txn.ID, input(user, bill, false, 200))
		require.NoError(t, err)
		_, billBalance := f.balances(t, user.ID, bill.ID)
		assert.Equal(t, 100.0, billBalance)
	})

	t.Run("new expense above balance is rejected before the old one is undone", func(t *testing.T) {
		// Net result would be 100 + 200 - 250 = 50, but 250 > 100.
		_, err := f.svc.UpdateTransaction(ctx, txn.ID, input(user, bill, false, 250))
		assert.ErrorIs(t, err, ErrInvalidInput)
		_, billBalance := f.balances(t, user.ID, bill.ID)
		assert.Equal(t, 100.0, billBalance)
	})

	t.Run("create debiting to exactly zero", func(t *testing.T) {
		_, err := f.svc.CreateTransaction(ctx, input(user, bill, false, 100))
		require.NoError(t, err)
		userBalance, billBalance := f.balances(t, user.ID, bill.ID)
		assert.Equal(t, 0.0, billBalance)
		assert.Equal(t, 0.0, userBalance)
	})

	t.Run("deleting spent income is rejected", func(t *testing.T) {
		salary, err := f.svc.CreateTransaction(ctx, input(user, bill, true, 40))
		require.NoError(t, err)
		_, err = f.svc.CreateTransaction(ctx, input(user, bill, false, 40))
		require.NoError(t, err)

		err = f.svc.DeleteTransaction(ctx, salary.ID)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.ErrorIs(t, err, calculator.ErrInsufficientFunds)

		_, err = f.svc.GetTransaction(ctx, salary.ID)
		assert.NoError(t, err, "rejected delete must leave the transaction in place")
	})
}

func TestCacheCoherence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := f.user(t, "cc@example.com")
	bill := f.bill(t, user.ID, 500)
	food := f.tag(t, user.ID, "food")

	_, err := f.svc.ListTransactions(ctx, user.ID)
	require.NoError(t, err)

	in := input(user, bill, false, 25)
	in.TagIDs = []string{food.ID}
	created, err := f.svc.CreateTransaction(ctx, in)
	require.NoError(t, err)
	require.Len(t, created.Tags, 1)
	assert.Equal(t, "food", created.Tags[0].Title)

	got, ok := findView(f.cached(t, user.ID), created.ID)
	require.True(t, ok)
	assert.Equal(t, created, got)

	in.Amount = 30
	in.Description = "with tip"
	updated, err := f.svc.UpdateTransaction(ctx, created.ID, in)
	require.NoError(t, err)
	got, ok = findView(f.cached(t, user.ID), created.ID)
	require.True(t, ok)
	assert.Equal(t, updated, got)
	assert.Len(t, f.cached(t, user.ID), 1)

	// The cached list matches a fresh read from the store.
	f.svc.ClearCacheForUser(user.ID)
	fresh, err := f.svc.ListTransactions(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.TransactionView{updated}, fresh)

	require.NoError(t, f.svc.DeleteTransaction(ctx, created.ID))
	_, ok = findView(f.cached(t, user.ID), created.ID)
	assert.False(t, ok)
}

func TestListTransactionsEvictsLeastRecentlyUsed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.user(t, "a@example.com")
	b := f.user(t, "b@example.com")
	c := f.user(t, "c@example.com")
	d := f.user(t, "d@example.com")

	for _, u := range []string{a.ID, b.ID, c.ID, a.ID, d.ID} {
		_, err := f.svc.ListTransactions(ctx, u)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{d.ID, a.ID, c.ID}, f.svc.CachedUsers())
}

func TestOwnershipIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.user(t, "alice@example.com")
	bob := f.user(t, "bob@example.com")
	bobsBill := f.bill(t, bob.ID, 100)
	bobsTag := f.tag(t, bob.ID, "rent")
	alicesBill := f.bill(t, alice.ID, 100)

	t.Run("foreign bill is not found", func(t *testing.T) {
		in := input(alice, bobsBill, true, 10)
		_, err := f.svc.CreateTransaction(ctx, in)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NotErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("foreign tag is invalid", func(t *testing.T) {
		in := input(alice, alicesBill, true, 10)
		in.TagIDs = []string{bobsTag.ID}
		_, err := f.svc.CreateTransaction(ctx, in)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown tag is invalid", func(t *testing.T) {
		in := input(alice, alicesBill, true, 10)
		in.TagIDs = []string{missingID()}
		_, err := f.svc.CreateTransaction(ctx, in)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("owner and bill cannot change", func(t *testing.T) {
		txn, err := f.svc.CreateTransaction(ctx, input(alice, alicesBill, true, 10))
		require.NoError(t, err)

		_, err = f.svc.UpdateTransaction(ctx, txn.ID, input(bob, bobsBill, true, 10))
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), alice.ID)

		other := f.bill(t, alice.ID, 0)
		_, err = f.svc.UpdateTransaction(ctx, txn.ID, input(alice, other, true, 10))
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), alicesBill.ID)
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		in := input(alice, alicesBill, true, 10)
		in.UserID = missingID()
		_, err := f.svc.CreateTransaction(ctx, in)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestInputValidatedBeforeLookup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   TransactionInput
		// update of a missing transaction: only malformed ids are
		// rejected before the transaction is loaded
		updateErr error
	}{
		{"amount above ceiling", TransactionInput{UserID: missingID(), BillID: missingID(), Name: "x", Amount: 1_000_001}, ErrNotFound},
		{"negative amount", TransactionInput{UserID: missingID(), BillID: missingID(), Name: "x", Amount: -1}, ErrNotFound},
		{"NaN amount", TransactionInput{UserID: missingID(), BillID: missingID(), Name: "x", Amount: math.NaN()}, ErrNotFound},
		{"blank name", TransactionInput{UserID: missingID(), BillID: missingID(), Name: " ", Amount: 1}, ErrNotFound},
		{"malformed user id", TransactionInput{UserID: "42", BillID: missingID(), Name: "x", Amount: 1}, ErrInvalidInput},
		{"malformed tag id", TransactionInput{UserID: missingID(), BillID: missingID(), Name: "x", Amount: 1, TagIDs: []string{"nope"}}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Date = testDate
			_, err := f.svc.CreateTransaction(ctx, tt.in)
			assert.ErrorIs(t, err, ErrInvalidInput)

			_, err = f.svc.UpdateTransaction(ctx, missingID(), tt.in)
			assert.ErrorIs(t, err, tt.updateErr)
		})
	}

	t.Run("existing transaction rejects bad amounts", func(t *testing.T) {
		user := f.user(t, "ceiling@example.com")
		bill := f.bill(t, user.ID, 100)
		txn, err := f.svc.CreateTransaction(ctx, input(user, bill, true, 10))
		require.NoError(t, err)

		for _, amount := range []float64{1_000_001, -1, math.NaN()} {
			_, err := f.svc.UpdateTransaction(ctx, txn.ID, input(user, bill, true, amount))
			assert.ErrorIs(t, err, ErrInvalidInput, "amount %v", amount)
		}

		userBalance, billBalance := f.balances(t, user.ID, bill.ID)
		assert.Equal(t, 110.0, billBalance)
		assert.Equal(t, 110.0, userBalance)
	})

	t.Run("NaN expense on an existing bill", func(t *testing.T) {
		user := f.user(t, "nan@example.com")
		bill := f.bill(t, user.ID, 100)
		_, err := f.svc.CreateTransaction(ctx, input(user, bill, false, math.NaN()))
		assert.ErrorIs(t, err, ErrInvalidInput)

		userBalance, billBalance := f.balances(t, user.ID, bill.ID)
		assert.Equal(t, 100.0, billBalance)
		assert.Equal(t, 100.0, userBalance)
	})

	t.Run("ceiling itself is allowed", func(t *testing.T) {
		user := f.user(t, "rich@example.com")
		bill := f.bill(t, user.ID, 0)
		_, err := f.svc.CreateTransaction(ctx, input(user, bill, true, 1_000_000))
		assert.NoError(t, err)
	})

	t.Run("missing transaction", func(t *testing.T) {
		user := f.user(t, "m@example.com")
		bill := f.bill(t, user.ID, 0)
		_, err := f.svc.UpdateTransaction(ctx, missingID(), input(user, bill, true, 1))
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, f.svc.DeleteTransaction(ctx, missingID()), ErrNotFound)
		_, err = f.svc.GetTransaction(ctx, missingID())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUpdateTagIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := f.user(t, "tags@example.com")
	bill := f.bill(t, user.ID, 0)
	food := f.tag(t, user.ID, "food")
	work := f.tag(t, user.ID, "work")

	in := input(user, bill, true, 10)
	in.TagIDs = []string{work.ID, food.ID}
	txn, err := f.svc.CreateTransaction(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, []string{"food", "work"}, titles(txn.Tags))

	t.Run("nil keeps tags", func(t *testing.T) {
		in.TagIDs = nil
		got, err := f.svc.UpdateTransaction(ctx, txn.ID, in)
		require.NoError(t, err)
		assert.Equal(t, []string{"food", "work"}, titles(got.Tags))
	})

	t.Run("populated replaces tags", func(t *testing.T) {
		in.TagIDs = []string{work.ID, work.ID}
		got, err := f.svc.UpdateTransaction(ctx, txn.ID, in)
		require.NoError(t, err)
		assert.Equal(t, []string{"work"}, titles(got.Tags))
	})

	t.Run("empty clears tags", func(t *testing.T) {
		in.TagIDs = []string{}
		got, err := f.svc.UpdateTransaction(ctx, txn.ID, in)
		require.NoError(t, err)
		assert.Empty(t, got.Tags)
	})
}

func TestSummarize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := f.user(t, "s@example.com")
	bill := f.bill(t, user.ID, 0)

	_, err := f.svc.CreateTransaction(ctx, input(user, bill, true, 300))
	require.NoError(t, err)
	_, err = f.svc.CreateTransaction(ctx, input(user, bill, false, 120))
	require.NoError(t, err)

	summary, err := f.svc.Summarize(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 300.0, summary.Income)
	assert.Equal(t, 120.0, summary.Expense)
	assert.Equal(t, 180.0, summary.Net)
	assert.Equal(t, 2, summary.Count)

	_, ok := f.cache.Get(user.ID)
	assert.True(t, ok, "summary reads through the cache")

	_, err = f.svc.Summarize(ctx, missingID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentDebits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := f.user(t, "race@example.com")
	bill := f.bill(t, user.ID, 100)

	const workers = 20
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		rejected int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CreateTransaction(ctx, input(user, bill, false, 10))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				accepted++
			} else if IsInvalidInput(err) {
				rejected++
			} else {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, accepted)
	assert.Equal(t, 10, rejected)
	userBalance, billBalance := f.balances(t, user.ID, bill.ID)
	assert.Equal(t, 0.0, billBalance)
	assert.Equal(t, 0.0, userBalance)
}

func TestStoreFailureLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := f.user(t, "fail@example.com")
	bill := f.bill(t, user.ID, 100)
	txn, err := f.svc.CreateTransaction(ctx, input(user, bill, false, 30))
	require.NoError(t, err)

	before, err := f.svc.ListTransactions(ctx, user.ID)
	require.NoError(t, err)

	tests := []struct {
		failOn string
		run    func(svc *Service) error
	}{
		{"CreateTransaction", func(svc *Service) error {
			_, err := svc.CreateTransaction(ctx, input(user, bill, false, 10))
			return err
		}},
		{"UpdateBill", func(svc *Service) error {
			_, err := svc.CreateTransaction(ctx, input(user, bill, true, 10))
			return err
		}},
		{"UpdateUser", func(svc *Service) error {
			_, err := svc.UpdateTransaction(ctx, txn.ID, input(user, bill, false, 5))
			return err
		}},
		{"DeleteTransaction", func(svc *Service) error {
			return svc.DeleteTransaction(ctx, txn.ID)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.failOn, func(t *testing.T) {
			svc := f.withStore(&failingStore{Store: f.store, failOn: tt.failOn})

			err := tt.run(svc)
			require.ErrorIs(t, err, errStore)
			assert.False(t, IsNotFound(err) || IsInvalidInput(err))

			userBalance, billBalance := f.balances(t, user.ID, bill.ID)
			assert.Equal(t, 70.0, billBalance)
			assert.Equal(t, 70.0, userBalance)
			assert.Equal(t, before, f.cached(t, user.ID))

			stored, err := f.svc.ListTransactionsForBill(ctx, bill.ID)
			require.NoError(t, err)
			assert.Equal(t, before, stored)
		})
	}
}
