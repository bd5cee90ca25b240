package cache

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/financery/internal/metrics"
	"github.com/mmynk/financery/internal/models"
)

func view(id, userID string, amount float64) models.TransactionView {
	return models.TransactionView{ID: id, UserID: userID, BillID: "bill-" + userID, Name: "t" + id, Amount: amount}
}

func ids(list []models.TransactionView) []string {
	out := make([]string, len(list))
	for i, t := range list {
		out[i] = t.ID
	}
	return out
}

func TestTransactionCache_GetPut(t *testing.T) {
	c := NewTransactionCache(DefaultCapacity, nil)

	_, ok := c.Get("u1")
	assert.False(t, ok)

	c.Put("u1", []models.TransactionView{view("1", "u1", 10), view("2", "u1", 20)})
	list, ok := c.Get("u1")
	require.True(t, ok)
	assert.Equal(t, []string{"1", "2"}, ids(list))

	t.Run("returned list is a copy", func(t *testing.T) {
		list[0].Amount = 999
		again, _ := c.Get("u1")
		assert.Equal(t, 10.0, again[0].Amount)
	})

	t.Run("tag slices are copied", func(t *testing.T) {
		tagged := view("3", "u3", 5)
		tagged.Tags = []models.TagView{{ID: "g1", Title: "food", UserID: "u3"}}
		in := []models.TransactionView{tagged}
		c.Put("u3", in)

		in[0].Tags[0].Title = "changed by caller"
		out, ok := c.Get("u3")
		require.True(t, ok)
		assert.Equal(t, "food", out[0].Tags[0].Title)

		out[0].Tags[0].Title = "changed by reader"
		again, _ := c.Get("u3")
		assert.Equal(t, "food", again[0].Tags[0].Title)

		item := view("4", "u3", 6)
		item.Tags = []models.TagView{{ID: "g2", Title: "work", UserID: "u3"}}
		c.UpsertItem("u3", item)
		item.Tags[0].Title = "changed after upsert"
		again, _ = c.Get("u3")
		require.Len(t, again, 2)
		assert.Equal(t, "work", again[1].Tags[0].Title)
	})

	t.Run("empty list is a hit", func(t *testing.T) {
		c.Put("u2", nil)
		list, ok := c.Get("u2")
		assert.True(t, ok)
		assert.Empty(t, list)
	})
}

func TestTransactionCache_UpsertItem(t *testing.T) {
	c := NewTransactionCache(DefaultCapacity, nil)

	t.Run("no-op when user is not cached", func(t *testing.T) {
		c.UpsertItem("u1", view("1", "u1", 10))
		_, ok := c.Get("u1")
		assert.False(t, ok, "writes must not populate the cache")
	})

	c.Put("u1", []models.TransactionView{view("1", "u1", 10), view("2", "u1", 20)})

	t.Run("appends new item", func(t *testing.T) {
		c.UpsertItem("u1", view("3", "u1", 30))
		list, _ := c.Get("u1")
		assert.Equal(t, []string{"1", "2", "3"}, ids(list))
	})

	t.Run("replaces existing item and moves it to the end", func(t *testing.T) {
		c.UpsertItem("u1", view("1", "u1", 15))
		list, _ := c.Get("u1")
		assert.Equal(t, []string{"2", "3", "1"}, ids(list))
		assert.Equal(t, 15.0, list[2].Amount)
	})
}

func TestTransactionCache_RemoveItem(t *testing.T) {
	c := NewTransactionCache(DefaultCapacity, nil)

	c.RemoveItem("u1", "1") // absent user is fine

	c.Put("u1", []models.TransactionView{view("1", "u1", 10), view("2", "u1", 20)})
	c.RemoveItem("u1", "1")
	c.RemoveItem("u1", "missing")

	list, ok := c.Get("u1")
	require.True(t, ok)
	assert.Equal(t, []string{"2"}, ids(list))
}

func TestTransactionCache_InvalidateAndClear(t *testing.T) {
	c := NewTransactionCache(DefaultCapacity, nil)
	c.Put("u1", nil)
	c.Put("u2", nil)

	c.Invalidate("u1")
	c.Invalidate("never-cached")
	_, ok := c.Get("u1")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestTransactionCache_EvictionOrder(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	c := NewTransactionCache(3, m)

	c.Put("A", nil)
	c.Put("B", nil)
	c.Put("C", nil)

	_, ok := c.Get("A")
	require.True(t, ok)

	c.Put("D", nil)

	_, ok = c.Get("B")
	assert.False(t, ok, "B was least recently used and should be evicted")
	assert.ElementsMatch(t, []string{"A", "C", "D"}, c.Users())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheEvictions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheMisses))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.CacheEntries))
}

func TestTransactionCache_UpsertTouchesEntry(t *testing.T) {
	c := NewTransactionCache(2, nil)
	c.Put("A", nil)
	c.Put("B", nil)

	c.UpsertItem("A", view("1", "A", 1))
	c.Put("C", nil)

	assert.ElementsMatch(t, []string{"A", "C"}, c.Users())
}
