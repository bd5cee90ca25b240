package cache

import (
	"log/slog"
	"slices"

	"github.com/mmynk/financery/internal/metrics"
	"github.com/mmynk/financery/internal/models"
)

// DefaultCapacity is the number of users whose lists are kept when no
// capacity is configured.
const DefaultCapacity = 3

// TransactionCache maps a user ID to that user's transaction projections.
//
// Only reads populate it (Put after a store query). Item-level writes
// (UpsertItem, RemoveItem) touch users that are already cached and are
// no-ops otherwise. Lists and the Tags of each item are copied on the way
// in and out, so callers never share a backing array with the cache.
type TransactionCache struct {
	lru     *LRU[string, []models.TransactionView]
	metrics *metrics.Metrics
}

// NewTransactionCache creates a cache holding at most capacity users.
// m may be nil.
func NewTransactionCache(capacity int, m *metrics.Metrics) *TransactionCache {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	c := &TransactionCache{metrics: m}
	c.lru = NewLRU[string, []models.TransactionView](capacity, func(userID string, _ []models.TransactionView) {
		slog.Debug("Transaction cache evicted least recently used user", "user_id", userID)
		m.CacheEviction()
	})
	slog.Info("Transaction cache initialized", "capacity", capacity)
	return c
}

// Get returns the cached list for userID. A hit marks the user most recently used.
func (c *TransactionCache) Get(userID string) ([]models.TransactionView, bool) {
	list, ok := c.lru.Get(userID)
	if !ok {
		c.metrics.CacheMiss()
		slog.Debug("Transaction cache miss", "user_id", userID)
		return nil, false
	}
	c.metrics.CacheHit()
	slog.Debug("Transaction cache hit", "user_id", userID, "count", len(list))
	return cloneViews(list), true
}

// Put stores the full list for userID, evicting the least recently used
// user if the cache is over capacity.
func (c *TransactionCache) Put(userID string, list []models.TransactionView) {
	stored := cloneViews(list)
	c.lru.Put(userID, stored)
	c.metrics.SetCacheEntries(c.lru.Len())
	slog.Debug("Transaction cache populated", "user_id", userID, "count", len(stored))
}

// UpsertItem replaces (or appends) one projection in userID's cached list.
// The replaced item is dropped from its position and the new one appended.
func (c *TransactionCache) UpsertItem(userID string, item models.TransactionView) {
	updated := c.lru.Update(userID, func(old []models.TransactionView) []models.TransactionView {
		next := make([]models.TransactionView, 0, len(old)+1)
		for _, t := range old {
			if t.ID != item.ID {
				next = append(next, t)
			}
		}
		return append(next, cloneView(item))
	})
	if updated {
		slog.Debug("Transaction cache item upserted", "user_id", userID, "transaction_id", item.ID)
	}
}

// RemoveItem drops one projection from userID's cached list.
func (c *TransactionCache) RemoveItem(userID, transactionID string) {
	updated := c.lru.Update(userID, func(old []models.TransactionView) []models.TransactionView {
		return slices.DeleteFunc(slices.Clone(old), func(t models.TransactionView) bool {
			return t.ID == transactionID
		})
	})
	if updated {
		slog.Debug("Transaction cache item removed", "user_id", userID, "transaction_id", transactionID)
	}
}

// Invalidate drops userID's entry whether or not it is present.
func (c *TransactionCache) Invalidate(userID string) {
	c.lru.Remove(userID)
	c.metrics.SetCacheEntries(c.lru.Len())
	slog.Debug("Transaction cache cleared for user", "user_id", userID)
}

// Clear drops every entry.
func (c *TransactionCache) Clear() {
	c.lru.Clear()
	c.metrics.SetCacheEntries(0)
	slog.Info("Transaction cache cleared")
}

// Len returns the number of cached users.
func (c *TransactionCache) Len() int {
	return c.lru.Len()
}

// Users returns the cached user IDs from most to least recently used.
func (c *TransactionCache) Users() []string {
	return c.lru.Keys()
}

// cloneViews copies list and the tag slice of every item.
func cloneViews(list []models.TransactionView) []models.TransactionView {
	out := make([]models.TransactionView, len(list))
	for i, v := range list {
		out[i] = cloneView(v)
	}
	return out
}

func cloneView(v models.TransactionView) models.TransactionView {
	v.Tags = slices.Clone(v.Tags)
	return v
}
