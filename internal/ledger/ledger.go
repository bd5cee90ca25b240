// Package ledger implements the bookkeeping workflows over users, bills,
// transactions and tags.
//
// Every mutating workflow loads, validates, mutates and persists inside one
// store transaction (storage.Store.InTx). The per-user transaction cache is
// touched only after that transaction has committed, so the cache is never
// ahead of the store. Reads of a user's transaction list go through the
// cache and populate it on a miss.
package ledger

import (
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/mmynk/financery/internal/cache"
	"github.com/mmynk/financery/internal/models"
	"github.com/mmynk/financery/internal/storage"
)

const (
	minTagTitle = 3
	maxTagTitle = 15
)

// Service orchestrates the store, the balance calculator and the
// transaction cache.
type Service struct {
	store storage.Store
	cache *cache.TransactionCache
}

// New creates a Service. The cache must be shared by every writer of the store.
func New(store storage.Store, c *cache.TransactionCache) *Service {
	return &Service{store: store, cache: c}
}

// ClearCache drops every cached transaction list.
func (s *Service) ClearCache() {
	s.cache.Clear()
}

// ClearCacheForUser drops the cached transaction list of one user.
func (s *Service) ClearCacheForUser(userID string) {
	s.cache.Invalidate(userID)
}

// CachedUsers returns the user IDs currently cached, most recently used first.
func (s *Service) CachedUsers() []string {
	return s.cache.Users()
}

func validateID(kind, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return invalid("malformed %s id %q", kind, id)
	}
	return nil
}

func validateAmount(amount float64) error {
	// NaN fails every comparison, so test the accepted range.
	if !(amount >= 0 && amount <= models.MaxTransactionAmount) {
		return invalid("amount %.2f must be between 0 and %d", amount, models.MaxTransactionAmount)
	}
	return nil
}

func validateName(field, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("%s must not be blank", field)
	}
	return name, nil
}

func validateTagTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if n := utf8.RuneCountInString(title); n < minTagTitle || n > maxTagTitle {
		return "", invalid("tag title %q must be %d to %d characters", title, minTagTitle, maxTagTitle)
	}
	return title, nil
}

// normalizeDate keeps only the calendar day.
func normalizeDate(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func views(txns []models.Transaction) []models.TransactionView {
	out := make([]models.TransactionView, len(txns))
	for i := range txns {
		out[i] = txns[i].View()
	}
	return out
}

// failed logs err and returns it. Rejected requests log at warn, store
// failures at error.
func failed(op string, err error) error {
	if IsNotFound(err) || IsInvalidInput(err) || IsAlreadyExists(err) || IsConflict(err) {
		slog.Warn(op+" rejected", "error", err)
	} else {
		slog.Error(op+" failed", "error", err)
	}
	return err
}
