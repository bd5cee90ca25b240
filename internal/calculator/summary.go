package calculator

import (
	"sort"

	"github.com/mmynk/financery/internal/models"
)

// TagTotals is the income and expense attributed to one tag.
type TagTotals struct {
	TagID   string
	Title   string
	Income  float64
	Expense float64
}

// Summary aggregates a list of transactions.
type Summary struct {
	Income  float64 // Sum of income amounts
	Expense float64 // Sum of expense amounts (positive)
	Net     float64 // Income - Expense
	Count   int
	ByTag   []TagTotals // Sorted by title, then ID
}

// Summarize totals income and expense across transactions and per tag.
// A transaction with several tags counts fully toward each of them;
// untagged transactions only contribute to the overall totals.
func Summarize(transactions []models.TransactionView) Summary {
	var s Summary
	byTag := make(map[string]*TagTotals)

	for _, t := range transactions {
		s.Count++
		if t.Income {
			s.Income += t.Amount
		} else {
			s.Expense += t.Amount
		}

		for _, tag := range t.Tags {
			totals, exists := byTag[tag.ID]
			if !exists {
				totals = &TagTotals{TagID: tag.ID, Title: tag.Title}
				byTag[tag.ID] = totals
			}
			if t.Income {
				totals.Income += t.Amount
			} else {
				totals.Expense += t.Amount
			}
		}
	}
	s.Net = s.Income - s.Expense

	s.ByTag = make([]TagTotals, 0, len(byTag))
	for _, totals := range byTag {
		s.ByTag = append(s.ByTag, *totals)
	}
	sort.Slice(s.ByTag, func(i, j int) bool {
		if s.ByTag[i].Title != s.ByTag[j].Title {
			return s.ByTag[i].Title < s.ByTag[j].Title
		}
		return s.ByTag[i].TagID < s.ByTag[j].TagID
	})

	return s
}

// NetBalance returns the sum of signed effects of the given transactions.
// For a bill opened at zero it equals the bill balance.
func NetBalance(transactions []models.TransactionView) float64 {
	var net float64
	for _, t := range transactions {
		net += Effect(t.Income, t.Amount)
	}
	return net
}
