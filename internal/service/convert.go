package service

import (
	"github.com/mmynk/financery/internal/calculator"
	"github.com/mmynk/financery/internal/models"
	"github.com/mmynk/financery/pkg/api"
)

func toAPIUser(u *models.User) api.User {
	return api.User{ID: u.ID, Name: u.Name, Email: u.Email, Balance: u.Balance}
}

func toAPIBill(b *models.Bill) api.Bill {
	return api.Bill{ID: b.ID, UserID: b.UserID, Name: b.Name, Balance: b.Balance}
}

func toAPITag(t models.TagView) api.Tag {
	return api.Tag{ID: t.ID, Title: t.Title, UserID: t.UserID}
}

func toAPITags(tags []models.TagView) []api.Tag {
	out := make([]api.Tag, len(tags))
	for i, t := range tags {
		out[i] = toAPITag(t)
	}
	return out
}

func toAPITransaction(t models.TransactionView) api.Transaction {
	return api.Transaction{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Income:      t.Income,
		Amount:      t.Amount,
		Date:        api.FormatDate(t.Date),
		UserID:      t.UserID,
		BillID:      t.BillID,
		Tags:        toAPITags(t.Tags),
	}
}

func toAPITransactions(list []models.TransactionView) []api.Transaction {
	out := make([]api.Transaction, len(list))
	for i, t := range list {
		out[i] = toAPITransaction(t)
	}
	return out
}

func toAPISummary(s calculator.Summary) api.Summary {
	byTag := make([]api.TagTotals, len(s.ByTag))
	for i, t := range s.ByTag {
		byTag[i] = api.TagTotals{TagID: t.TagID, Title: t.Title, Income: t.Income, Expense: t.Expense}
	}
	return api.Summary{
		Income:  s.Income,
		Expense: s.Expense,
		Net:     s.Net,
		Count:   s.Count,
		ByTag:   byTag,
	}
}
