package ledger

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/mmynk/financery/internal/models"
	"github.com/mmynk/financery/internal/storage"
)

// TagInput names the owner and title of a tag.
type TagInput struct {
	UserID string
	Title  string
}

// CreateTag creates a tag for the user.
func (s *Service) CreateTag(ctx context.Context, in TagInput) (models.TagView, error) {
	if err := validateID("user", in.UserID); err != nil {
		return models.TagView{}, failed("CreateTag", err)
	}
	title, err := validateTagTitle(in.Title)
	if err != nil {
		return models.TagView{}, failed("CreateTag", err)
	}

	tag := &models.Tag{ID: uuid.NewString(), UserID: in.UserID, Title: title}
	err = s.store.InTx(ctx, func(tx storage.Store) error {
		if _, err := tx.GetUser(ctx, in.UserID); err != nil {
			return lookupErr(err, "user", in.UserID)
		}
		return tx.CreateTag(ctx, tag)
	})
	if err != nil {
		return models.TagView{}, failed("CreateTag", err)
	}

	slog.Info("Tag created", "tag_id", tag.ID, "user_id", tag.UserID)
	return tag.View(), nil
}

// CreateTags creates tags in bulk. Every referenced user must exist.
// Entries whose title is shorter than the minimum are skipped.
func (s *Service) CreateTags(ctx context.Context, in []TagInput) ([]models.TagView, error) {
	var (
		tags    []models.Tag
		userIDs []string
		seen    = make(map[string]bool)
	)
	for _, entry := range in {
		if err := validateID("user", entry.UserID); err != nil {
			return nil, failed("CreateTags", err)
		}
		if !seen[entry.UserID] {
			seen[entry.UserID] = true
			userIDs = append(userIDs, entry.UserID)
		}

		title, err := validateTagTitle(entry.Title)
		if err != nil {
			if utf8.RuneCountInString(strings.TrimSpace(entry.Title)) < minTagTitle {
				slog.Debug("Skipping short tag title", "user_id", entry.UserID, "title", entry.Title)
				continue
			}
			return nil, failed("CreateTags", err)
		}
		tags = append(tags, models.Tag{ID: uuid.NewString(), UserID: entry.UserID, Title: title})
	}

	err := s.store.InTx(ctx, func(tx storage.Store) error {
		for _, userID := range userIDs {
			if _, err := tx.GetUser(ctx, userID); err != nil {
				return lookupErr(err, "user", userID)
			}
		}
		for i := range tags {
			if err := tx.CreateTag(ctx, &tags[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, failed("CreateTags", err)
	}

	out := make([]models.TagView, len(tags))
	for i, tag := range tags {
		out[i] = tag.View()
	}
	slog.Info("Tags created", "requested", len(in), "created", len(out))
	return out, nil
}

// GetTag returns one tag.
func (s *Service) GetTag(ctx context.Context, tagID string) (models.TagView, error) {
	if err := validateID("tag", tagID); err != nil {
		return models.TagView{}, failed("GetTag", err)
	}
	tag, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		return models.TagView{}, failed("GetTag", lookupErr(err, "tag", tagID))
	}
	return tag.View(), nil
}

// ListTagsForUser returns the user's tags ordered by title.
func (s *Service) ListTagsForUser(ctx context.Context, userID string) ([]models.TagView, error) {
	if err := validateID("user", userID); err != nil {
		return nil, failed("ListTagsForUser", err)
	}

	var out []models.TagView
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		if _, err := tx.GetUser(ctx, userID); err != nil {
			return lookupErr(err, "user", userID)
		}
		tags, err := tx.ListTagsByUser(ctx, userID)
		if err != nil {
			return err
		}
		out = make([]models.TagView, len(tags))
		for i, tag := range tags {
			out[i] = tag.View()
		}
		return nil
	})
	if err != nil {
		return nil, failed("ListTagsForUser", err)
	}
	return out, nil
}

// ListTransactionsForTag returns the transactions linked to the tag.
func (s *Service) ListTransactionsForTag(ctx context.Context, tagID string) ([]models.TransactionView, error) {
	if err := validateID("tag", tagID); err != nil {
		return nil, failed("ListTransactionsForTag", err)
	}

	var list []models.TransactionView
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		if _, err := tx.GetTag(ctx, tagID); err != nil {
			return lookupErr(err, "tag", tagID)
		}
		txns, err := tx.ListTransactionsByTag(ctx, tagID)
		if err != nil {
			return err
		}
		list = views(txns)
		return nil
	})
	if err != nil {
		return nil, failed("ListTransactionsForTag", err)
	}
	return list, nil
}

// UpdateTag renames a tag. Every transaction linked to it is read back and
// refreshed in its owner's cached list.
func (s *Service) UpdateTag(ctx context.Context, tagID string, in TagInput) (models.TagView, error) {
	if err := validateID("tag", tagID); err != nil {
		return models.TagView{}, failed("UpdateTag", err)
	}

	var (
		tag      *models.Tag
		affected []models.TransactionView
	)
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		var err error
		if tag, err = tx.GetTag(ctx, tagID); err != nil {
			return lookupErr(err, "tag", tagID)
		}
		if tag.UserID != in.UserID {
			return invalid("tag %s does not belong to user %s", tagID, in.UserID)
		}
		title, err := validateTagTitle(in.Title)
		if err != nil {
			return err
		}

		tag.Title = title
		if err := tx.UpdateTag(ctx, tag); err != nil {
			return err
		}

		txns, err := tx.ListTransactionsByTag(ctx, tagID)
		if err != nil {
			return err
		}
		affected = views(txns)
		return nil
	})
	if err != nil {
		return models.TagView{}, failed("UpdateTag", err)
	}

	for _, view := range affected {
		s.cache.UpsertItem(view.UserID, view)
	}
	slog.Info("Tag updated", "tag_id", tag.ID, "transactions", len(affected))
	return tag.View(), nil
}

// DeleteTag unlinks the tag from every transaction, saves them as one batch
// and removes the tag.
func (s *Service) DeleteTag(ctx context.Context, tagID string) error {
	if err := validateID("tag", tagID); err != nil {
		return failed("DeleteTag", err)
	}

	var affected []models.TransactionView
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		if _, err := tx.GetTag(ctx, tagID); err != nil {
			return lookupErr(err, "tag", tagID)
		}

		txns, err := tx.ListTransactionsByTag(ctx, tagID)
		if err != nil {
			return err
		}
		for i := range txns {
			txns[i].RemoveTag(tagID)
		}
		if err := tx.SaveTransactions(ctx, txns); err != nil {
			return err
		}
		if err := tx.DeleteTag(ctx, tagID); err != nil {
			return err
		}
		affected = views(txns)
		return nil
	})
	if err != nil {
		return failed("DeleteTag", err)
	}

	for _, view := range affected {
		s.cache.UpsertItem(view.UserID, view)
	}
	slog.Info("Tag deleted", "tag_id", tagID, "transactions", len(affected))
	return nil
}
