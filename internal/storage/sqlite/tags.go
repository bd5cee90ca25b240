package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/financery/internal/models"
	"github.com/mmynk/financery/internal/storage"
)

// CreateTag inserts a new tag into the database.
func (s *SQLiteStore) CreateTag(ctx context.Context, tag *models.Tag) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO tags (id, user_id, title) VALUES (?, ?, ?)`,
		tag.ID, tag.UserID, tag.Title,
	)
	if err != nil {
		return fmt.Errorf("failed to create tag: %w", err)
	}
	return nil
}

// GetTag retrieves a tag by ID.
func (s *SQLiteStore) GetTag(ctx context.Context, tagID string) (*models.Tag, error) {
	tag := &models.Tag{}
	err := s.q.QueryRowContext(ctx,
		`SELECT id, user_id, title FROM tags WHERE id = ?`, tagID,
	).Scan(&tag.ID, &tag.UserID, &tag.Title)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}

	return tag, nil
}

// GetTagsByIDs retrieves the tags that exist among ids.
// Tags that don't exist are omitted from the result.
func (s *SQLiteStore) GetTagsByIDs(ctx context.Context, ids []string) ([]models.Tag, error) {
	if len(ids) == 0 {
		return []models.Tag{}, nil
	}

	query := `
		SELECT id, user_id, title
		FROM tags
		WHERE id IN (` + placeholders(len(ids)) + `)
		ORDER BY title, id
	`
	return s.listTags(ctx, query, stringArgs(ids)...)
}

// ListTagsByUser returns the user's tags ordered by title.
func (s *SQLiteStore) ListTagsByUser(ctx context.Context, userID string) ([]models.Tag, error) {
	query := `
		SELECT id, user_id, title
		FROM tags
		WHERE user_id = ?
		ORDER BY title, id
	`
	return s.listTags(ctx, query, userID)
}

func (s *SQLiteStore) listTags(ctx context.Context, query string, args ...any) ([]models.Tag, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.UserID, &tag.Title); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}

	return tags, nil
}

// UpdateTag saves the tag's title.
func (s *SQLiteStore) UpdateTag(ctx context.Context, tag *models.Tag) error {
	if err := s.execOne(ctx, `UPDATE tags SET title = ? WHERE id = ?`, tag.Title, tag.ID); err != nil {
		return fmt.Errorf("failed to update tag: %w", err)
	}
	return nil
}

// DeleteTag removes the tag. Links to it go through ON DELETE CASCADE.
func (s *SQLiteStore) DeleteTag(ctx context.Context, tagID string) error {
	if err := s.execOne(ctx, `DELETE FROM tags WHERE id = ?`, tagID); err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	return nil
}
