package models

// Tag is a user-scoped label that can be attached to many transactions.
type Tag struct {
	// ID is the unique identifier for the tag (UUID format).
	ID string

	// UserID is the owning user.
	UserID string

	// Title is the label text, 3 to 15 characters.
	Title string
}

// TagView is the read-facing representation of a tag.
type TagView struct {
	ID     string
	Title  string
	UserID string
}

// View returns the projection of the tag.
func (t Tag) View() TagView {
	return TagView{ID: t.ID, Title: t.Title, UserID: t.UserID}
}
