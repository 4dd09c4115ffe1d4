package models

import (
	"time"
)

// Visibility controls who can see a bookmark besides its owner.
type Visibility string

const (
	VisibilityPrivate  Visibility = "private"
	VisibilitySelected Visibility = "selected"
	VisibilityPublic   Visibility = "public"
)

// Valid reports whether v is one of the known visibility values.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPrivate, VisibilitySelected, VisibilityPublic:
		return true
	}
	return false
}

// Bookmark is a saved URL with metadata. FolderID is nil for bookmarks
// outside any folder. SharedWith only carries meaning when Visibility is
// "selected"; it is kept deduplicated by AddSharedWith.
type Bookmark struct {
	ID          string     `json:"id" db:"id"`
	OwnerID     string     `json:"owner_id" db:"owner_id"`
	FolderID    *string    `json:"folder_id" db:"folder_id"` // NULL = no folder
	URL         string     `json:"url" db:"url"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description,omitempty" db:"description"`
	Tags        []string   `json:"tags" db:"tags"`
	Favicon     string     `json:"favicon,omitempty" db:"favicon"`
	Visibility  Visibility `json:"visibility" db:"visibility"`
	SharedWith  []string   `json:"shared_with" db:"shared_with"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// AddSharedWith unions userIDs into SharedWith with set semantics:
// existing entries keep their position, duplicates are dropped.
func (b *Bookmark) AddSharedWith(userIDs []string) {
	seen := make(map[string]bool, len(b.SharedWith)+len(userIDs))
	deduped := make([]string, 0, len(b.SharedWith)+len(userIDs))
	for _, id := range b.SharedWith {
		if !seen[id] {
			seen[id] = true
			deduped = append(deduped, id)
		}
	}
	for _, id := range userIDs {
		if !seen[id] {
			seen[id] = true
			deduped = append(deduped, id)
		}
	}
	b.SharedWith = deduped
}
