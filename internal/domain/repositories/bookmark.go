package repositories

import (
	"context"

	"linkhive/internal/domain/models"
)

// BookmarkRepository defines data access operations for bookmarks
type BookmarkRepository interface {
	// Create creates a new bookmark
	Create(ctx context.Context, bookmark *models.Bookmark) error

	// GetByID retrieves a bookmark by ID, scoped to its owner
	GetByID(ctx context.Context, id, ownerID string) (*models.Bookmark, error)

	// GetByIDOnly retrieves a bookmark by ID without owner scoping.
	// The bulk engine uses this to enforce ownership per item.
	GetByIDOnly(ctx context.Context, id string) (*models.Bookmark, error)

	// Update updates a bookmark
	Update(ctx context.Context, bookmark *models.Bookmark) error

	// Delete deletes a bookmark
	Delete(ctx context.Context, id, ownerID string) error

	// ListByFolder lists bookmarks in a folder (nil = outside any folder)
	ListByFolder(ctx context.Context, folderID *string, ownerID string) ([]models.Bookmark, error)

	// CountByFolder counts bookmarks whose folder field equals folderID
	CountByFolder(ctx context.Context, folderID, ownerID string) (int, error)

	// Reparent moves every bookmark with folder == fromFolderID to
	// toFolderID (nil = no folder) in one bulk update. Returns the number
	// of bookmarks moved.
	Reparent(ctx context.Context, fromFolderID string, toFolderID *string, ownerID string) (int64, error)
}
