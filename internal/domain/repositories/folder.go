package repositories

import (
	"context"

	"linkhive/internal/domain/models"
)

// FolderRepository defines data access operations for folders.
// Every query is owner-scoped; repositories participate in an open
// transaction automatically when one is carried in the context.
type FolderRepository interface {
	// Create creates a new folder
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder by ID, scoped to its owner
	GetByID(ctx context.Context, id, ownerID string) (*models.Folder, error)

	// GetByIDOnly retrieves a folder by ID without owner scoping.
	// Used by the authorizer, which compares ownership itself.
	GetByIDOnly(ctx context.Context, id string) (*models.Folder, error)

	// Update updates a folder
	Update(ctx context.Context, folder *models.Folder) error

	// Delete deletes a folder row (no cascade; the service orders deletes)
	Delete(ctx context.Context, id, ownerID string) error

	// ListChildren lists immediate child folders, sorted by (order, name)
	ListChildren(ctx context.Context, parentID *string, ownerID string) ([]models.Folder, error)

	// GetAllByOwner retrieves all of an owner's folders as a flat list.
	// Tree walks run over this set, which also bounds them.
	GetAllByOwner(ctx context.Context, ownerID string) ([]models.Folder, error)

	// SetBookmarkCount persists a recomputed cached bookmark count
	SetBookmarkCount(ctx context.Context, id string, count int) error
}
