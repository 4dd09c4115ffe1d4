package services

import (
	"context"

	"linkhive/internal/domain/models"
	"linkhive/internal/httputil"
)

// FolderService owns the folder hierarchy: it enforces the no-cycle and
// same-owner invariants, computes derived views (tree, path, descendants),
// and executes the transactional cascade delete.
type FolderService interface {
	// CreateFolder creates a new folder for the owner
	CreateFolder(ctx context.Context, ownerID string, req *CreateFolderRequest) (*models.Folder, error)

	// GetFolder retrieves a folder the owner can access
	GetFolder(ctx context.Context, ownerID, folderID string) (*models.Folder, error)

	// UpdateFolder updates a folder (rename, restyle, or move). A parent
	// change re-runs cycle prevention against the new candidate parent.
	UpdateFolder(ctx context.Context, ownerID, folderID string, req *UpdateFolderRequest) (*models.Folder, error)

	// DeleteFolder deletes the folder and all descendant folders inside a
	// single transaction, reparenting each folder's bookmarks to that
	// folder's own parent before the folder row goes away. Bookmarks are
	// never deleted.
	DeleteFolder(ctx context.Context, ownerID, folderID string) error

	// GetFolderTree returns the owner's folders as a nested forest
	GetFolderTree(ctx context.Context, ownerID string) (*models.FolderForest, error)

	// GetPath returns the ancestry of a folder, root first
	GetPath(ctx context.Context, ownerID, folderID string) ([]models.PathEntry, error)

	// GetDescendantIDs returns the folder's id plus all transitive
	// children ids; order is unspecified
	GetDescendantIDs(ctx context.Context, ownerID, folderID string) ([]string, error)

	// SyncBookmarkCount recomputes and persists the folder's cached
	// bookmark count. The cache is eventually consistent; this is the
	// explicit sync point.
	SyncBookmarkCount(ctx context.Context, ownerID, folderID string) (int, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	ParentID    *string `json:"parent_id,omitempty"` // nil = top level
	Color       string  `json:"color,omitempty"`     // hex or palette preset name
	Icon        string  `json:"icon,omitempty"`
	Order       int     `json:"order,omitempty"`
}

// UpdateFolderRequest represents a folder update request. ParentID is
// tri-state: absent = keep, null = move to top level, id = move under it.
type UpdateFolderRequest struct {
	Name        *string                 `json:"name,omitempty"`
	Description *string                 `json:"description,omitempty"`
	ParentID    httputil.OptionalString `json:"parent_id,omitempty"`
	Color       *string                 `json:"color,omitempty"`
	Icon        *string                 `json:"icon,omitempty"`
	Order       *int                    `json:"order,omitempty"`
}
