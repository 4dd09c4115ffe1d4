package services

import (
	"context"

	"linkhive/internal/domain/models"
	"linkhive/internal/httputil"
)

// BookmarkService handles single-bookmark business logic
type BookmarkService interface {
	// CreateBookmark creates a bookmark owned by the caller. Both the web
	// client and the browser extensions post through this shape.
	CreateBookmark(ctx context.Context, ownerID string, req *CreateBookmarkRequest) (*models.Bookmark, error)

	// GetBookmark retrieves a bookmark the caller owns
	GetBookmark(ctx context.Context, ownerID, bookmarkID string) (*models.Bookmark, error)

	// UpdateBookmark updates a bookmark's fields
	UpdateBookmark(ctx context.Context, ownerID, bookmarkID string, req *UpdateBookmarkRequest) (*models.Bookmark, error)

	// DeleteBookmark deletes a bookmark
	DeleteBookmark(ctx context.Context, ownerID, bookmarkID string) error

	// ListBookmarks lists the caller's bookmarks in a folder (nil = the
	// ones outside any folder)
	ListBookmarks(ctx context.Context, ownerID string, folderID *string) ([]models.Bookmark, error)

	// ShareBookmark unions user ids into the bookmark's shared-with set
	// without touching visibility
	ShareBookmark(ctx context.Context, ownerID, bookmarkID string, userIDs []string) (*models.Bookmark, error)
}

// CreateBookmarkRequest represents a bookmark creation request
type CreateBookmarkRequest struct {
	URL         string            `json:"url"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Favicon     string            `json:"favicon,omitempty"`
	FolderID    *string           `json:"folder_id,omitempty"`
	Visibility  models.Visibility `json:"visibility,omitempty"` // default private
	SharedWith  []string          `json:"shared_with,omitempty"`
}

// UpdateBookmarkRequest represents a bookmark update request. FolderID is
// tri-state: absent = keep, null = remove from folder, id = move into it.
type UpdateBookmarkRequest struct {
	URL         *string                 `json:"url,omitempty"`
	Title       *string                 `json:"title,omitempty"`
	Description *string                 `json:"description,omitempty"`
	Tags        []string                `json:"tags,omitempty"`
	Favicon     *string                 `json:"favicon,omitempty"`
	FolderID    httputil.OptionalString `json:"folder_id,omitempty"`
	Visibility  *models.Visibility      `json:"visibility,omitempty"`
	SharedWith  []string                `json:"shared_with,omitempty"`
}
