package services

import "context"

// ResourceAuthorizer answers "is this caller the owner" for a resource.
// Services call it as a precondition; they never derive ownership
// themselves.
type ResourceAuthorizer interface {
	// CanAccessFolder returns nil if the user owns the folder,
	// ErrForbidden if not, ErrNotFound if the folder does not exist.
	CanAccessFolder(ctx context.Context, userID, folderID string) error

	// CanAccessBookmark returns nil if the user owns the bookmark,
	// ErrForbidden if not, ErrNotFound if the bookmark does not exist.
	CanAccessBookmark(ctx context.Context, userID, bookmarkID string) error
}
