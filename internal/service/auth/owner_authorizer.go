package auth

import (
	"context"
	"fmt"

	"linkhive/internal/domain"
	"linkhive/internal/domain/repositories"
	"linkhive/internal/domain/services"
)

// OwnerBasedAuthorizer implements ResourceAuthorizer using ownership
// checks: a user can access a resource if they created it. This is the
// whole authorization model for direct mutation; shared visibility is a
// read-path concern handled elsewhere.
type OwnerBasedAuthorizer struct {
	folderRepo   repositories.FolderRepository
	bookmarkRepo repositories.BookmarkRepository
}

// NewOwnerBasedAuthorizer creates a new ownership-based authorizer
func NewOwnerBasedAuthorizer(
	folderRepo repositories.FolderRepository,
	bookmarkRepo repositories.BookmarkRepository,
) services.ResourceAuthorizer {
	return &OwnerBasedAuthorizer{
		folderRepo:   folderRepo,
		bookmarkRepo: bookmarkRepo,
	}
}

// CanAccessFolder checks if the user owns the folder
func (a *OwnerBasedAuthorizer) CanAccessFolder(ctx context.Context, userID, folderID string) error {
	folder, err := a.folderRepo.GetByIDOnly(ctx, folderID)
	if err != nil {
		return err
	}

	if folder.OwnerID != userID {
		return fmt.Errorf("access denied to folder %s: %w", folderID, domain.ErrForbidden)
	}
	return nil
}

// CanAccessBookmark checks if the user owns the bookmark
func (a *OwnerBasedAuthorizer) CanAccessBookmark(ctx context.Context, userID, bookmarkID string) error {
	bookmark, err := a.bookmarkRepo.GetByIDOnly(ctx, bookmarkID)
	if err != nil {
		return err
	}

	if bookmark.OwnerID != userID {
		return fmt.Errorf("access denied to bookmark %s: %w", bookmarkID, domain.ErrForbidden)
	}
	return nil
}
