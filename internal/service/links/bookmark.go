package links

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"linkhive/internal/config"
	"linkhive/internal/domain"
	"linkhive/internal/domain/models"
	"linkhive/internal/domain/repositories"
	"linkhive/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type bookmarkService struct {
	bookmarkRepo repositories.BookmarkRepository
	authorizer   services.ResourceAuthorizer
	logger       *slog.Logger
}

// NewBookmarkService creates a new bookmark service
func NewBookmarkService(
	bookmarkRepo repositories.BookmarkRepository,
	authorizer services.ResourceAuthorizer,
	logger *slog.Logger,
) services.BookmarkService {
	return &bookmarkService{
		bookmarkRepo: bookmarkRepo,
		authorizer:   authorizer,
		logger:       logger,
	}
}

// CreateBookmark creates a bookmark owned by the caller
func (s *bookmarkService) CreateBookmark(ctx context.Context, ownerID string, req *services.CreateBookmarkRequest) (*models.Bookmark, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if req.FolderID != nil && *req.FolderID == "" {
		req.FolderID = nil
	}
	if req.FolderID != nil {
		if err := s.authorizer.CanAccessFolder(ctx, ownerID, *req.FolderID); err != nil {
			return nil, err
		}
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = models.VisibilityPrivate
	}
	if !visibility.Valid() {
		return nil, fmt.Errorf("%w: invalid visibility %q", domain.ErrValidation, visibility)
	}

	now := time.Now()
	bookmark := &models.Bookmark{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		FolderID:    req.FolderID,
		URL:         req.URL,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		Favicon:     req.Favicon,
		Visibility:  visibility,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if bookmark.Tags == nil {
		bookmark.Tags = []string{}
	}
	bookmark.SharedWith = []string{}
	if len(req.SharedWith) > 0 {
		bookmark.AddSharedWith(req.SharedWith)
	}

	if err := s.bookmarkRepo.Create(ctx, bookmark); err != nil {
		return nil, err
	}

	s.logger.Info("bookmark created",
		"id", bookmark.ID,
		"url", bookmark.URL,
		"owner_id", ownerID,
		"folder_id", bookmark.FolderID,
	)

	return bookmark, nil
}

// GetBookmark retrieves a bookmark the caller owns
func (s *bookmarkService) GetBookmark(ctx context.Context, ownerID, bookmarkID string) (*models.Bookmark, error) {
	if err := s.authorizer.CanAccessBookmark(ctx, ownerID, bookmarkID); err != nil {
		return nil, err
	}
	return s.bookmarkRepo.GetByIDOnly(ctx, bookmarkID)
}

// UpdateBookmark updates a bookmark's fields
func (s *bookmarkService) UpdateBookmark(ctx context.Context, ownerID, bookmarkID string, req *services.UpdateBookmarkRequest) (*models.Bookmark, error) {
	if err := s.authorizer.CanAccessBookmark(ctx, ownerID, bookmarkID); err != nil {
		return nil, err
	}

	bookmark, err := s.bookmarkRepo.GetByID(ctx, bookmarkID, ownerID)
	if err != nil {
		return nil, err
	}

	if req.URL != nil {
		if *req.URL == "" {
			return nil, fmt.Errorf("%w: url cannot be empty", domain.ErrValidation)
		}
		bookmark.URL = *req.URL
	}
	if req.Title != nil {
		if *req.Title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrValidation)
		}
		bookmark.Title = *req.Title
	}
	if req.Description != nil {
		bookmark.Description = *req.Description
	}
	if req.Tags != nil {
		bookmark.Tags = req.Tags
	}
	if req.Favicon != nil {
		bookmark.Favicon = *req.Favicon
	}
	if req.Visibility != nil {
		if !req.Visibility.Valid() {
			return nil, fmt.Errorf("%w: invalid visibility %q", domain.ErrValidation, *req.Visibility)
		}
		bookmark.Visibility = *req.Visibility
	}
	if req.SharedWith != nil {
		bookmark.SharedWith = nil
		bookmark.AddSharedWith(req.SharedWith)
	}

	// Tri-state: only touch the folder if the field was in the request
	if req.FolderID.Present {
		newFolder := req.FolderID.Value
		if newFolder != nil && *newFolder == "" {
			newFolder = nil
		}
		if newFolder != nil {
			if err := s.authorizer.CanAccessFolder(ctx, ownerID, *newFolder); err != nil {
				return nil, err
			}
		}
		bookmark.FolderID = newFolder
	}

	bookmark.UpdatedAt = time.Now()

	if err := s.bookmarkRepo.Update(ctx, bookmark); err != nil {
		return nil, err
	}

	return bookmark, nil
}

// DeleteBookmark deletes a bookmark
func (s *bookmarkService) DeleteBookmark(ctx context.Context, ownerID, bookmarkID string) error {
	if err := s.authorizer.CanAccessBookmark(ctx, ownerID, bookmarkID); err != nil {
		return err
	}

	if err := s.bookmarkRepo.Delete(ctx, bookmarkID, ownerID); err != nil {
		return err
	}

	s.logger.Info("bookmark deleted", "id", bookmarkID, "owner_id", ownerID)
	return nil
}

// ListBookmarks lists the caller's bookmarks in a folder
func (s *bookmarkService) ListBookmarks(ctx context.Context, ownerID string, folderID *string) ([]models.Bookmark, error) {
	if folderID != nil {
		if err := s.authorizer.CanAccessFolder(ctx, ownerID, *folderID); err != nil {
			return nil, err
		}
	}
	return s.bookmarkRepo.ListByFolder(ctx, folderID, ownerID)
}

// ShareBookmark unions user ids into the bookmark's shared-with set.
// Visibility is deliberately left alone: making the bookmark "selected"
// is a separate, explicit call.
func (s *bookmarkService) ShareBookmark(ctx context.Context, ownerID, bookmarkID string, userIDs []string) (*models.Bookmark, error) {
	if len(userIDs) == 0 {
		return nil, fmt.Errorf("%w: no user ids to share with", domain.ErrValidation)
	}

	if err := s.authorizer.CanAccessBookmark(ctx, ownerID, bookmarkID); err != nil {
		return nil, err
	}

	bookmark, err := s.bookmarkRepo.GetByID(ctx, bookmarkID, ownerID)
	if err != nil {
		return nil, err
	}

	bookmark.AddSharedWith(userIDs)
	bookmark.UpdatedAt = time.Now()

	if err := s.bookmarkRepo.Update(ctx, bookmark); err != nil {
		return nil, err
	}

	return bookmark, nil
}

// validateCreateRequest validates a bookmark creation request
func (s *bookmarkService) validateCreateRequest(req *services.CreateBookmarkRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.URL,
			validation.Required,
			validation.Length(1, config.MaxBookmarkURLLength),
			is.URL,
		),
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxBookmarkTitleLength),
		),
	)
}
