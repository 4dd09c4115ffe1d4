package links

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"linkhive/internal/config"
	"linkhive/internal/domain"
	"linkhive/internal/domain/models"
	"linkhive/internal/domain/repositories"
	"linkhive/internal/domain/services"
)

// importService turns parsed import records into stored folders and
// bookmarks. A bad record is reported and skipped, never fatal: an
// export with one mangled entry still imports the rest.
type importService struct {
	folderRepo   repositories.FolderRepository
	bookmarkRepo repositories.BookmarkRepository
	logger       *slog.Logger
}

// NewImportService creates a new import service
func NewImportService(folderRepo repositories.FolderRepository, bookmarkRepo repositories.BookmarkRepository, logger *slog.Logger) services.ImportService {
	return &importService{
		folderRepo:   folderRepo,
		bookmarkRepo: bookmarkRepo,
		logger:       logger,
	}
}

// Import stores the records for the given owner. Folders are created
// first, in record order, so a child's parent is already mapped when the
// child arrives; bookmark records then resolve their folder through the
// same map. A folder or bookmark that references an unknown local parent
// lands at the top level rather than failing.
func (s *importService) Import(ctx context.Context, ownerID string, records []models.ImportRecord) (*models.ImportResult, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: nothing to import", domain.ErrValidation)
	}

	result := &models.ImportResult{Errors: []models.ImportError{}}
	idByLocal := make(map[string]string)

	for _, rec := range records {
		if rec.Type != models.ImportRecordFolder {
			continue
		}

		name := strings.TrimSpace(rec.Name)
		if name == "" {
			result.Failed++
			result.Errors = append(result.Errors, models.ImportError{LocalID: rec.LocalID, Reason: "folder name is empty"})
			continue
		}
		if len(name) > config.MaxFolderNameLength {
			name = name[:config.MaxFolderNameLength]
		}

		now := time.Now()
		folder := &models.Folder{
			ID:          uuid.NewString(),
			OwnerID:     ownerID,
			ParentID:    s.resolveLocalParent(idByLocal, rec.ParentLocalID),
			Name:        name,
			Description: rec.Description,
			Color:       models.DefaultFolderColor,
			Icon:        models.DefaultFolderIcon,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := s.folderRepo.Create(ctx, folder); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, models.ImportError{LocalID: rec.LocalID, Reason: err.Error()})
			continue
		}

		idByLocal[rec.LocalID] = folder.ID
		result.FoldersCreated++
	}

	for _, rec := range records {
		if rec.Type != models.ImportRecordBookmark {
			continue
		}

		url := strings.TrimSpace(rec.URL)
		if url == "" {
			result.Failed++
			result.Errors = append(result.Errors, models.ImportError{LocalID: rec.LocalID, Reason: "bookmark url is empty"})
			continue
		}

		title := strings.TrimSpace(rec.Title)
		if title == "" {
			title = url
		}
		if len(title) > config.MaxBookmarkTitleLength {
			title = title[:config.MaxBookmarkTitleLength]
		}

		tags := rec.Tags
		if tags == nil {
			tags = []string{}
		}

		now := time.Now()
		bookmark := &models.Bookmark{
			ID:          uuid.NewString(),
			OwnerID:     ownerID,
			FolderID:    s.resolveLocalParent(idByLocal, rec.ParentLocalID),
			URL:         url,
			Title:       title,
			Description: rec.Description,
			Favicon:     rec.Favicon,
			Tags:        tags,
			Visibility:  models.VisibilityPrivate,
			SharedWith:  []string{},
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := s.bookmarkRepo.Create(ctx, bookmark); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, models.ImportError{LocalID: rec.LocalID, Reason: err.Error()})
			continue
		}

		result.BookmarksCreated++
	}

	s.logger.Info("import finished",
		"owner_id", ownerID,
		"folders_created", result.FoldersCreated,
		"bookmarks_created", result.BookmarksCreated,
		"failed", result.Failed,
	)

	return result, nil
}

// resolveLocalParent maps an import-local parent id to a stored folder
// id, or nil for top level
func (s *importService) resolveLocalParent(idByLocal map[string]string, parentLocalID *string) *string {
	if parentLocalID == nil {
		return nil
	}
	id, ok := idByLocal[*parentLocalID]
	if !ok {
		return nil
	}
	return &id
}
