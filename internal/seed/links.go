// Package seed creates sample data for local development. It writes
// through the repositories, so a run doubles as a smoke test of the
// persistence layer.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"linkhive/internal/domain/models"
	"linkhive/internal/domain/repositories"
)

// LinkSeeder seeds a small folder tree with bookmarks for one user
type LinkSeeder struct {
	folderRepo   repositories.FolderRepository
	bookmarkRepo repositories.BookmarkRepository
	logger       *slog.Logger
}

// NewLinkSeeder creates a new seeder
func NewLinkSeeder(folderRepo repositories.FolderRepository, bookmarkRepo repositories.BookmarkRepository, logger *slog.Logger) *LinkSeeder {
	return &LinkSeeder{
		folderRepo:   folderRepo,
		bookmarkRepo: bookmarkRepo,
		logger:       logger,
	}
}

// Seed creates a three-level folder tree with a few bookmarks scattered
// through it:
//
//	Work
//	  └─ Projects
//	Reading
//
// plus one bookmark outside any folder.
func (s *LinkSeeder) Seed(ctx context.Context, ownerID string) error {
	work, err := s.folder(ctx, ownerID, nil, "Work", "#3B82F6", "briefcase", 0)
	if err != nil {
		return err
	}
	projects, err := s.folder(ctx, ownerID, &work.ID, "Projects", "#8B5CF6", "code", 0)
	if err != nil {
		return err
	}
	reading, err := s.folder(ctx, ownerID, nil, "Reading", "#F59E0B", "book", 1)
	if err != nil {
		return err
	}

	bookmarks := []struct {
		folder *models.Folder
		url    string
		title  string
		tags   []string
	}{
		{work, "https://pkg.go.dev", "Go Packages", []string{"go", "docs"}},
		{projects, "https://github.com", "GitHub", []string{"code"}},
		{projects, "https://go.dev/blog", "The Go Blog", []string{"go", "reading"}},
		{reading, "https://lobste.rs", "Lobsters", []string{"news"}},
		{nil, "https://news.ycombinator.com", "Hacker News", []string{"news"}},
	}

	for _, b := range bookmarks {
		var folderID *string
		if b.folder != nil {
			folderID = &b.folder.ID
		}
		if err := s.bookmark(ctx, ownerID, folderID, b.url, b.title, b.tags); err != nil {
			return err
		}
	}

	s.logger.Info("seed data created", "owner_id", ownerID, "folders", 3, "bookmarks", len(bookmarks))
	return nil
}

func (s *LinkSeeder) folder(ctx context.Context, ownerID string, parentID *string, name, color, icon string, order int) (*models.Folder, error) {
	now := time.Now()
	f := &models.Folder{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		ParentID:  parentID,
		Name:      name,
		Order:     order,
		Color:     color,
		Icon:      icon,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.folderRepo.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("seed folder %q: %w", name, err)
	}
	return f, nil
}

func (s *LinkSeeder) bookmark(ctx context.Context, ownerID string, folderID *string, url, title string, tags []string) error {
	now := time.Now()
	b := &models.Bookmark{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		FolderID:   folderID,
		URL:        url,
		Title:      title,
		Tags:       tags,
		Visibility: models.VisibilityPrivate,
		SharedWith: []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.bookmarkRepo.Create(ctx, b); err != nil {
		return fmt.Errorf("seed bookmark %q: %w", title, err)
	}
	return nil
}
