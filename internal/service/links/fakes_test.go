package links

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"linkhive/internal/domain"
	"linkhive/internal/domain/models"
	"linkhive/internal/domain/repositories"
	"linkhive/internal/domain/services"
)

// In-memory repositories backing the service tests. They mirror the
// owner-scoping of the SQL queries: a row that exists but belongs to
// someone else is indistinguishable from a missing row.

type fakeFolderRepo struct {
	folders map[string]*models.Folder
	// when set, Delete on this id fails, to exercise rollback paths
	failDeleteID string
}

func newFakeFolderRepo() *fakeFolderRepo {
	return &fakeFolderRepo{folders: make(map[string]*models.Folder)}
}

func (r *fakeFolderRepo) Create(ctx context.Context, folder *models.Folder) error {
	if _, exists := r.folders[folder.ID]; exists {
		return &domain.ConflictError{Message: "folder already exists", ResourceType: "folder", ResourceID: folder.ID}
	}
	cp := *folder
	r.folders[folder.ID] = &cp
	return nil
}

func (r *fakeFolderRepo) GetByID(ctx context.Context, id, ownerID string) (*models.Folder, error) {
	f, ok := r.folders[id]
	if !ok || f.OwnerID != ownerID {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFolderRepo) GetByIDOnly(ctx context.Context, id string) (*models.Folder, error) {
	f, ok := r.folders[id]
	if !ok {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFolderRepo) Update(ctx context.Context, folder *models.Folder) error {
	if _, ok := r.folders[folder.ID]; !ok {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}
	cp := *folder
	r.folders[folder.ID] = &cp
	return nil
}

func (r *fakeFolderRepo) Delete(ctx context.Context, id, ownerID string) error {
	if id == r.failDeleteID {
		return fmt.Errorf("simulated delete failure for %s", id)
	}
	f, ok := r.folders[id]
	if !ok || f.OwnerID != ownerID {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	delete(r.folders, id)
	return nil
}

func (r *fakeFolderRepo) ListChildren(ctx context.Context, parentID *string, ownerID string) ([]models.Folder, error) {
	var out []models.Folder
	for _, f := range r.folders {
		if f.OwnerID != ownerID {
			continue
		}
		if (parentID == nil) != (f.ParentID == nil) {
			continue
		}
		if parentID != nil && *f.ParentID != *parentID {
			continue
		}
		out = append(out, *f)
	}
	sortFolders(out)
	return out, nil
}

func (r *fakeFolderRepo) GetAllByOwner(ctx context.Context, ownerID string) ([]models.Folder, error) {
	var out []models.Folder
	for _, f := range r.folders {
		if f.OwnerID == ownerID {
			out = append(out, *f)
		}
	}
	sortFolders(out)
	return out, nil
}

func (r *fakeFolderRepo) SetBookmarkCount(ctx context.Context, id string, count int) error {
	f, ok := r.folders[id]
	if !ok {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	f.BookmarkCount = count
	return nil
}

func sortFolders(folders []models.Folder) {
	sort.Slice(folders, func(i, j int) bool {
		if folders[i].Order != folders[j].Order {
			return folders[i].Order < folders[j].Order
		}
		return folders[i].Name < folders[j].Name
	})
}

type fakeBookmarkRepo struct {
	bookmarks map[string]*models.Bookmark
	// ids whose Update fails, to exercise per-item failure reporting
	failUpdateIDs map[string]bool
}

func newFakeBookmarkRepo() *fakeBookmarkRepo {
	return &fakeBookmarkRepo{
		bookmarks:     make(map[string]*models.Bookmark),
		failUpdateIDs: make(map[string]bool),
	}
}

func (r *fakeBookmarkRepo) Create(ctx context.Context, bookmark *models.Bookmark) error {
	if _, exists := r.bookmarks[bookmark.ID]; exists {
		return &domain.ConflictError{Message: "bookmark already exists", ResourceType: "bookmark", ResourceID: bookmark.ID}
	}
	cp := *bookmark
	r.bookmarks[bookmark.ID] = &cp
	return nil
}

func (r *fakeBookmarkRepo) GetByID(ctx context.Context, id, ownerID string) (*models.Bookmark, error) {
	b, ok := r.bookmarks[id]
	if !ok || b.OwnerID != ownerID {
		return nil, fmt.Errorf("bookmark %s: %w", id, domain.ErrNotFound)
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookmarkRepo) GetByIDOnly(ctx context.Context, id string) (*models.Bookmark, error) {
	b, ok := r.bookmarks[id]
	if !ok {
		return nil, fmt.Errorf("bookmark %s: %w", id, domain.ErrNotFound)
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookmarkRepo) Update(ctx context.Context, bookmark *models.Bookmark) error {
	if r.failUpdateIDs[bookmark.ID] {
		return fmt.Errorf("simulated update failure for %s", bookmark.ID)
	}
	if _, ok := r.bookmarks[bookmark.ID]; !ok {
		return fmt.Errorf("bookmark %s: %w", bookmark.ID, domain.ErrNotFound)
	}
	cp := *bookmark
	r.bookmarks[bookmark.ID] = &cp
	return nil
}

func (r *fakeBookmarkRepo) Delete(ctx context.Context, id, ownerID string) error {
	b, ok := r.bookmarks[id]
	if !ok || b.OwnerID != ownerID {
		return fmt.Errorf("bookmark %s: %w", id, domain.ErrNotFound)
	}
	delete(r.bookmarks, id)
	return nil
}

func (r *fakeBookmarkRepo) ListByFolder(ctx context.Context, folderID *string, ownerID string) ([]models.Bookmark, error) {
	var out []models.Bookmark
	for _, b := range r.bookmarks {
		if b.OwnerID != ownerID {
			continue
		}
		if (folderID == nil) != (b.FolderID == nil) {
			continue
		}
		if folderID != nil && *b.FolderID != *folderID {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeBookmarkRepo) CountByFolder(ctx context.Context, folderID, ownerID string) (int, error) {
	n := 0
	for _, b := range r.bookmarks {
		if b.OwnerID == ownerID && b.FolderID != nil && *b.FolderID == folderID {
			n++
		}
	}
	return n, nil
}

func (r *fakeBookmarkRepo) Reparent(ctx context.Context, fromFolderID string, toFolderID *string, ownerID string) (int64, error) {
	var moved int64
	for _, b := range r.bookmarks {
		if b.OwnerID != ownerID || b.FolderID == nil || *b.FolderID != fromFolderID {
			continue
		}
		if toFolderID != nil {
			to := *toFolderID
			b.FolderID = &to
		} else {
			b.FolderID = nil
		}
		moved++
	}
	return moved, nil
}

// fakeTxManager snapshots both stores before running fn and restores
// them when fn fails, giving the fakes transactional semantics.
type fakeTxManager struct {
	folderRepo   *fakeFolderRepo
	bookmarkRepo *fakeBookmarkRepo
}

func (m *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	folderSnap := make(map[string]*models.Folder, len(m.folderRepo.folders))
	for id, f := range m.folderRepo.folders {
		cp := *f
		folderSnap[id] = &cp
	}
	bookmarkSnap := make(map[string]*models.Bookmark, len(m.bookmarkRepo.bookmarks))
	for id, b := range m.bookmarkRepo.bookmarks {
		cp := *b
		bookmarkSnap[id] = &cp
	}

	if err := fn(ctx); err != nil {
		m.folderRepo.folders = folderSnap
		m.bookmarkRepo.bookmarks = bookmarkSnap
		return err
	}
	return nil
}

// ownerAuthorizer enforces the same ownership rule the production
// authorizer does, directly against the fakes.
type ownerAuthorizer struct {
	folderRepo   repositories.FolderRepository
	bookmarkRepo repositories.BookmarkRepository
}

func (a *ownerAuthorizer) CanAccessFolder(ctx context.Context, userID, folderID string) error {
	f, err := a.folderRepo.GetByIDOnly(ctx, folderID)
	if err != nil {
		return err
	}
	if f.OwnerID != userID {
		return fmt.Errorf("access denied to folder %s: %w", folderID, domain.ErrForbidden)
	}
	return nil
}

func (a *ownerAuthorizer) CanAccessBookmark(ctx context.Context, userID, bookmarkID string) error {
	b, err := a.bookmarkRepo.GetByIDOnly(ctx, bookmarkID)
	if err != nil {
		return err
	}
	if b.OwnerID != userID {
		return fmt.Errorf("access denied to bookmark %s: %w", bookmarkID, domain.ErrForbidden)
	}
	return nil
}

var _ services.ResourceAuthorizer = (*ownerAuthorizer)(nil)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
