package links

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"linkhive/internal/appearance"
	"linkhive/internal/domain"
	"linkhive/internal/domain/models"
	"linkhive/internal/domain/services"
	"linkhive/internal/httputil"
)

const (
	testOwner  = "user-1"
	otherOwner = "user-2"
)

func newTestFolderService(t *testing.T) (services.FolderService, *fakeFolderRepo, *fakeBookmarkRepo) {
	t.Helper()

	palette, err := appearance.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() failed: %v", err)
	}

	folderRepo := newFakeFolderRepo()
	bookmarkRepo := newFakeBookmarkRepo()
	txManager := &fakeTxManager{folderRepo: folderRepo, bookmarkRepo: bookmarkRepo}
	authorizer := &ownerAuthorizer{folderRepo: folderRepo, bookmarkRepo: bookmarkRepo}

	svc := NewFolderService(folderRepo, bookmarkRepo, txManager, palette, authorizer, testLogger())
	return svc, folderRepo, bookmarkRepo
}

func addFolder(t *testing.T, repo *fakeFolderRepo, id, ownerID string, parentID *string, name string, order int) {
	t.Helper()
	now := time.Now()
	err := repo.Create(context.Background(), &models.Folder{
		ID:        id,
		OwnerID:   ownerID,
		ParentID:  parentID,
		Name:      name,
		Order:     order,
		Color:     models.DefaultFolderColor,
		Icon:      models.DefaultFolderIcon,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("addFolder(%s) failed: %v", id, err)
	}
}

func addBookmark(t *testing.T, repo *fakeBookmarkRepo, id, ownerID string, folderID *string) {
	t.Helper()
	now := time.Now()
	err := repo.Create(context.Background(), &models.Bookmark{
		ID:         id,
		OwnerID:    ownerID,
		FolderID:   folderID,
		URL:        "https://example.com/" + id,
		Title:      id,
		Tags:       []string{},
		Visibility: models.VisibilityPrivate,
		SharedWith: []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("addBookmark(%s) failed: %v", id, err)
	}
}

func strptr(s string) *string { return &s }

func TestCreateFolder_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  *services.CreateFolderRequest
	}{
		{
			name: "empty name",
			req:  &services.CreateFolderRequest{Name: ""},
		},
		{
			name: "whitespace only name",
			req:  &services.CreateFolderRequest{Name: "   "},
		},
		{
			name: "name too long",
			req:  &services.CreateFolderRequest{Name: strings.Repeat("x", 101)},
		},
		{
			name: "unknown icon",
			req:  &services.CreateFolderRequest{Name: "ok", Icon: "dragon"},
		},
		{
			name: "malformed color",
			req:  &services.CreateFolderRequest{Name: "ok", Color: "not-a-color"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, folderRepo, _ := newTestFolderService(t)

			_, err := svc.CreateFolder(context.Background(), testOwner, tt.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
			if len(folderRepo.folders) != 0 {
				t.Errorf("expected no folder stored, got %d", len(folderRepo.folders))
			}
		})
	}
}

func TestCreateFolder_Defaults(t *testing.T) {
	svc, _, _ := newTestFolderService(t)

	folder, err := svc.CreateFolder(context.Background(), testOwner, &services.CreateFolderRequest{Name: "  Reading  "})
	if err != nil {
		t.Fatalf("CreateFolder() failed: %v", err)
	}

	if folder.Name != "Reading" {
		t.Errorf("expected trimmed name %q, got %q", "Reading", folder.Name)
	}
	if folder.Color != models.DefaultFolderColor {
		t.Errorf("expected default color, got %q", folder.Color)
	}
	if folder.Icon != models.DefaultFolderIcon {
		t.Errorf("expected default icon, got %q", folder.Icon)
	}
	if folder.ParentID != nil {
		t.Errorf("expected top-level folder, got parent %v", *folder.ParentID)
	}
	if folder.ID == "" {
		t.Error("expected generated id")
	}
}

func TestCreateFolder_PresetColorName(t *testing.T) {
	svc, _, _ := newTestFolderService(t)

	folder, err := svc.CreateFolder(context.Background(), testOwner, &services.CreateFolderRequest{
		Name:  "Work",
		Color: "blue",
		Icon:  "briefcase",
	})
	if err != nil {
		t.Fatalf("CreateFolder() failed: %v", err)
	}

	if folder.Color != "#3B82F6" {
		t.Errorf("expected preset blue to resolve to #3B82F6, got %q", folder.Color)
	}
	if folder.Icon != "briefcase" {
		t.Errorf("expected icon briefcase, got %q", folder.Icon)
	}
}

func TestCreateFolder_ParentOwnership(t *testing.T) {
	svc, folderRepo, _ := newTestFolderService(t)
	addFolder(t, folderRepo, "theirs", otherOwner, nil, "Theirs", 0)

	tests := []struct {
		name     string
		parentID string
		wantErr  error
	}{
		{"parent owned by someone else", "theirs", domain.ErrForbidden},
		{"parent does not exist", "ghost", domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateFolder(context.Background(), testOwner, &services.CreateFolderRequest{
				Name:     "Child",
				ParentID: strptr(tt.parentID),
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestUpdateFolder_RejectsCycles(t *testing.T) {
	// root -> mid -> leaf
	tests := []struct {
		name      string
		folderID  string
		newParent string
	}{
		{"own parent", "root", "root"},
		{"direct child as parent", "mid", "leaf"},
		{"transitive descendant as parent", "root", "leaf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, folderRepo, _ := newTestFolderService(t)
			addFolder(t, folderRepo, "root", testOwner, nil, "Root", 0)
			addFolder(t, folderRepo, "mid", testOwner, strptr("root"), "Mid", 0)
			addFolder(t, folderRepo, "leaf", testOwner, strptr("mid"), "Leaf", 0)

			before, _ := folderRepo.GetByIDOnly(context.Background(), tt.folderID)

			_, err := svc.UpdateFolder(context.Background(), testOwner, tt.folderID, &services.UpdateFolderRequest{
				ParentID: httputil.OptionalString{Present: true, Value: strptr(tt.newParent)},
			})
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}

			// Rejected move must leave the hierarchy untouched
			after, _ := folderRepo.GetByIDOnly(context.Background(), tt.folderID)
			if (before.ParentID == nil) != (after.ParentID == nil) {
				t.Fatal("parent changed after rejected move")
			}
			if before.ParentID != nil && *before.ParentID != *after.ParentID {
				t.Errorf("parent changed after rejected move: %v -> %v", *before.ParentID, *after.ParentID)
			}
		})
	}
}

func TestUpdateFolder_ValidMove(t *testing.T) {
	svc, folderRepo, _ := newTestFolderService(t)
	addFolder(t, folderRepo, "a", testOwner, nil, "A", 0)
	addFolder(t, folderRepo, "b", testOwner, nil, "B", 1)

	folder, err := svc.UpdateFolder(context.Background(), testOwner, "b", &services.UpdateFolderRequest{
		ParentID: httputil.OptionalString{Present: true, Value: strptr("a")},
	})
	if err != nil {
		t.Fatalf("UpdateFolder() failed: %v", err)
	}
	if folder.ParentID == nil || *folder.ParentID != "a" {
		t.Errorf("expected parent a, got %v", folder.ParentID)
	}
}

func TestUpdateFolder_MoveToTopLevel(t *testing.T) {
	svc, folderRepo, _ := newTestFolderService(t)
	addFolder(t, folderRepo, "a", testOwner, nil, "A", 0)
	addFolder(t, folderRepo, "b", testOwner, strptr("a"), "B", 0)

	// Explicit null parent means top level
	folder, err := svc.UpdateFolder(context.Background(), testOwner, "b", &services.UpdateFolderRequest{
		ParentID: httputil.OptionalString{Present: true, Value: nil},
	})
	if err != nil {
		t.Fatalf("UpdateFolder() failed: %v", err)
	}
	if folder.ParentID != nil {
		t.Errorf("expected top-level folder, got parent %v", *folder.ParentID)
	}
}

// Moves carry no version check: two writers racing on the same folder's
// parent both succeed, and the later write stands. Each write still runs
// cycle prevention against the state it observes.
func TestUpdateFolder_ConcurrentMovesLastWriteWins(t *testing.T) {
	svc, folderRepo, _ := newTestFolderService(t)
	addFolder(t, folderRepo, "a", testOwner, nil, "A", 0)
	addFolder(t, folderRepo, "b", testOwner, nil, "B", 1)
	addFolder(t, folderRepo, "c", testOwner, nil, "C", 2)

	if _, err := svc.UpdateFolder(context.Background(), testOwner, "c", &services.UpdateFolderRequest{
		ParentID: httputil.OptionalString{Present: true, Value: strptr("a")},
	}); err != nil {
		t.Fatalf("first move failed: %v", err)
	}

	folder, err := svc.UpdateFolder(context.Background(), testOwner, "c", &services.UpdateFolderRequest{
		ParentID: httputil.OptionalString{Present: true, Value: strptr("b")},
	})
	if err != nil {
		t.Fatalf("second move failed: %v", err)
	}

	if folder.ParentID == nil || *folder.ParentID != "b" {
		t.Errorf("expected later move to stand, got parent %v", folder.ParentID)
	}
	stored, _ := folderRepo.GetByID(context.Background(), "c", testOwner)
	if stored.ParentID == nil || *stored.ParentID != "b" {
		t.Errorf("expected stored parent b, got %v", stored.ParentID)
	}
}

func TestUpdateFolder_RequiresAField(t *testing.T) {
	svc, folderRepo, _ := newTestFolderService(t)
	addFolder(t, folderRepo, "a", testOwner, nil, "A", 0)

	_, err := svc.UpdateFolder(context.Background(), testOwner, "a", &services.UpdateFolderRequest{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestUpdateFolder_CorruptedAncestry(t *testing.T) {
	// x and y point at each other; moving z under x must fail rather
	// than loop forever
	svc, folderRepo, _ := newTestFolderService(t)
	addFolder(t, folderRepo, "x", testOwner, strptr("y"), "X", 0)
	addFolder(t, folderRepo, "y", testOwner, strptr("x"), "Y", 0)
	addFolder(t, folderRepo, "z", testOwner, nil, "Z", 0)

	_, err := svc.UpdateFolder(context.Background(), testOwner, "z", &services.UpdateFolderRequest{
		ParentID: httputil.OptionalString{Present: true, Value: strptr("x")},
	})
	if err == nil {
		t.Fatal("expected error for corrupted ancestor chain")
	}
}

func TestDeleteFolder_CascadeReparentsBookmarks(t *testing.T) {
	// P
	// └─ A            (b1, b3)
	//    └─ C         (b2)
	// Deleting A removes A and C; all three bookmarks end up in P.
	svc, folderRepo, bookmarkRepo := newTestFolderService(t)
	addFolder(t, folderRepo, "p", testOwner, nil, "P", 0)
	addFolder(t, folderRepo, "a", testOwner, strptr("p"), "A", 0)
	addFolder(t, folderRepo, "c", testOwner, strptr("a"), "C", 0)
	addBookmark(t, bookmarkRepo, "b1", testOwner, strptr("a"))
	addBookmark(t, bookmarkRepo, "b2", testOwner, strptr("c"))
	addBookmark(t, bookmarkRepo, "b3", testOwner, strptr("a"))

	if err := svc.DeleteFolder(context.Background(), testOwner, "a"); err != nil {
		t.Fatalf("DeleteFolder() failed: %v", err)
	}

	for _, id := range []string{"a", "c"} {
		if _, ok := folderRepo.folders[id]; ok {
			t.Errorf("folder %s still exists", id)
		}
	}
	if _, ok := folderRepo.folders["p"]; !ok {
		t.Fatal("folder p was deleted")
	}

	for _, id := range []string{"b1", "b2", "b3"} {
		b, err := bookmarkRepo.GetByIDOnly(context.Background(), id)
		if err != nil {
			t.Fatalf("bookmark %s missing after cascade: %v", id, err)
		}
		if b.FolderID == nil || *b.FolderID != "p" {
			t.Errorf("bookmark %s: expected folder p, got %v", id, b.FolderID)
		}
	}

	// The surviving parent's cached count was refreshed after commit
	p, _ := folderRepo.GetByIDOnly(context.Background(), "p")
	if p.BookmarkCount != 3 {
		t.Errorf("expected p bookmark count 3, got %d", p.BookmarkCount)
	}
}

func TestDeleteFolder_TopLevelLeavesBookmarksUnfiled(t *testing.T) {
	// Work (top level) ─ Projects; b1 lives in Projects. Deleting Work
	// drops both folders and leaves b1 outside any folder.
	svc, folderRepo, bookmarkRepo := newTestFolderService(t)
	addFolder(t, folderRepo, "work", testOwner, nil, "Work", 0)
	addFolder(t, folderRepo, "projects", testOwner, strptr("work"), "Projects", 0)
	addBookmark(t, bookmarkRepo, "b1", testOwner, strptr("projects"))

	if err := svc.DeleteFolder(context.Background(), testOwner, "work"); err != nil {
		t.Fatalf("DeleteFolder() failed: %v", err)
	}

	if len(folderRepo.folders) != 0 {
		t.Errorf("expected no folders left, got %d", len(folderRepo.folders))
	}
	b, err := bookmarkRepo.GetByIDOnly(context.Background(), "b1")
	if err != nil {
		t.Fatalf("bookmark b1 missing: %v", err)
	}
	if b.FolderID != nil {
		t.Errorf("expected b1 outside any folder, got %v", *b.FolderID)
	}
}

func TestDeleteFolder_RollsBackOnFailure(t *testing.T) {
	svc, folderRepo, bookmarkRepo := newTestFolderService(t)
	addFolder(t, folderRepo, "a", testOwner, nil, "A", 0)
	addFolder(t, folderRepo, "c", testOwner, strptr("a"), "C", 0)
	addBookmark(t, bookmarkRepo, "b1", testOwner, strptr("c"))

	// The parent's delete fails after the child was already processed
	folderRepo.failDeleteID = "a"

	err := svc.DeleteFolder(context.Background(), testOwner, "a")
	if !errors.Is(err, domain.ErrTransaction) {
		t.Fatalf("expected transaction error, got %v", err)
	}

	// Everything must be exactly as before
	if len(folderRepo.folders) != 2 {
		t.Errorf("expected 2 folders after rollback, got %d", len(folderRepo.folders))
	}
	b, _ := bookmarkRepo.GetByIDOnly(context.Background(), "b1")
	if b.FolderID == nil || *b.FolderID != "c" {
		t.Errorf("expected b1 back in folder c after rollback, got %v", b.FolderID)
	}
}

func TestDeleteFolder_NotOwned(t *testing.T) {
	svc, folderRepo, _ := newTestFolderService(t)
	addFolder(t, folderRepo, "theirs", otherOwner, nil, "Theirs", 0)

	err := svc.DeleteFolder(context.Background(), testOwner, "theirs")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	if _, ok := folderRepo.folders["theirs"]; !ok {
		t.Error("folder was deleted despite ownership mismatch")
	}
}

func TestGetFolderTree(t *testing.T) {
	svc, folderRepo, _ := newTestFolderService(t)
	addFolder(t, folderRepo, "b-root", testOwner, nil, "Beta", 0)
	addFolder(t, folderRepo, "a-root", testOwner, nil, "Alpha", 0)
	addFolder(t, folderRepo, "z-first", testOwner, nil, "Zulu", -1)
	addFolder(t, folderRepo, "child2", testOwner, strptr("a-root"), "Second", 1)
	addFolder(t, folderRepo, "child1", testOwner, strptr("a-root"), "First", 0)
	addFolder(t, folderRepo, "other", otherOwner, nil, "NotMine", 0)

	forest, err := svc.GetFolderTree(context.Background(), testOwner)
	if err != nil {
		t.Fatalf("GetFolderTree() failed: %v", err)
	}

	// Order first, name breaking ties
	wantRoots := []string{"Zulu", "Alpha", "Beta"}
	if len(forest.Folders) != len(wantRoots) {
		t.Fatalf("expected %d roots, got %d", len(wantRoots), len(forest.Folders))
	}
	for i, want := range wantRoots {
		if forest.Folders[i].Name != want {
			t.Errorf("root[%d]: expected %q, got %q", i, want, forest.Folders[i].Name)
		}
	}

	alpha := forest.Folders[1]
	if len(alpha.Children) != 2 {
		t.Fatalf("expected 2 children under Alpha, got %d", len(alpha.Children))
	}
	if alpha.Children[0].Name != "First" || alpha.Children[1].Name != "Second" {
		t.Errorf("children out of order: %q, %q", alpha.Children[0].Name, alpha.Children[1].Name)
	}
}

func TestGetFolderTree_OrphanSurfacesAtTopLevel(t *testing.T) {
	svc, folderRepo, _ := newTestFolderService(t)
	addFolder(t, folderRepo, "orphan", testOwner, strptr("gone"), "Orphan", 0)

	forest, err := svc.GetFolderTree(context.Background(), testOwner)
	if err != nil {
		t.Fatalf("GetFolderTree() failed: %v", err)
	}
	if len(forest.Folders) != 1 || forest.Folders[0].Name != "Orphan" {
		t.Errorf("expected orphan at top level, got %+v", forest.Folders)
	}
}

func TestGetPath(t *testing.T) {
	svc, folderRepo, _ := newTestFolderService(t)
	addFolder(t, folderRepo, "root", testOwner, nil, "Root", 0)
	addFolder(t, folderRepo, "mid", testOwner, strptr("root"), "Mid", 0)
	addFolder(t, folderRepo, "leaf", testOwner, strptr("mid"), "Leaf", 0)

	path, err := svc.GetPath(context.Background(), testOwner, "leaf")
	if err != nil {
		t.Fatalf("GetPath() failed: %v", err)
	}

	want := []string{"Root", "Mid", "Leaf"}
	if len(path) != len(want) {
		t.Fatalf("expected path of %d, got %d", len(want), len(path))
	}
	for i, name := range want {
		if path[i].Name != name {
			t.Errorf("path[%d]: expected %q, got %q", i, name, path[i].Name)
		}
	}
}

func TestGetPath_Errors(t *testing.T) {
	svc, folderRepo, _ := newTestFolderService(t)
	addFolder(t, folderRepo, "x", testOwner, strptr("y"), "X", 0)
	addFolder(t, folderRepo, "y", testOwner, strptr("x"), "Y", 0)

	t.Run("not found", func(t *testing.T) {
		_, err := svc.GetPath(context.Background(), testOwner, "ghost")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})

	t.Run("cyclic ancestry", func(t *testing.T) {
		_, err := svc.GetPath(context.Background(), testOwner, "x")
		if !errors.Is(err, domain.ErrInvariant) {
			t.Errorf("expected invariant violation, got %v", err)
		}
	})
}

func TestGetPath_BrokenParentRef(t *testing.T) {
	svc, folderRepo, _ := newTestFolderService(t)
	addFolder(t, folderRepo, "a", testOwner, strptr("gone"), "A", 0)

	path, err := svc.GetPath(context.Background(), testOwner, "a")
	if err != nil {
		t.Fatalf("GetPath() failed: %v", err)
	}
	if len(path) != 1 || path[0].Name != "A" {
		t.Errorf("expected single-entry path, got %+v", path)
	}
}

func TestGetDescendantIDs(t *testing.T) {
	svc, folderRepo, _ := newTestFolderService(t)
	addFolder(t, folderRepo, "root", testOwner, nil, "Root", 0)
	addFolder(t, folderRepo, "c1", testOwner, strptr("root"), "C1", 0)
	addFolder(t, folderRepo, "c2", testOwner, strptr("root"), "C2", 1)
	addFolder(t, folderRepo, "gc", testOwner, strptr("c1"), "GC", 0)
	addFolder(t, folderRepo, "unrelated", testOwner, nil, "Unrelated", 0)

	ids, err := svc.GetDescendantIDs(context.Background(), testOwner, "root")
	if err != nil {
		t.Fatalf("GetDescendantIDs() failed: %v", err)
	}

	want := map[string]bool{"root": true, "c1": true, "c2": true, "gc": true}
	if len(ids) != len(want) {
		t.Fatalf("expected %d ids, got %d: %v", len(want), len(ids), ids)
	}
	for _, id := range ids {
		if !want[id] {
			t.Errorf("unexpected id %q in result", id)
		}
	}
}

func TestGetDescendantIDs_NotOwned(t *testing.T) {
	svc, folderRepo, _ := newTestFolderService(t)
	addFolder(t, folderRepo, "theirs", otherOwner, nil, "Theirs", 0)

	_, err := svc.GetDescendantIDs(context.Background(), testOwner, "theirs")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestSyncBookmarkCount(t *testing.T) {
	svc, folderRepo, bookmarkRepo := newTestFolderService(t)
	addFolder(t, folderRepo, "a", testOwner, nil, "A", 0)
	addBookmark(t, bookmarkRepo, "b1", testOwner, strptr("a"))
	addBookmark(t, bookmarkRepo, "b2", testOwner, strptr("a"))
	addBookmark(t, bookmarkRepo, "b3", testOwner, nil)

	count, err := svc.SyncBookmarkCount(context.Background(), testOwner, "a")
	if err != nil {
		t.Fatalf("SyncBookmarkCount() failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}

	f, _ := folderRepo.GetByIDOnly(context.Background(), "a")
	if f.BookmarkCount != 2 {
		t.Errorf("expected persisted count 2, got %d", f.BookmarkCount)
	}
}
