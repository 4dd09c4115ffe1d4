package links

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"linkhive/internal/appearance"
	"linkhive/internal/config"
	"linkhive/internal/domain"
	"linkhive/internal/domain/models"
	"linkhive/internal/domain/repositories"
	"linkhive/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type folderService struct {
	folderRepo   repositories.FolderRepository
	bookmarkRepo repositories.BookmarkRepository
	txManager    repositories.TransactionManager
	palette      *appearance.Registry
	authorizer   services.ResourceAuthorizer
	logger       *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repositories.FolderRepository,
	bookmarkRepo repositories.BookmarkRepository,
	txManager repositories.TransactionManager,
	palette *appearance.Registry,
	authorizer services.ResourceAuthorizer,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folderRepo:   folderRepo,
		bookmarkRepo: bookmarkRepo,
		txManager:    txManager,
		palette:      palette,
		authorizer:   authorizer,
		logger:       logger,
	}
}

// CreateFolder creates a new folder owned by the caller
func (s *folderService) CreateFolder(ctx context.Context, ownerID string, req *services.CreateFolderRequest) (*models.Folder, error) {
	req.Name = strings.TrimSpace(req.Name)

	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	color, err := s.palette.ResolveColor(req.Color)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	icon, err := s.resolveIcon(req.Icon)
	if err != nil {
		return nil, err
	}

	// Normalize empty string to nil for top-level folders
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}

	if req.ParentID != nil {
		// Parent must exist and belong to the caller
		if err := s.authorizer.CanAccessFolder(ctx, ownerID, *req.ParentID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	folder := &models.Folder{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		ParentID:    req.ParentID,
		Name:        req.Name,
		Description: req.Description,
		Order:       req.Order,
		Color:       color,
		Icon:        icon,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// A fresh id cannot appear in the ancestor chain, but the walk also
	// catches pre-existing cycles in stored data before they grow
	if folder.ParentID != nil {
		byID, err := s.loadFolderIndex(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		if err := ensureNoCycle(byID, folder.ID, folder.ParentID); err != nil {
			return nil, err
		}
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"owner_id", ownerID,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// GetFolder retrieves a folder the caller owns
func (s *folderService) GetFolder(ctx context.Context, ownerID, folderID string) (*models.Folder, error) {
	if err := s.authorizer.CanAccessFolder(ctx, ownerID, folderID); err != nil {
		return nil, err
	}
	return s.folderRepo.GetByIDOnly(ctx, folderID)
}

// UpdateFolder updates a folder (rename, restyle, or move). A parent
// change re-runs cycle prevention against the new candidate parent
// before anything is persisted.
func (s *folderService) UpdateFolder(ctx context.Context, ownerID, folderID string, req *services.UpdateFolderRequest) (*models.Folder, error) {
	if err := s.authorizer.CanAccessFolder(ctx, ownerID, folderID); err != nil {
		return nil, err
	}

	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}

	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folder, err := s.folderRepo.GetByID(ctx, folderID, ownerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		folder.Name = *req.Name
	}
	if req.Description != nil {
		folder.Description = *req.Description
	}
	if req.Order != nil {
		folder.Order = *req.Order
	}
	if req.Color != nil {
		color, err := s.palette.ResolveColor(*req.Color)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		folder.Color = color
	}
	if req.Icon != nil {
		icon, err := s.resolveIcon(*req.Icon)
		if err != nil {
			return nil, err
		}
		folder.Icon = icon
	}

	// Tri-state: only move the folder if the field was present in the request
	if req.ParentID.Present {
		newParent := req.ParentID.Value
		if newParent != nil && *newParent == "" {
			newParent = nil // empty string also means top level
		}

		if newParent != nil {
			if err := s.authorizer.CanAccessFolder(ctx, ownerID, *newParent); err != nil {
				return nil, err
			}

			byID, err := s.loadFolderIndex(ctx, ownerID)
			if err != nil {
				return nil, err
			}
			if err := ensureNoCycle(byID, folderID, newParent); err != nil {
				return nil, err
			}

			s.logger.Debug("moving folder", "folder_id", folderID, "new_parent_id", *newParent)
		} else {
			s.logger.Debug("moving folder to top level", "folder_id", folderID)
		}
		folder.ParentID = newParent
	}

	folder.UpdatedAt = time.Now()

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder updated",
		"id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// DeleteFolder deletes the folder and every descendant folder inside one
// transaction. Each folder's bookmarks are reparented to that folder's
// own parent immediately before its row is removed; since descendants go
// leaves-first, bookmarks bubble up level by level and land on the
// nearest surviving ancestor. Bookmarks themselves are never deleted,
// and their attachments are untouched.
func (s *folderService) DeleteFolder(ctx context.Context, ownerID, folderID string) error {
	target, err := s.folderRepo.GetByID(ctx, folderID, ownerID)
	if err != nil {
		return err
	}

	txErr := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		byID, err := s.loadFolderIndex(txCtx, ownerID)
		if err != nil {
			return err
		}

		order, err := subtreePreOrder(byID, folderID)
		if err != nil {
			return err
		}

		// Reverse pre-order = leaves before their ancestors
		for i := len(order) - 1; i >= 0; i-- {
			f := byID[order[i]]

			moved, err := s.bookmarkRepo.Reparent(txCtx, f.ID, f.ParentID, ownerID)
			if err != nil {
				return err
			}
			if moved > 0 {
				s.logger.Debug("reparented bookmarks", "from", f.ID, "to", f.ParentID, "count", moved)
			}

			if err := s.folderRepo.Delete(txCtx, f.ID, ownerID); err != nil {
				return err
			}
		}

		return nil
	})

	if txErr != nil {
		if errors.Is(txErr, domain.ErrInvariant) {
			s.logger.Error("cascade delete aborted on invariant violation",
				"folder_id", folderID, "owner_id", ownerID, "error", txErr)
			return txErr
		}
		return &domain.TransactionError{
			Message: fmt.Sprintf("folder delete rolled back: %v", txErr),
		}
	}

	// The surviving parent just inherited the subtree's bookmarks; its
	// cached count is the one most visibly stale, so refresh it now.
	// Other counts wait for an explicit sync.
	if target.ParentID != nil {
		if _, err := s.SyncBookmarkCount(ctx, ownerID, *target.ParentID); err != nil {
			s.logger.Warn("failed to refresh parent bookmark count",
				"folder_id", *target.ParentID, "error", err)
		}
	}

	s.logger.Info("folder deleted",
		"id", folderID,
		"name", target.Name,
		"owner_id", ownerID,
	)

	return nil
}

// GetFolderTree returns the owner's folders as a nested forest. Siblings
// are sorted by (order, name).
func (s *folderService) GetFolderTree(ctx context.Context, ownerID string) (*models.FolderForest, error) {
	allFolders, err := s.folderRepo.GetAllByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	// First pass: create all nodes
	nodeByID := make(map[string]*models.FolderTreeNode, len(allFolders))
	for _, folder := range allFolders {
		nodeByID[folder.ID] = &models.FolderTreeNode{
			ID:            folder.ID,
			Name:          folder.Name,
			ParentID:      folder.ParentID,
			Color:         folder.Color,
			Icon:          folder.Icon,
			Order:         folder.Order,
			BookmarkCount: folder.BookmarkCount,
			CreatedAt:     folder.CreatedAt,
			Children:      []*models.FolderTreeNode{},
		}
	}

	// Second pass: connect children to parents; orphaned parent refs
	// surface at top level rather than vanish
	roots := make([]*models.FolderTreeNode, 0)
	for _, folder := range allFolders {
		node := nodeByID[folder.ID]
		if folder.ParentID != nil {
			if parent, exists := nodeByID[*folder.ParentID]; exists {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	sortSiblings(roots)
	for _, node := range nodeByID {
		sortSiblings(node.Children)
	}

	s.logger.Debug("folder tree built", "owner_id", ownerID, "folder_count", len(allFolders))

	return &models.FolderForest{Folders: roots}, nil
}

// GetPath returns the ancestry of a folder from the root down to the
// folder itself.
func (s *folderService) GetPath(ctx context.Context, ownerID, folderID string) ([]models.PathEntry, error) {
	byID, err := s.loadFolderIndex(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	folder, ok := byID[folderID]
	if !ok {
		return nil, fmt.Errorf("folder %s: %w", folderID, domain.ErrNotFound)
	}

	// Walk up, then reverse so the root lands first
	path := []models.PathEntry{{ID: folder.ID, Name: folder.Name}}
	visited := map[string]bool{folder.ID: true}
	cur := folder.ParentID
	for steps := 0; cur != nil; steps++ {
		if steps >= len(byID) || visited[*cur] {
			return nil, &domain.InvariantViolationError{
				Message: fmt.Sprintf("parent chain of folder %s does not terminate", folderID),
			}
		}
		ancestor, ok := byID[*cur]
		if !ok {
			break // broken parent reference: treat as the top of the chain
		}
		visited[ancestor.ID] = true
		path = append(path, models.PathEntry{ID: ancestor.ID, Name: ancestor.Name})
		cur = ancestor.ParentID
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, nil
}

// GetDescendantIDs returns the folder's id plus all transitive children
// ids. Order is unspecified.
func (s *folderService) GetDescendantIDs(ctx context.Context, ownerID, folderID string) ([]string, error) {
	if _, err := s.folderRepo.GetByID(ctx, folderID, ownerID); err != nil {
		return nil, err
	}

	byID, err := s.loadFolderIndex(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return subtreePreOrder(byID, folderID)
}

// SyncBookmarkCount recomputes and persists the folder's cached bookmark
// count, returning the fresh value.
func (s *folderService) SyncBookmarkCount(ctx context.Context, ownerID, folderID string) (int, error) {
	if _, err := s.folderRepo.GetByID(ctx, folderID, ownerID); err != nil {
		return 0, err
	}

	count, err := s.bookmarkRepo.CountByFolder(ctx, folderID, ownerID)
	if err != nil {
		return 0, err
	}

	if err := s.folderRepo.SetBookmarkCount(ctx, folderID, count); err != nil {
		return 0, err
	}

	return count, nil
}

// loadFolderIndex loads the owner's folders as an id-indexed map. All
// tree walks run over this flat set, which also bounds them.
func (s *folderService) loadFolderIndex(ctx context.Context, ownerID string) (map[string]*models.Folder, error) {
	allFolders, err := s.folderRepo.GetAllByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Folder, len(allFolders))
	for i := range allFolders {
		byID[allFolders[i].ID] = &allFolders[i]
	}
	return byID, nil
}

// ensureNoCycle rejects a candidate parent that would make the folder an
// ancestor of itself. The visited set is seeded with the folder's own id;
// a broken parent reference terminates the walk without error. The walk
// is bounded by the owner's folder count so it terminates even over
// corrupted data, where exceeding the bound is an internal invariant
// failure rather than a user input error.
func ensureNoCycle(byID map[string]*models.Folder, selfID string, parentID *string) error {
	if parentID == nil {
		return nil
	}
	if *parentID == selfID {
		return &domain.ValidationError{Message: "folder cannot be its own parent"}
	}

	visited := map[string]bool{selfID: true}
	limit := len(byID) + 1
	cur := parentID
	for steps := 0; cur != nil; steps++ {
		if steps >= limit {
			return &domain.InvariantViolationError{
				Message: fmt.Sprintf("ancestor walk from folder %s exceeded %d steps", *parentID, limit),
			}
		}
		if visited[*cur] {
			return &domain.ValidationError{Message: "circular folder reference"}
		}
		visited[*cur] = true

		ancestor, ok := byID[*cur]
		if !ok {
			return nil
		}
		cur = ancestor.ParentID
	}
	return nil
}

// subtreePreOrder collects the ids of folderID's subtree, parents before
// children, using an explicit worklist. Folder depth is user controlled,
// so no native recursion. A folder encountered twice means the stored
// parent pointers cycle.
func subtreePreOrder(byID map[string]*models.Folder, folderID string) ([]string, error) {
	childrenOf := make(map[string][]string, len(byID))
	for id, folder := range byID {
		if folder.ParentID != nil {
			childrenOf[*folder.ParentID] = append(childrenOf[*folder.ParentID], id)
		}
	}

	order := make([]string, 0)
	seen := make(map[string]bool)
	stack := []string{folderID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if seen[id] {
			return nil, &domain.InvariantViolationError{
				Message: fmt.Sprintf("folder %s reachable twice in subtree of %s", id, folderID),
			}
		}
		seen[id] = true

		order = append(order, id)
		stack = append(stack, childrenOf[id]...)
	}

	return order, nil
}

func sortSiblings(nodes []*models.FolderTreeNode) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Order != nodes[j].Order {
			return nodes[i].Order < nodes[j].Order
		}
		return nodes[i].Name < nodes[j].Name
	})
}

func (s *folderService) resolveIcon(icon string) (string, error) {
	if icon == "" {
		return models.DefaultFolderIcon, nil
	}
	if !s.palette.KnownIcon(icon) {
		return "", fmt.Errorf("%w: unknown icon %q", domain.ErrValidation, icon)
	}
	return icon, nil
}

// validateCreateRequest validates a folder creation request
func (s *folderService) validateCreateRequest(req *services.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFolderNameLength),
		),
		validation.Field(&req.Description,
			validation.Length(0, config.MaxFolderDescriptionLength),
		),
		validation.Field(&req.Icon,
			validation.Length(0, config.MaxFolderIconLength),
		),
	)
}

// validateUpdateRequest validates a folder update request
func (s *folderService) validateUpdateRequest(req *services.UpdateFolderRequest) error {
	if req.Name == nil && req.Description == nil && !req.ParentID.Present &&
		req.Color == nil && req.Icon == nil && req.Order == nil {
		return fmt.Errorf("at least one field must be provided")
	}

	var rules []*validation.FieldRules
	if req.Name != nil {
		rules = append(rules,
			validation.Field(&req.Name,
				validation.Required,
				validation.Length(1, config.MaxFolderNameLength),
			),
		)
	}
	if req.Description != nil {
		rules = append(rules,
			validation.Field(&req.Description,
				validation.Length(0, config.MaxFolderDescriptionLength),
			),
		)
	}
	if req.Icon != nil {
		rules = append(rules,
			validation.Field(&req.Icon,
				validation.Length(0, config.MaxFolderIconLength),
			),
		)
	}

	return validation.ValidateStruct(req, rules...)
}
