package links

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"linkhive/internal/domain"
	"linkhive/internal/domain/models"
	"linkhive/internal/domain/repositories"
	"linkhive/internal/domain/services"
)

// bulkService applies one operation across many bookmarks with per-item
// error isolation. Each item's update is an independent unit: a 500-item
// edit with 3 bad ids still lands the other 497. The service keeps no
// state between calls; undo history belongs to the caller, built from
// the snapshots returned here.
type bulkService struct {
	bookmarkRepo repositories.BookmarkRepository
	logger       *slog.Logger
}

// NewBulkService creates a new bulk mutation service
func NewBulkService(bookmarkRepo repositories.BookmarkRepository, logger *slog.Logger) services.BulkService {
	return &bulkService{
		bookmarkRepo: bookmarkRepo,
		logger:       logger,
	}
}

// Apply runs the operation over every id the caller owns and returns the
// aggregate report. Ids that are missing or belong to another owner are
// recorded in the report and skipped; a persistence failure on one id is
// recorded and the batch continues.
func (s *bulkService) Apply(ctx context.Context, callerID string, bookmarkIDs []string, op *models.BulkOperation) (*models.BulkResult, error) {
	if err := validateOperation(bookmarkIDs, op); err != nil {
		return nil, err
	}

	result := &models.BulkResult{Errors: []models.BulkItemError{}}
	for _, id := range bookmarkIDs {
		s.applyOne(ctx, callerID, id, result, func(b *models.Bookmark) {
			mutate(b, op)
		})
	}

	s.logger.Info("bulk operation finished",
		"caller_id", callerID,
		"requested", len(bookmarkIDs),
		"applied", result.AppliedCount,
		"skipped", result.SkippedCount,
		"failed", result.FailedCount,
	)

	return result, nil
}

// CaptureSnapshot records, for each owned id, the prior value of the
// named field. The ownership gate matches Apply, so a snapshot taken
// right before an Apply over the same ids covers exactly the bookmarks
// the operation will touch.
func (s *bulkService) CaptureSnapshot(ctx context.Context, callerID string, bookmarkIDs []string, field models.SnapshotField) (*models.UndoSnapshot, error) {
	if len(bookmarkIDs) == 0 {
		return nil, fmt.Errorf("%w: no bookmark ids given", domain.ErrValidation)
	}
	if !field.Valid() {
		return nil, fmt.Errorf("%w: unknown snapshot field %q", domain.ErrValidation, field)
	}

	snap := &models.UndoSnapshot{Field: field, Entries: []models.UndoEntry{}}
	for _, id := range bookmarkIDs {
		bookmark, err := s.bookmarkRepo.GetByIDOnly(ctx, id)
		if err != nil {
			continue // missing ids are skipped by Apply too
		}
		if bookmark.OwnerID != callerID {
			continue
		}

		entry := models.UndoEntry{ID: id}
		switch field {
		case models.SnapshotTags:
			entry.Tags = append([]string(nil), bookmark.Tags...)
		case models.SnapshotVisibility:
			// A visibility operation may overwrite shared_with too
			entry.Visibility = bookmark.Visibility
			entry.SharedWith = append([]string(nil), bookmark.SharedWith...)
		case models.SnapshotFolder:
			entry.FolderID = bookmark.FolderID
		case models.SnapshotSharedWith:
			entry.SharedWith = append([]string(nil), bookmark.SharedWith...)
		}
		snap.Entries = append(snap.Entries, entry)
	}

	return snap, nil
}

// ApplySnapshot replays a snapshot as direct per-id field sets. The sets
// are idempotent per id, so entry order does not matter.
func (s *bulkService) ApplySnapshot(ctx context.Context, callerID string, snap *models.UndoSnapshot) (*models.BulkResult, error) {
	if snap == nil || !snap.Field.Valid() {
		return nil, fmt.Errorf("%w: invalid snapshot", domain.ErrValidation)
	}

	result := &models.BulkResult{Errors: []models.BulkItemError{}}
	for _, entry := range snap.Entries {
		entry := entry
		s.applyOne(ctx, callerID, entry.ID, result, func(b *models.Bookmark) {
			switch snap.Field {
			case models.SnapshotTags:
				b.Tags = append([]string(nil), entry.Tags...)
			case models.SnapshotVisibility:
				b.Visibility = entry.Visibility
				b.SharedWith = append([]string(nil), entry.SharedWith...)
			case models.SnapshotFolder:
				b.FolderID = entry.FolderID
			case models.SnapshotSharedWith:
				b.SharedWith = append([]string(nil), entry.SharedWith...)
			}
		})
	}

	s.logger.Info("snapshot replayed",
		"caller_id", callerID,
		"field", snap.Field,
		"applied", result.AppliedCount,
		"skipped", result.SkippedCount,
		"failed", result.FailedCount,
	)

	return result, nil
}

// applyOne loads, mutates, and persists a single bookmark, folding the
// outcome into the result. Failures here are data, not control flow.
func (s *bulkService) applyOne(ctx context.Context, callerID, id string, result *models.BulkResult, mutateFn func(*models.Bookmark)) {
	bookmark, err := s.bookmarkRepo.GetByIDOnly(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			result.SkippedCount++
			result.Errors = append(result.Errors, models.BulkItemError{ID: id, Reason: models.BulkReasonNotFound})
		} else {
			result.FailedCount++
			result.Errors = append(result.Errors, models.BulkItemError{ID: id, Reason: err.Error()})
		}
		return
	}

	if bookmark.OwnerID != callerID {
		result.SkippedCount++
		result.Errors = append(result.Errors, models.BulkItemError{ID: id, Reason: models.BulkReasonNotOwner})
		return
	}

	mutateFn(bookmark)
	bookmark.UpdatedAt = time.Now()

	if err := s.bookmarkRepo.Update(ctx, bookmark); err != nil {
		result.FailedCount++
		result.Errors = append(result.Errors, models.BulkItemError{ID: id, Reason: err.Error()})
		return
	}

	result.AppliedCount++
}

// mutate applies the single operation carried by op to one bookmark
func mutate(b *models.Bookmark, op *models.BulkOperation) {
	switch {
	case op.Tags != nil:
		switch op.Tags.Action {
		case models.TagReplace:
			b.Tags = append([]string(nil), op.Tags.Tags...)
		case models.TagAdd:
			b.Tags = unionTags(b.Tags, op.Tags.Tags)
		case models.TagRemove:
			b.Tags = subtractTags(b.Tags, op.Tags.Tags)
		}
	case op.Visibility != nil:
		b.Visibility = op.Visibility.Visibility
		if op.Visibility.SharedWith != nil {
			b.SharedWith = nil
			b.AddSharedWith(op.Visibility.SharedWith)
		}
	case op.Folder != nil:
		b.FolderID = op.Folder.FolderID
	case op.Share != nil:
		b.AddSharedWith(op.Share.SharedWith)
	}
}

// validateOperation checks the batch shape and that exactly one of the
// four operation kinds is set
func validateOperation(bookmarkIDs []string, op *models.BulkOperation) error {
	if len(bookmarkIDs) == 0 {
		return fmt.Errorf("%w: no bookmark ids given", domain.ErrValidation)
	}
	if op == nil {
		return fmt.Errorf("%w: no operation given", domain.ErrValidation)
	}

	set := 0
	if op.Tags != nil {
		set++
		if !op.Tags.Action.Valid() {
			return fmt.Errorf("%w: unknown tag action %q", domain.ErrValidation, op.Tags.Action)
		}
	}
	if op.Visibility != nil {
		set++
		if !op.Visibility.Visibility.Valid() {
			return fmt.Errorf("%w: invalid visibility %q", domain.ErrValidation, op.Visibility.Visibility)
		}
	}
	if op.Folder != nil {
		set++
	}
	if op.Share != nil {
		set++
		if len(op.Share.SharedWith) == 0 {
			return fmt.Errorf("%w: no user ids to share with", domain.ErrValidation)
		}
	}

	if set != 1 {
		return fmt.Errorf("%w: exactly one operation must be given, got %d", domain.ErrValidation, set)
	}
	return nil
}

// unionTags appends missing tags, preserving existing order. Comparison
// is exact-string and case-sensitive.
func unionTags(existing, add []string) []string {
	seen := make(map[string]bool, len(existing))
	out := make([]string, 0, len(existing)+len(add))
	for _, t := range existing {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	for _, t := range add {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// subtractTags removes every occurrence of the given tags
func subtractTags(existing, remove []string) []string {
	drop := make(map[string]bool, len(remove))
	for _, t := range remove {
		drop[t] = true
	}
	out := make([]string, 0, len(existing))
	for _, t := range existing {
		if !drop[t] {
			out = append(out, t)
		}
	}
	return out
}
