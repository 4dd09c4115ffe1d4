package services

import (
	"context"

	"linkhive/internal/domain/models"
)

// BulkService applies one operation across many bookmark ids with
// per-item error isolation: ownership is enforced per item, and a
// failing id never aborts the rest of the batch. The service holds no
// state between calls; undo history is the caller's concern, built on
// the snapshot values these methods return.
type BulkService interface {
	// Apply runs the operation over every id the caller owns and returns
	// the aggregate report. Ids that are missing or owned by someone else
	// are recorded in the report, not errored.
	Apply(ctx context.Context, callerID string, bookmarkIDs []string, op *models.BulkOperation) (*models.BulkResult, error)

	// CaptureSnapshot records, for each owned id, the prior value of the
	// field the caller is about to change. Ids skipped by the same
	// ownership gate as Apply are simply omitted.
	CaptureSnapshot(ctx context.Context, callerID string, bookmarkIDs []string, field models.SnapshotField) (*models.UndoSnapshot, error)

	// ApplySnapshot replays a snapshot as direct per-id field sets, with
	// the same isolation and report semantics as Apply.
	ApplySnapshot(ctx context.Context, callerID string, snap *models.UndoSnapshot) (*models.BulkResult, error)
}
