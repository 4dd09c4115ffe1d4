package models

// TagAction selects how a tag operation combines with existing tags.
type TagAction string

const (
	TagReplace TagAction = "replace"
	TagAdd     TagAction = "add"
	TagRemove  TagAction = "remove"
)

// Valid reports whether a is a known tag action.
func (a TagAction) Valid() bool {
	switch a {
	case TagReplace, TagAdd, TagRemove:
		return true
	}
	return false
}

// TagOperation sets, unions, or subtracts tags. Comparison is
// exact-string and case-sensitive.
type TagOperation struct {
	Action TagAction `json:"action"`
	Tags   []string  `json:"tags"`
}

// VisibilityOperation sets visibility and, optionally, the shared-with
// set. Setting "selected" without SharedWith is legal and yields a
// bookmark visible to no one but its owner.
type VisibilityOperation struct {
	Visibility Visibility `json:"visibility"`
	SharedWith []string   `json:"shared_with,omitempty"`
}

// FolderOperation moves bookmarks into a folder. A nil FolderID clears
// the folder reference. Folder ownership is the caller's responsibility
// to validate before submitting the operation.
type FolderOperation struct {
	FolderID *string `json:"folder_id"`
}

// ShareOperation unions user IDs into each bookmark's shared-with set.
// It never changes visibility as a side effect.
type ShareOperation struct {
	SharedWith []string `json:"shared_with"`
}

// BulkOperation carries exactly one of the four operation kinds.
type BulkOperation struct {
	Tags       *TagOperation        `json:"tags,omitempty"`
	Visibility *VisibilityOperation `json:"visibility,omitempty"`
	Folder     *FolderOperation     `json:"folder,omitempty"`
	Share      *ShareOperation      `json:"share,omitempty"`
}

// Per-item skip/failure reasons recorded in BulkResult.Errors.
const (
	BulkReasonNotFound = "not-found"
	BulkReasonNotOwner = "not-owner"
)

// BulkItemError records why a single bookmark id was not applied.
type BulkItemError struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// BulkResult is the aggregate report of a bulk operation. One item's
// failure is data here, not control flow: the remaining items still run.
type BulkResult struct {
	AppliedCount int             `json:"applied_count"`
	SkippedCount int             `json:"skipped_count"`
	FailedCount  int             `json:"failed_count"`
	Errors       []BulkItemError `json:"errors"`
}

// SnapshotField names the bookmark field a snapshot captured.
type SnapshotField string

const (
	SnapshotTags       SnapshotField = "tags"
	SnapshotVisibility SnapshotField = "visibility"
	SnapshotFolder     SnapshotField = "folder"
	SnapshotSharedWith SnapshotField = "shared_with"
)

// Valid reports whether f is a known snapshot field.
func (f SnapshotField) Valid() bool {
	switch f {
	case SnapshotTags, SnapshotVisibility, SnapshotFolder, SnapshotSharedWith:
		return true
	}
	return false
}

// UndoEntry holds one bookmark's prior value for the snapshot's field.
// Only the members matching the field are meaningful; a visibility
// snapshot captures SharedWith too, since a visibility operation may
// overwrite both.
type UndoEntry struct {
	ID         string     `json:"id"`
	Tags       []string   `json:"tags,omitempty"`
	Visibility Visibility `json:"visibility,omitempty"`
	FolderID   *string    `json:"folder_id,omitempty"`
	SharedWith []string   `json:"shared_with,omitempty"`
}

// UndoSnapshot is a caller-held record sufficient to restore the prior
// state of one field across a set of bookmarks. Replaying it is a second
// pass of idempotent per-id field sets, so entry order does not matter.
type UndoSnapshot struct {
	Field   SnapshotField `json:"field"`
	Entries []UndoEntry   `json:"entries"`
}
