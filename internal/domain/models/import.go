package models

// ImportRecordType discriminates the two record kinds an import file
// flattens to.
type ImportRecordType string

const (
	ImportRecordFolder   ImportRecordType = "folder"
	ImportRecordBookmark ImportRecordType = "bookmark"
)

// ImportRecord is one entry of the flat, ordered list produced by the
// bookmark-file parser. IDs are parser-local; the import service remaps
// them to store-assigned ids as it materializes entities.
type ImportRecord struct {
	Type          ImportRecordType `json:"type"`
	LocalID       string           `json:"id"`
	ParentLocalID *string          `json:"parent_id"` // parser-local, nil = top level
	Name          string           `json:"name,omitempty"`  // folders
	Title         string           `json:"title,omitempty"` // bookmarks
	URL           string           `json:"url,omitempty"`
	Description   string           `json:"description,omitempty"`
	Tags          []string         `json:"tags,omitempty"`
	Favicon       string           `json:"favicon,omitempty"`
}

// ImportError records one record that could not be materialized.
type ImportError struct {
	LocalID string `json:"id"`
	Reason  string `json:"reason"`
}

// ImportResult aggregates an import run. A bad record never aborts the
// whole import; it lands in Errors instead.
type ImportResult struct {
	FoldersCreated   int           `json:"folders_created"`
	BookmarksCreated int           `json:"bookmarks_created"`
	Failed           int           `json:"failed"`
	Errors           []ImportError `json:"errors"`
}
