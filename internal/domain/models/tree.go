package models

import "time"

// FolderTreeNode is a folder with its nested children, as returned by the
// tree endpoint. Children are sorted by (Order, Name).
type FolderTreeNode struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	ParentID      *string           `json:"parent_id"`
	Color         string            `json:"color"`
	Icon          string            `json:"icon"`
	Order         int               `json:"order"`
	BookmarkCount int               `json:"bookmark_count"`
	CreatedAt     time.Time         `json:"created_at"`
	Children      []*FolderTreeNode `json:"children"`
}

// FolderForest is the full tree response: all of an owner's top-level
// folders with children nested beneath them.
type FolderForest struct {
	Folders []*FolderTreeNode `json:"folders"`
}

// PathEntry is one step in a folder's ancestry, root first.
type PathEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
