package models

import (
	"regexp"
	"time"
)

// Folder appearance defaults applied when a create request leaves them out.
const (
	DefaultFolderColor = "#3B82F6"
	DefaultFolderIcon  = "folder"
)

// ColorPattern matches #RGB and #RRGGBB hex colors.
var ColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Folder is a node in a user's folder hierarchy. ParentID is nil for
// top-level folders. BookmarkCount is a cached value, refreshed by an
// explicit sync rather than on every bookmark write.
type Folder struct {
	ID            string    `json:"id" db:"id"`
	OwnerID       string    `json:"owner_id" db:"owner_id"`
	ParentID      *string   `json:"parent_id" db:"parent_id"` // NULL = root level
	Name          string    `json:"name" db:"name"`
	Description   string    `json:"description,omitempty" db:"description"`
	IsRoot        bool      `json:"is_root" db:"is_root"`
	Order         int       `json:"order" db:"sort_order"`
	Color         string    `json:"color" db:"color"`
	Icon          string    `json:"icon" db:"icon"`
	BookmarkCount int       `json:"bookmark_count" db:"bookmark_count"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
