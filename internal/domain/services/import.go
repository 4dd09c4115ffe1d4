package services

import (
	"context"

	"linkhive/internal/domain/models"
)

// ImportService materializes a parsed bookmark-file record list into the
// caller's account: folders first (building a parser-local-id map), then
// bookmarks with folder references resolved through that map.
type ImportService interface {
	Import(ctx context.Context, ownerID string, records []models.ImportRecord) (*models.ImportResult, error)
}
