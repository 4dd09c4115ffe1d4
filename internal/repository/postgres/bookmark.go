package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"linkhive/internal/domain"
	"linkhive/internal/domain/models"
	"linkhive/internal/domain/repositories"
)

const bookmarkColumns = `id, owner_id, folder_id, url, title, description, tags, favicon, visibility, shared_with, created_at, updated_at`

// PostgresBookmarkRepository implements the BookmarkRepository interface.
// Tags and shared_with are stored as text[] columns; pgx encodes Go
// string slices to them natively.
type PostgresBookmarkRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewBookmarkRepository creates a new bookmark repository
func NewBookmarkRepository(config *RepositoryConfig) repositories.BookmarkRepository {
	return &PostgresBookmarkRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new bookmark
func (r *PostgresBookmarkRepository) Create(ctx context.Context, bookmark *models.Bookmark) error {
	if bookmark.ID == "" {
		bookmark.ID = uuid.NewString()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, r.tables.Bookmarks, bookmarkColumns)

	db := GetExecutor(ctx, r.pool)
	_, err := db.Exec(ctx, query,
		bookmark.ID,
		bookmark.OwnerID,
		bookmark.FolderID,
		bookmark.URL,
		bookmark.Title,
		bookmark.Description,
		bookmark.Tags,
		bookmark.Favicon,
		bookmark.Visibility,
		bookmark.SharedWith,
		bookmark.CreatedAt,
		bookmark.UpdatedAt,
	)

	if err != nil {
		if isPgDuplicateError(err) {
			existingID, queryErr := r.getExistingBookmarkID(ctx, bookmark.OwnerID, bookmark.URL)
			if queryErr != nil {
				return fmt.Errorf("bookmark '%s': %w", bookmark.Title, domain.ErrConflict)
			}

			return &domain.ConflictError{
				Message:      fmt.Sprintf("bookmark for '%s' already exists", bookmark.URL),
				ResourceType: "bookmark",
				ResourceID:   existingID,
			}
		}
		return fmt.Errorf("create bookmark: %w", err)
	}

	return nil
}

// getExistingBookmarkID finds the bookmark whose url collided with an insert
func (r *PostgresBookmarkRepository) getExistingBookmarkID(ctx context.Context, ownerID, url string) (string, error) {
	query := fmt.Sprintf(`
		SELECT id FROM %s
		WHERE owner_id = $1 AND url = $2
	`, r.tables.Bookmarks)

	db := GetExecutor(ctx, r.pool)
	var id string
	if err := db.QueryRow(ctx, query, ownerID, url).Scan(&id); err != nil {
		return "", fmt.Errorf("find existing bookmark: %w", err)
	}

	return id, nil
}

// GetByID retrieves a bookmark by ID, scoped to its owner
func (r *PostgresBookmarkRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Bookmark, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND owner_id = $2
	`, bookmarkColumns, r.tables.Bookmarks)

	db := GetExecutor(ctx, r.pool)
	bookmark, err := scanBookmark(db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("bookmark %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get bookmark: %w", err)
	}

	return bookmark, nil
}

// GetByIDOnly retrieves a bookmark by ID without owner scoping
func (r *PostgresBookmarkRepository) GetByIDOnly(ctx context.Context, id string) (*models.Bookmark, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, bookmarkColumns, r.tables.Bookmarks)

	db := GetExecutor(ctx, r.pool)
	bookmark, err := scanBookmark(db.QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("bookmark %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get bookmark: %w", err)
	}

	return bookmark, nil
}

// Update updates a bookmark
func (r *PostgresBookmarkRepository) Update(ctx context.Context, bookmark *models.Bookmark) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = $1, url = $2, title = $3, description = $4, tags = $5, favicon = $6, visibility = $7, shared_with = $8, updated_at = $9
		WHERE id = $10 AND owner_id = $11
	`, r.tables.Bookmarks)

	db := GetExecutor(ctx, r.pool)
	result, err := db.Exec(ctx, query,
		bookmark.FolderID,
		bookmark.URL,
		bookmark.Title,
		bookmark.Description,
		bookmark.Tags,
		bookmark.Favicon,
		bookmark.Visibility,
		bookmark.SharedWith,
		bookmark.UpdatedAt,
		bookmark.ID,
		bookmark.OwnerID,
	)

	if err != nil {
		return fmt.Errorf("update bookmark: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("bookmark %s: %w", bookmark.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a bookmark
func (r *PostgresBookmarkRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND owner_id = $2
	`, r.tables.Bookmarks)

	db := GetExecutor(ctx, r.pool)
	result, err := db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("bookmark %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListByFolder lists bookmarks in a folder (nil = outside any folder)
func (r *PostgresBookmarkRepository) ListByFolder(ctx context.Context, folderID *string, ownerID string) ([]models.Bookmark, error) {
	var query string
	var args []interface{}

	if folderID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE owner_id = $1 AND folder_id IS NULL
			ORDER BY created_at DESC
		`, bookmarkColumns, r.tables.Bookmarks)
		args = append(args, ownerID)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE owner_id = $1 AND folder_id = $2
			ORDER BY created_at DESC
		`, bookmarkColumns, r.tables.Bookmarks)
		args = append(args, ownerID, *folderID)
	}

	db := GetExecutor(ctx, r.pool)
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []models.Bookmark
	for rows.Next() {
		bookmark, err := scanBookmark(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		bookmarks = append(bookmarks, *bookmark)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookmarks: %w", err)
	}

	return bookmarks, nil
}

// CountByFolder counts bookmarks whose folder field equals folderID
func (r *PostgresBookmarkRepository) CountByFolder(ctx context.Context, folderID, ownerID string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s WHERE owner_id = $1 AND folder_id = $2
	`, r.tables.Bookmarks)

	db := GetExecutor(ctx, r.pool)
	var count int
	if err := db.QueryRow(ctx, query, ownerID, folderID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count bookmarks: %w", err)
	}

	return count, nil
}

// Reparent moves every bookmark in fromFolderID to toFolderID in one
// bulk update
func (r *PostgresBookmarkRepository) Reparent(ctx context.Context, fromFolderID string, toFolderID *string, ownerID string) (int64, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = $1, updated_at = NOW()
		WHERE owner_id = $2 AND folder_id = $3
	`, r.tables.Bookmarks)

	db := GetExecutor(ctx, r.pool)
	result, err := db.Exec(ctx, query, toFolderID, ownerID, fromFolderID)
	if err != nil {
		return 0, fmt.Errorf("reparent bookmarks: %w", err)
	}

	return result.RowsAffected(), nil
}

func scanBookmark(row rowScanner) (*models.Bookmark, error) {
	var bookmark models.Bookmark
	err := row.Scan(
		&bookmark.ID,
		&bookmark.OwnerID,
		&bookmark.FolderID,
		&bookmark.URL,
		&bookmark.Title,
		&bookmark.Description,
		&bookmark.Tags,
		&bookmark.Favicon,
		&bookmark.Visibility,
		&bookmark.SharedWith,
		&bookmark.CreatedAt,
		&bookmark.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &bookmark, nil
}
