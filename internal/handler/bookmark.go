package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"linkhive/internal/domain"
	"linkhive/internal/domain/models"
	"linkhive/internal/domain/services"
	"linkhive/internal/httputil"
)

// BookmarkHandler handles HTTP requests for single-bookmark operations
type BookmarkHandler struct {
	bookmarkService services.BookmarkService
	logger          *slog.Logger
}

// NewBookmarkHandler creates a new bookmark handler
func NewBookmarkHandler(bookmarkService services.BookmarkService, logger *slog.Logger) *BookmarkHandler {
	return &BookmarkHandler{
		bookmarkService: bookmarkService,
		logger:          logger,
	}
}

// Create saves a new bookmark
func (h *BookmarkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateBookmarkRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := httputil.GetUserID(r)

	bookmark, err := h.bookmarkService.CreateBookmark(r.Context(), userID, &req)
	if err != nil {
		// A url collision comes back as a conflict carrying the existing
		// bookmark's id; answer 409 with that bookmark
		HandleCreateConflict(w, err, func() (*models.Bookmark, error) {
			var conflictErr *domain.ConflictError
			if errors.As(err, &conflictErr) {
				return h.bookmarkService.GetBookmark(r.Context(), userID, conflictErr.ResourceID)
			}
			return nil, err
		})
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, bookmark)
}

// Get returns a single bookmark
func (h *BookmarkHandler) Get(w http.ResponseWriter, r *http.Request) {
	bookmarkID := r.PathValue("id")
	if bookmarkID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "bookmark ID is required")
		return
	}

	bookmark, err := h.bookmarkService.GetBookmark(r.Context(), httputil.GetUserID(r), bookmarkID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, bookmark)
}

// Update updates a bookmark's fields
func (h *BookmarkHandler) Update(w http.ResponseWriter, r *http.Request) {
	bookmarkID := r.PathValue("id")
	if bookmarkID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "bookmark ID is required")
		return
	}

	var req services.UpdateBookmarkRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	bookmark, err := h.bookmarkService.UpdateBookmark(r.Context(), httputil.GetUserID(r), bookmarkID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, bookmark)
}

// Delete removes a bookmark
func (h *BookmarkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	bookmarkID := r.PathValue("id")
	if bookmarkID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "bookmark ID is required")
		return
	}

	if err := h.bookmarkService.DeleteBookmark(r.Context(), httputil.GetUserID(r), bookmarkID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List returns the caller's bookmarks in a folder. Without a folder_id
// query parameter it lists the bookmarks outside any folder.
func (h *BookmarkHandler) List(w http.ResponseWriter, r *http.Request) {
	var folderID *string
	if v := r.URL.Query().Get("folder_id"); v != "" {
		folderID = &v
	}

	bookmarks, err := h.bookmarkService.ListBookmarks(r.Context(), httputil.GetUserID(r), folderID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"bookmarks": bookmarks})
}

// shareRequest is the payload for sharing a bookmark with more users
type shareRequest struct {
	UserIDs []string `json:"user_ids"`
}

// Share adds users to a bookmark's shared-with list
func (h *BookmarkHandler) Share(w http.ResponseWriter, r *http.Request) {
	bookmarkID := r.PathValue("id")
	if bookmarkID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "bookmark ID is required")
		return
	}

	var req shareRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	bookmark, err := h.bookmarkService.ShareBookmark(r.Context(), httputil.GetUserID(r), bookmarkID, req.UserIDs)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, bookmark)
}

// HealthCheck reports service liveness
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
