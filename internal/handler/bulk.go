package handler

import (
	"log/slog"
	"net/http"

	"linkhive/internal/domain/models"
	"linkhive/internal/domain/services"
	"linkhive/internal/httputil"
)

// BulkHandler handles HTTP requests for bulk bookmark mutations
type BulkHandler struct {
	bulkService services.BulkService
	logger      *slog.Logger
}

// NewBulkHandler creates a new bulk handler
func NewBulkHandler(bulkService services.BulkService, logger *slog.Logger) *BulkHandler {
	return &BulkHandler{
		bulkService: bulkService,
		logger:      logger,
	}
}

// bulkRequest carries the target ids and exactly one operation
type bulkRequest struct {
	BookmarkIDs []string             `json:"bookmark_ids"`
	Operation   models.BulkOperation `json:"operation"`
}

// Apply runs one operation over many bookmarks. The response is 200 even
// when some items were skipped or failed; the per-item report carries
// the details.
func (h *BulkHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.bulkService.Apply(r.Context(), httputil.GetUserID(r), req.BookmarkIDs, &req.Operation)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// snapshotRequest names the ids and the field to capture
type snapshotRequest struct {
	BookmarkIDs []string             `json:"bookmark_ids"`
	Field       models.SnapshotField `json:"field"`
}

// Snapshot captures the prior value of one field across the given ids,
// for the client to hold as undo state
func (h *BulkHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	var req snapshotRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := h.bulkService.CaptureSnapshot(r.Context(), httputil.GetUserID(r), req.BookmarkIDs, req.Field)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, snap)
}

// Undo replays a previously captured snapshot
func (h *BulkHandler) Undo(w http.ResponseWriter, r *http.Request) {
	var snap models.UndoSnapshot
	if err := httputil.ParseJSON(w, r, &snap); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.bulkService.ApplySnapshot(r.Context(), httputil.GetUserID(r), &snap)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
