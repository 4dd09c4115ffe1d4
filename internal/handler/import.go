package handler

import (
	"log/slog"
	"net/http"

	"linkhive/internal/domain/services"
	"linkhive/internal/httputil"
	"linkhive/internal/importer"
)

// ImportHandler accepts browser bookmark exports
type ImportHandler struct {
	importService services.ImportService
	logger        *slog.Logger
}

// NewImportHandler creates a new import handler
func NewImportHandler(importService services.ImportService, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		logger:        logger,
	}
}

// Import parses a Netscape-format bookmark file from the request body
// and stores its folders and bookmarks under the caller's account
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	body := http.MaxBytesReader(w, r.Body, 10<<20)
	records, err := importer.ParseNetscape(body)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.importService.Import(r.Context(), userID, records)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
