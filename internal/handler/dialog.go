package handler

import (
	"log/slog"
	"net/http"

	"assistant/internal/domain/services"
	"assistant/internal/httputil"
)

// DialogHandler handles dialog HTTP requests
type DialogHandler struct {
	dialogService services.DialogService
	logger        *slog.Logger
}

// NewDialogHandler creates a new dialog handler
func NewDialogHandler(dialogService services.DialogService, logger *slog.Logger) *DialogHandler {
	return &DialogHandler{
		dialogService: dialogService,
		logger:        logger,
	}
}

// CreateDialog creates a dialog under an existing project
// POST /api/dialogs
func (h *DialogHandler) CreateDialog(w http.ResponseWriter, r *http.Request) {
	var req services.CreateDialogRequest
	if !parseBody(w, r, &req) {
		return
	}

	dialog, err := h.dialogService.CreateDialog(r.Context(), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, dialog)
}

// GetDialog retrieves a dialog with its messages
// GET /api/projects/{projectID}/dialogs/{id}
func (h *DialogHandler) GetDialog(w http.ResponseWriter, r *http.Request) {
	projectID, ok := PathParam(w, r, "projectID", "Project ID")
	if !ok {
		return
	}
	id, ok := PathParam(w, r, "id", "Dialog ID")
	if !ok {
		return
	}

	dialog, err := h.dialogService.GetDialog(r.Context(), projectID, id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, dialog)
}

// UpdateDialog renames a dialog
// PATCH /api/dialogs/{id}
func (h *DialogHandler) UpdateDialog(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Dialog ID")
	if !ok {
		return
	}

	var req services.UpdateDialogRequest
	if !parseBody(w, r, &req) {
		return
	}

	dialog, err := h.dialogService.UpdateDialog(r.Context(), id, &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, dialog)
}

// DeleteDialog deletes a dialog
// DELETE /api/dialogs/{id}
func (h *DialogHandler) DeleteDialog(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Dialog ID")
	if !ok {
		return
	}

	if err := h.dialogService.DeleteDialog(r.Context(), id); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AppendMessages appends messages to the end of a dialog
// POST /api/dialogs/{id}/messages
func (h *DialogHandler) AppendMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Dialog ID")
	if !ok {
		return
	}

	var req services.AppendMessagesRequest
	if !parseBody(w, r, &req) {
		return
	}

	if err := h.dialogService.AppendMessages(r.Context(), id, req.Messages); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
