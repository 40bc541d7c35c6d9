package handler

import (
	"log/slog"
	"net/http"

	"assistant/internal/domain/services"
	"assistant/internal/httputil"
)

// PromptHandler handles prompt HTTP requests
type PromptHandler struct {
	promptService services.PromptService
	logger        *slog.Logger
}

// NewPromptHandler creates a new prompt handler
func NewPromptHandler(promptService services.PromptService, logger *slog.Logger) *PromptHandler {
	return &PromptHandler{
		promptService: promptService,
		logger:        logger,
	}
}

// CreatePrompt creates a prompt under an existing project
// POST /api/prompts
func (h *PromptHandler) CreatePrompt(w http.ResponseWriter, r *http.Request) {
	var req services.CreatePromptRequest
	if !parseBody(w, r, &req) {
		return
	}

	prompt, err := h.promptService.CreatePrompt(r.Context(), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, prompt)
}

// GetPrompt retrieves a prompt by ID
// GET /api/prompts/{id}
func (h *PromptHandler) GetPrompt(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Prompt ID")
	if !ok {
		return
	}

	prompt, err := h.promptService.GetPrompt(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, prompt)
}

// UpdatePrompt updates a prompt's content
// PATCH /api/prompts/{id}
func (h *PromptHandler) UpdatePrompt(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Prompt ID")
	if !ok {
		return
	}

	var req services.UpdatePromptRequest
	if !parseBody(w, r, &req) {
		return
	}

	prompt, err := h.promptService.UpdatePrompt(r.Context(), id, &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, prompt)
}

// DeletePrompt deletes a prompt
// DELETE /api/prompts/{id}
func (h *PromptHandler) DeletePrompt(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Prompt ID")
	if !ok {
		return
	}

	if err := h.promptService.DeletePrompt(r.Context(), id); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
