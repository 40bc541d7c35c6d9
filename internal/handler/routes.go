package handler

import "net/http"

// Handlers groups every HTTP handler the server exposes
type Handlers struct {
	Health   *HealthHandler
	Metrics  http.Handler
	Models   *ModelsHandler
	Project  *ProjectHandler
	Prompt   *PromptHandler
	Dialog   *DialogHandler
	Generate *GenerateHandler
}

// RegisterRoutes installs all routes on mux (Go 1.22+ enhanced patterns)
func RegisterRoutes(mux *http.ServeMux, h *Handlers) {
	// Health check and metrics
	mux.HandleFunc("GET /health", h.Health.Health)
	if h.Metrics != nil {
		mux.Handle("GET /metrics", h.Metrics)
	}

	// Model capabilities routes
	mux.HandleFunc("GET /api/models/capabilities", h.Models.GetCapabilities)

	// Project routes
	mux.HandleFunc("GET /api/projects", h.Project.ListProjects)
	mux.HandleFunc("POST /api/projects", h.Project.CreateProject)
	mux.HandleFunc("GET /api/projects/{id}", h.Project.GetProject)
	mux.HandleFunc("PATCH /api/projects/{id}", h.Project.UpdateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", h.Project.DeleteProject)
	mux.HandleFunc("GET /api/projects/{id}/prompts", h.Project.ListPrompts)
	mux.HandleFunc("GET /api/projects/{id}/dialogs", h.Project.ListDialogs)
	mux.HandleFunc("GET /api/projects/{projectID}/dialogs/{id}", h.Dialog.GetDialog)

	// Prompt routes
	mux.HandleFunc("POST /api/prompts", h.Prompt.CreatePrompt)
	mux.HandleFunc("GET /api/prompts/{id}", h.Prompt.GetPrompt)
	mux.HandleFunc("PATCH /api/prompts/{id}", h.Prompt.UpdatePrompt)
	mux.HandleFunc("DELETE /api/prompts/{id}", h.Prompt.DeletePrompt)

	// Dialog routes
	mux.HandleFunc("POST /api/dialogs", h.Dialog.CreateDialog)
	mux.HandleFunc("PATCH /api/dialogs/{id}", h.Dialog.UpdateDialog)
	mux.HandleFunc("DELETE /api/dialogs/{id}", h.Dialog.DeleteDialog)
	mux.HandleFunc("POST /api/dialogs/{id}/messages", h.Dialog.AppendMessages)

	// Streaming generation (SSE)
	mux.HandleFunc("POST /api/generate", h.Generate.Generate)
}
