package handler

import (
	"net/http"

	"assistant/internal/capabilities"
	"assistant/internal/httputil"
)

// ModelsHandler serves the model catalog
type ModelsHandler struct {
	defaultModel string
	registry     *capabilities.Registry
}

// NewModelsHandler creates a new models handler
func NewModelsHandler(defaultModel string, registry *capabilities.Registry) *ModelsHandler {
	return &ModelsHandler{
		defaultModel: defaultModel,
		registry:     registry,
	}
}

// ProviderResponse is one provider and its models in catalog order
type ProviderResponse struct {
	ID     string                           `json:"id"`
	Name   string                           `json:"name"`
	Models []capabilities.ModelCapabilities `json:"models"`
}

// CapabilitiesResponse is the body of GET /api/models/capabilities
type CapabilitiesResponse struct {
	DefaultModel string             `json:"default_model"`
	Providers    []ProviderResponse `json:"providers"`
}

// GetCapabilities lists every catalogued model and the model used when a
// generation request names none.
// GET /api/models/capabilities
func (h *ModelsHandler) GetCapabilities(w http.ResponseWriter, r *http.Request) {
	resp := CapabilitiesResponse{
		DefaultModel: h.defaultModel,
		Providers:    []ProviderResponse{},
	}

	for _, id := range h.registry.GetAllProviders() {
		p, ok := h.registry.GetProvider(id)
		if !ok {
			continue
		}
		models := p.Models
		if models == nil {
			models = []capabilities.ModelCapabilities{}
		}
		resp.Providers = append(resp.Providers, ProviderResponse{
			ID:     id,
			Name:   p.DisplayName,
			Models: models,
		})
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}
