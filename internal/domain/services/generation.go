package services

import (
	"context"

	"assistant/internal/domain/models"
)

// GenerateRequest asks for a streamed completion that continues a dialog
type GenerateRequest struct {
	DialogID  string           `json:"dialog_id"`
	Messages  []models.Message `json:"messages"`
	UserInput string           `json:"user_input"`

	// Model overrides the configured default when set
	Model string `json:"model,omitempty"`

	// PromptID selects a stored prompt sent as the system message
	PromptID string `json:"prompt_id,omitempty"`
}

// EmitFunc receives each fragment as it arrives. Returning an error aborts
// the generation and nothing is persisted.
type EmitFunc func(fragment string) error

// GenerationService streams completions and records finished exchanges
type GenerationService interface {
	// Generate first takes a slot from the process-wide rate guard and fails
	// with ErrRateLimited before any fragment is emitted when none is left.
	// It then streams fragments to emit. After the upstream stream finishes
	// the user input and the full reply are appended to the dialog together.
	Generate(ctx context.Context, req *GenerateRequest, emit EmitFunc) error
}
