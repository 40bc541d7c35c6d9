package services

import (
	"context"

	"assistant/internal/domain/models"
)

// CreatePromptRequest represents a request to create a prompt
type CreatePromptRequest struct {
	ProjectID     string `json:"project_id"`
	PromptVersion string `json:"prompt_version"`
	PromptContent string `json:"prompt_content"`
}

// UpdatePromptRequest represents a request to update a prompt
type UpdatePromptRequest struct {
	PromptContent *string `json:"prompt_content"`
}

// PromptService defines business logic operations for prompts
type PromptService interface {
	// ListPrompts returns the prompts of a project in storage order
	ListPrompts(ctx context.Context, projectID string) ([]*models.Prompt, error)

	GetPrompt(ctx context.Context, id string) (*models.Prompt, error)

	// CreatePrompt creates a prompt under an existing project
	CreatePrompt(ctx context.Context, req *CreatePromptRequest) (*models.Prompt, error)

	UpdatePrompt(ctx context.Context, id string, req *UpdatePromptRequest) (*models.Prompt, error)

	DeletePrompt(ctx context.Context, id string) error
}
