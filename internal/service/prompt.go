package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"assistant/internal/config"
	"assistant/internal/domain"
	"assistant/internal/domain/models"
	"assistant/internal/domain/repositories"
	"assistant/internal/domain/services"
	"assistant/internal/query"
)

var promptListFields = []string{"project_id", "prompt_version", "prompt_content", "updated_at"}

// promptService implements the PromptService interface
type promptService struct {
	store       repositories.DocumentStore
	collections *repositories.CollectionNames
	logger      *slog.Logger
}

// NewPromptService creates a new prompt service
func NewPromptService(
	store repositories.DocumentStore,
	collections *repositories.CollectionNames,
	logger *slog.Logger,
) services.PromptService {
	return &promptService{
		store:       store,
		collections: collections,
		logger:      logger,
	}
}

// ListPrompts retrieves the prompts of a project
func (s *promptService) ListPrompts(ctx context.Context, projectID string) ([]*models.Prompt, error) {
	q, err := query.NewFilter().
		Equals("project_id", projectID).
		Include(promptListFields...).
		BuildWithProjection()
	if err != nil {
		return nil, err
	}
	return readAll(ctx, s.store, s.collections.Prompts, q, models.PromptFromRecord)
}

// GetPrompt retrieves a prompt by ID
func (s *promptService) GetPrompt(ctx context.Context, id string) (*models.Prompt, error) {
	f, err := query.ByID(id)
	if err != nil {
		return nil, err
	}
	q, err := f.Include(append(promptListFields, "created_at")...).BuildWithProjection()
	if err != nil {
		return nil, err
	}

	rec, err := readOne(ctx, s.store, s.collections.Prompts, q)
	if err != nil {
		return nil, withKind("prompt", id, err)
	}
	return models.PromptFromRecord(rec)
}

// CreatePrompt creates a prompt under an existing project
func (s *promptService) CreatePrompt(ctx context.Context, req *services.CreatePromptRequest) (*models.Prompt, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := ensureExists(ctx, s.store, s.collections.Projects, "project", req.ProjectID); err != nil {
		return nil, err
	}

	prompt := models.NewPrompt(req.ProjectID, strings.TrimSpace(req.PromptVersion), req.PromptContent)

	id, err := s.store.Create(ctx, s.collections.Prompts, prompt)
	if err != nil {
		return nil, err
	}
	prompt.ID = id

	s.logger.Info("prompt created",
		"id", prompt.IDHex(),
		"project_id", prompt.ProjectID,
		"version", prompt.PromptVersion,
	)

	return prompt, nil
}

// UpdatePrompt replaces a prompt's content
func (s *promptService) UpdatePrompt(ctx context.Context, id string, req *services.UpdatePromptRequest) (*models.Prompt, error) {
	if req == nil || req.PromptContent == nil {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrNoData)
	}
	if err := validation.ValidateStruct(req,
		validation.Field(&req.PromptContent,
			validation.Length(1, config.MaxPromptContentLength),
			validation.By(notBlank),
		),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	f, err := query.ByID(id)
	if err != nil {
		return nil, err
	}
	update := query.NewUpdate().
		Set("prompt_content", *req.PromptContent).
		SetUpdatedAt()

	if err := s.store.Update(ctx, s.collections.Prompts, f.Build(), update.Build()); err != nil {
		return nil, withKind("prompt", id, err)
	}

	s.logger.Info("prompt updated", "id", id)

	return s.GetPrompt(ctx, id)
}

// DeletePrompt deletes a prompt
func (s *promptService) DeletePrompt(ctx context.Context, id string) error {
	f, err := query.ByID(id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, s.collections.Prompts, f.Build()); err != nil {
		return withKind("prompt", id, err)
	}

	s.logger.Info("prompt deleted", "id", id)

	return nil
}

// validateCreateRequest validates a create prompt request
func (s *promptService) validateCreateRequest(req *services.CreatePromptRequest) error {
	if req == nil {
		return fmt.Errorf("request is required")
	}
	return validation.ValidateStruct(req,
		validation.Field(&req.ProjectID, validation.Required),
		validation.Field(&req.PromptVersion,
			validation.Required,
			validation.Length(1, config.MaxPromptVersionLength),
			validation.By(notBlank),
		),
		validation.Field(&req.PromptContent,
			validation.Required,
			validation.Length(1, config.MaxPromptContentLength),
			validation.By(notBlank),
		),
	)
}
