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

// projectService implements the ProjectService interface
type projectService struct {
	store       repositories.DocumentStore
	collections *repositories.CollectionNames
	prompts     services.PromptService
	dialogs     services.DialogService
	logger      *slog.Logger
}

// NewProjectService creates a new project service
func NewProjectService(
	store repositories.DocumentStore,
	collections *repositories.CollectionNames,
	prompts services.PromptService,
	dialogs services.DialogService,
	logger *slog.Logger,
) services.ProjectService {
	return &projectService{
		store:       store,
		collections: collections,
		prompts:     prompts,
		dialogs:     dialogs,
		logger:      logger,
	}
}

// ListProjects retrieves every project
func (s *projectService) ListProjects(ctx context.Context) ([]*models.Project, error) {
	q, err := query.NewFilter().
		Exists("project_title", true).
		Include("project_title", "updated_at").
		BuildWithProjection()
	if err != nil {
		return nil, err
	}
	return readAll(ctx, s.store, s.collections.Projects, q, models.ProjectFromRecord)
}

// GetProject retrieves a project by ID
func (s *projectService) GetProject(ctx context.Context, id string) (*models.Project, error) {
	f, err := query.ByID(id)
	if err != nil {
		return nil, err
	}
	q, err := f.Include("project_title", "created_at", "updated_at").BuildWithProjection()
	if err != nil {
		return nil, err
	}

	rec, err := readOne(ctx, s.store, s.collections.Projects, q)
	if err != nil {
		return nil, withKind("project", id, err)
	}
	return models.ProjectFromRecord(rec)
}

// GetProjectDetail retrieves a project with its prompts and dialogs
func (s *projectService) GetProjectDetail(ctx context.Context, id string) (*services.ProjectDetail, error) {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	prompts, err := s.prompts.ListPrompts(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}

	dialogs, err := s.dialogs.ListDialogs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list dialogs: %w", err)
	}

	return &services.ProjectDetail{
		Project: project,
		Prompts: prompts,
		Dialogs: dialogs,
	}, nil
}

// CreateProject creates a new project
func (s *projectService) CreateProject(ctx context.Context, req *services.CreateProjectRequest) (*models.Project, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	project := models.NewProject(strings.TrimSpace(req.ProjectTitle))

	id, err := s.store.Create(ctx, s.collections.Projects, project)
	if err != nil {
		return nil, err
	}
	project.ID = id

	s.logger.Info("project created",
		"id", project.IDHex(),
		"title", project.ProjectTitle,
	)

	return project, nil
}

// UpdateProject updates a project's title
func (s *projectService) UpdateProject(ctx context.Context, id string, req *services.UpdateProjectRequest) (*models.Project, error) {
	if req == nil || req.ProjectTitle == nil {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrNoData)
	}
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	f, err := query.ByID(id)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(*req.ProjectTitle)
	update := query.NewUpdate().
		Set("project_title", title).
		SetUpdatedAt()

	if err := s.store.Update(ctx, s.collections.Projects, f.Build(), update.Build()); err != nil {
		return nil, withKind("project", id, err)
	}

	s.logger.Info("project updated",
		"id", id,
		"title", title,
	)

	return s.GetProject(ctx, id)
}

// DeleteProject deletes a project. Prompts and dialogs under it are not touched.
func (s *projectService) DeleteProject(ctx context.Context, id string) error {
	f, err := query.ByID(id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, s.collections.Projects, f.Build()); err != nil {
		return withKind("project", id, err)
	}

	s.logger.Info("project deleted", "id", id)

	return nil
}

// validateCreateRequest validates a create project request
func (s *projectService) validateCreateRequest(req *services.CreateProjectRequest) error {
	if req == nil {
		return fmt.Errorf("request is required")
	}
	return validation.ValidateStruct(req,
		validation.Field(&req.ProjectTitle,
			validation.Required,
			validation.Length(1, config.MaxProjectTitleLength),
			validation.By(notBlank),
		),
	)
}

// validateUpdateRequest validates an update project request
func (s *projectService) validateUpdateRequest(req *services.UpdateProjectRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ProjectTitle,
			validation.Length(1, config.MaxProjectTitleLength),
			validation.By(notBlank),
		),
	)
}
