package services

import (
	"context"

	"assistant/internal/domain/models"
)

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	ProjectTitle string `json:"project_title"`
}

// UpdateProjectRequest represents a request to update a project.
// Nil fields are left unchanged.
type UpdateProjectRequest struct {
	ProjectTitle *string `json:"project_title"`
}

// ProjectDetail is a project with everything that belongs to it
type ProjectDetail struct {
	Project *models.Project  `json:"project"`
	Prompts []*models.Prompt `json:"prompts"`
	Dialogs []*models.Dialog `json:"dialogs"`
}

// ProjectService defines business logic operations for projects
type ProjectService interface {
	// ListProjects returns every project with its title and updated_at.
	// No projects is an empty list, not an error.
	ListProjects(ctx context.Context) ([]*models.Project, error)

	// GetProject retrieves a project by ID
	GetProject(ctx context.Context, id string) (*models.Project, error)

	// GetProjectDetail retrieves a project with its prompts and dialogs
	GetProjectDetail(ctx context.Context, id string) (*ProjectDetail, error)

	// CreateProject creates a new project. Titles are unique.
	CreateProject(ctx context.Context, req *CreateProjectRequest) (*models.Project, error)

	// UpdateProject updates whitelisted fields and stamps updated_at
	UpdateProject(ctx context.Context, id string, req *UpdateProjectRequest) (*models.Project, error)

	// DeleteProject deletes a project. Its prompts and dialogs are kept.
	DeleteProject(ctx context.Context, id string) error
}
