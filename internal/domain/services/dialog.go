package services

import (
	"context"

	"assistant/internal/domain/models"
)

// CreateDialogRequest represents a request to create a dialog
type CreateDialogRequest struct {
	ProjectID     string           `json:"project_id"`
	DialogTitle   string           `json:"dialog_title"`
	DialogContent []models.Message `json:"dialog_content"`
}

// UpdateDialogRequest represents a request to update a dialog
type UpdateDialogRequest struct {
	DialogTitle *string `json:"dialog_title"`
}

// AppendMessagesRequest carries messages to add to the end of a dialog
type AppendMessagesRequest struct {
	Messages []models.Message `json:"messages"`
}

// DialogService defines business logic operations for dialogs
type DialogService interface {
	// ListDialogs returns the dialogs of a project without their content
	ListDialogs(ctx context.Context, projectID string) ([]*models.Dialog, error)

	// GetDialog retrieves a dialog scoped to its project
	GetDialog(ctx context.Context, projectID, id string) (*models.Dialog, error)

	CreateDialog(ctx context.Context, req *CreateDialogRequest) (*models.Dialog, error)

	UpdateDialog(ctx context.Context, id string, req *UpdateDialogRequest) (*models.Dialog, error)

	DeleteDialog(ctx context.Context, id string) error

	// AppendMessage adds one message to the end of the dialog
	AppendMessage(ctx context.Context, id string, msg models.Message) error

	// AppendMessages adds messages to the end of the dialog in order, in one
	// update. The existing content is never rewritten.
	AppendMessages(ctx context.Context, id string, msgs []models.Message) error

	// RecordExchange appends a finished generation exchange. Unlike
	// AppendMessages it does not apply client input limits, since the
	// assistant reply is bounded only by the model.
	RecordExchange(ctx context.Context, id string, msgs []models.Message) error

	// Exists reports whether the dialog exists, as ErrNotFound when it does not
	Exists(ctx context.Context, id string) error
}
