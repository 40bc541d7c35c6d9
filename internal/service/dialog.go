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

// dialogService implements the DialogService interface
type dialogService struct {
	store       repositories.DocumentStore
	collections *repositories.CollectionNames
	logger      *slog.Logger
}

// NewDialogService creates a new dialog service
func NewDialogService(
	store repositories.DocumentStore,
	collections *repositories.CollectionNames,
	logger *slog.Logger,
) services.DialogService {
	return &dialogService{
		store:       store,
		collections: collections,
		logger:      logger,
	}
}

// ListDialogs retrieves a project's dialogs without their messages
func (s *dialogService) ListDialogs(ctx context.Context, projectID string) ([]*models.Dialog, error) {
	q, err := query.NewFilter().
		Equals("project_id", projectID).
		Include("project_id", "dialog_title", "updated_at").
		BuildWithProjection()
	if err != nil {
		return nil, err
	}
	return readAll(ctx, s.store, s.collections.Dialogs, q, models.DialogFromRecord)
}

// GetDialog retrieves a dialog with its messages, scoped to its project
func (s *dialogService) GetDialog(ctx context.Context, projectID, id string) (*models.Dialog, error) {
	f, err := query.ByID(id)
	if err != nil {
		return nil, err
	}
	q, err := f.
		Equals("project_id", projectID).
		Include("project_id", "dialog_title", "dialog_content", "created_at", "updated_at").
		BuildWithProjection()
	if err != nil {
		return nil, err
	}

	rec, err := readOne(ctx, s.store, s.collections.Dialogs, q)
	if err != nil {
		return nil, withKind("dialog", id, err)
	}
	return models.DialogFromRecord(rec)
}

// CreateDialog creates a dialog under an existing project
func (s *dialogService) CreateDialog(ctx context.Context, req *services.CreateDialogRequest) (*models.Dialog, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := ensureExists(ctx, s.store, s.collections.Projects, "project", req.ProjectID); err != nil {
		return nil, err
	}

	dialog := models.NewDialog(req.ProjectID, strings.TrimSpace(req.DialogTitle), req.DialogContent)

	id, err := s.store.Create(ctx, s.collections.Dialogs, dialog)
	if err != nil {
		return nil, err
	}
	dialog.ID = id

	s.logger.Info("dialog created",
		"id", dialog.IDHex(),
		"project_id", dialog.ProjectID,
		"messages", len(dialog.DialogContent),
	)

	return dialog, nil
}

// UpdateDialog renames a dialog. Messages are only ever appended.
func (s *dialogService) UpdateDialog(ctx context.Context, id string, req *services.UpdateDialogRequest) (*models.Dialog, error) {
	if req == nil || req.DialogTitle == nil {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrNoData)
	}
	if err := validation.ValidateStruct(req,
		validation.Field(&req.DialogTitle,
			validation.Length(1, config.MaxDialogTitleLength),
			validation.By(notBlank),
		),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	f, err := query.ByID(id)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(*req.DialogTitle)
	update := query.NewUpdate().
		Set("dialog_title", title).
		SetUpdatedAt()

	if err := s.store.Update(ctx, s.collections.Dialogs, f.Build(), update.Build()); err != nil {
		return nil, withKind("dialog", id, err)
	}

	s.logger.Info("dialog updated",
		"id", id,
		"title", title,
	)

	return s.getByID(ctx, id)
}

// DeleteDialog deletes a dialog and every message in it
func (s *dialogService) DeleteDialog(ctx context.Context, id string) error {
	f, err := query.ByID(id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, s.collections.Dialogs, f.Build()); err != nil {
		return withKind("dialog", id, err)
	}

	s.logger.Info("dialog deleted", "id", id)

	return nil
}

// AppendMessage appends one message to a dialog
func (s *dialogService) AppendMessage(ctx context.Context, id string, msg models.Message) error {
	return s.AppendMessages(ctx, id, []models.Message{msg})
}

// AppendMessages validates client-supplied messages and appends them
func (s *dialogService) AppendMessages(ctx context.Context, id string, msgs []models.Message) error {
	if len(msgs) == 0 {
		return fmt.Errorf("%w: no messages to append", domain.ErrNoData)
	}
	if err := validateMessages(msgs, config.MaxMessagesPerAppend); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return s.push(ctx, id, msgs)
}

// RecordExchange appends generated messages without input limits
func (s *dialogService) RecordExchange(ctx context.Context, id string, msgs []models.Message) error {
	if len(msgs) == 0 {
		return fmt.Errorf("%w: no messages to append", domain.ErrNoData)
	}
	return s.push(ctx, id, msgs)
}

// push appends msgs in order with a single $push/$each update
func (s *dialogService) push(ctx context.Context, id string, msgs []models.Message) error {
	f, err := query.ByID(id)
	if err != nil {
		return err
	}

	values := make([]any, len(msgs))
	for i, m := range msgs {
		values[i] = m.Record()
	}
	update := query.NewUpdate().
		PushAll("dialog_content", values...).
		SetUpdatedAt()

	if err := s.store.Update(ctx, s.collections.Dialogs, f.Build(), update.Build()); err != nil {
		return withKind("dialog", id, err)
	}

	s.logger.Debug("messages appended",
		"dialog_id", id,
		"count", len(msgs),
	)

	return nil
}

// Exists reports ErrNotFound when the dialog does not exist
func (s *dialogService) Exists(ctx context.Context, id string) error {
	return ensureExists(ctx, s.store, s.collections.Dialogs, "dialog", id)
}

func (s *dialogService) getByID(ctx context.Context, id string) (*models.Dialog, error) {
	f, err := query.ByID(id)
	if err != nil {
		return nil, err
	}
	q, err := f.Include("project_id", "dialog_title", "created_at", "updated_at").BuildWithProjection()
	if err != nil {
		return nil, err
	}
	rec, err := readOne(ctx, s.store, s.collections.Dialogs, q)
	if err != nil {
		return nil, withKind("dialog", id, err)
	}
	return models.DialogFromRecord(rec)
}

// validateCreateRequest validates a create dialog request
func (s *dialogService) validateCreateRequest(req *services.CreateDialogRequest) error {
	if req == nil {
		return fmt.Errorf("request is required")
	}
	if err := validation.ValidateStruct(req,
		validation.Field(&req.ProjectID, validation.Required),
		validation.Field(&req.DialogTitle,
			validation.Required,
			validation.Length(1, config.MaxDialogTitleLength),
			validation.By(notBlank),
		),
	); err != nil {
		return err
	}
	return validateMessages(req.DialogContent, config.MaxHistoryMessages)
}

// validateMessages checks each role is present and content fits. Roles are
// an open set; "tool" or a custom role is stored as given.
func validateMessages(msgs []models.Message, max int) error {
	if len(msgs) > max {
		return fmt.Errorf("at most %d messages allowed, got %d", max, len(msgs))
	}
	for i := range msgs {
		m := &msgs[i]
		if err := validation.ValidateStruct(m,
			validation.Field(&m.Role, validation.Required),
			validation.Field(&m.Content, validation.Length(0, config.MaxMessageContentLength)),
		); err != nil {
			return fmt.Errorf("message %d: %v", i, err)
		}
	}
	return nil
}
