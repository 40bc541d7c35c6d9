package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assistant/internal/config"
	"assistant/internal/domain"
	"assistant/internal/domain/models"
	"assistant/internal/domain/repositories"
	"assistant/internal/domain/services"
	"assistant/internal/repository/memory"
)

type testEnv struct {
	store    *memory.Store
	projects services.ProjectService
	prompts  services.PromptService
	dialogs  services.DialogService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore(logger, nil)
	names := repositories.NewCollectionNames("test_")
	report := store.EnsureIndexes(context.Background(), repositories.DefaultIndexes(names))
	require.True(t, report.Healthy())

	prompts := NewPromptService(store, names, logger)
	dialogs := NewDialogService(store, names, logger)
	return &testEnv{
		store:    store,
		projects: NewProjectService(store, names, prompts, dialogs, logger),
		prompts:  prompts,
		dialogs:  dialogs,
	}
}

func strPtr(s string) *string { return &s }

func TestScenario_ProjectPromptNoCascade(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	project, err := env.projects.CreateProject(ctx, &services.CreateProjectRequest{ProjectTitle: "Demo"})
	require.NoError(t, err)
	p1 := project.IDHex()
	require.NotEmpty(t, p1)

	prompt, err := env.prompts.CreatePrompt(ctx, &services.CreatePromptRequest{
		ProjectID:     p1,
		PromptVersion: "v1",
		PromptContent: "Hi",
	})
	require.NoError(t, err)
	require.NotEmpty(t, prompt.IDHex())

	prompts, err := env.prompts.ListPrompts(ctx, p1)
	require.NoError(t, err)
	require.Len(t, prompts, 1)
	assert.Equal(t, "v1", prompts[0].PromptVersion)
	assert.Equal(t, "Hi", prompts[0].PromptContent)
	assert.Equal(t, prompt.ID, prompts[0].ID)

	require.NoError(t, env.projects.DeleteProject(ctx, p1))

	_, err = env.projects.GetProject(ctx, p1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	prompts, err = env.prompts.ListPrompts(ctx, p1)
	require.NoError(t, err)
	assert.Len(t, prompts, 1)
}

func TestProjectService_CRUD(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	projects, err := env.projects.ListProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)

	created, err := env.projects.CreateProject(ctx, &services.CreateProjectRequest{ProjectTitle: "  Alpha  "})
	require.NoError(t, err)
	assert.Equal(t, "Alpha", created.ProjectTitle)
	id := created.IDHex()

	got, err := env.projects.GetProject(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", got.ProjectTitle)
	assert.Equal(t, created.CreatedAt.String(), got.CreatedAt.String())

	updated, err := env.projects.UpdateProject(ctx, id, &services.UpdateProjectRequest{ProjectTitle: strPtr("Beta")})
	require.NoError(t, err)
	assert.Equal(t, "Beta", updated.ProjectTitle)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt.Time))

	projects, err = env.projects.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Beta", projects[0].ProjectTitle)
	assert.True(t, projects[0].CreatedAt.IsZero(), "list projection omits created_at")

	require.NoError(t, env.projects.DeleteProject(ctx, id))
	assert.ErrorIs(t, env.projects.DeleteProject(ctx, id), domain.ErrNotFound)
}

func TestProjectService_Errors(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.projects.CreateProject(ctx, &services.CreateProjectRequest{ProjectTitle: "   "})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.projects.CreateProject(ctx, &services.CreateProjectRequest{ProjectTitle: "Dup"})
	require.NoError(t, err)
	_, err = env.projects.CreateProject(ctx, &services.CreateProjectRequest{ProjectTitle: "Dup"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = env.projects.GetProject(ctx, "not-an-id")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.projects.GetProject(ctx, "65a000000000000000000000")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.projects.UpdateProject(ctx, "65a000000000000000000000", &services.UpdateProjectRequest{})
	assert.ErrorIs(t, err, domain.ErrNoData)

	_, err = env.projects.UpdateProject(ctx, "65a000000000000000000000", &services.UpdateProjectRequest{ProjectTitle: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectService_Detail(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	project, err := env.projects.CreateProject(ctx, &services.CreateProjectRequest{ProjectTitle: "Demo"})
	require.NoError(t, err)
	id := project.IDHex()

	detail, err := env.projects.GetProjectDetail(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Demo", detail.Project.ProjectTitle)
	assert.NotNil(t, detail.Prompts)
	assert.Empty(t, detail.Prompts)
	assert.Empty(t, detail.Dialogs)

	_, err = env.prompts.CreatePrompt(ctx, &services.CreatePromptRequest{ProjectID: id, PromptVersion: "v1", PromptContent: "Hi"})
	require.NoError(t, err)
	_, err = env.dialogs.CreateDialog(ctx, &services.CreateDialogRequest{ProjectID: id, DialogTitle: "chat"})
	require.NoError(t, err)

	detail, err = env.projects.GetProjectDetail(ctx, id)
	require.NoError(t, err)
	assert.Len(t, detail.Prompts, 1)
	require.Len(t, detail.Dialogs, 1)
	assert.Nil(t, detail.Dialogs[0].DialogContent, "listing leaves content out")
}

func TestPromptService(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.prompts.CreatePrompt(ctx, &services.CreatePromptRequest{
		ProjectID:     "65a000000000000000000000",
		PromptVersion: "v1",
		PromptContent: "Hi",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "project must exist")

	project, err := env.projects.CreateProject(ctx, &services.CreateProjectRequest{ProjectTitle: "Demo"})
	require.NoError(t, err)

	_, err = env.prompts.CreatePrompt(ctx, &services.CreatePromptRequest{ProjectID: project.IDHex(), PromptVersion: "v1"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	prompt, err := env.prompts.CreatePrompt(ctx, &services.CreatePromptRequest{
		ProjectID:     project.IDHex(),
		PromptVersion: "v1",
		PromptContent: "Hi",
	})
	require.NoError(t, err)

	_, err = env.prompts.CreatePrompt(ctx, &services.CreatePromptRequest{
		ProjectID:     project.IDHex(),
		PromptVersion: "v1",
		PromptContent: "again",
	})
	assert.ErrorIs(t, err, domain.ErrConflict, "prompt_version is unique")

	updated, err := env.prompts.UpdatePrompt(ctx, prompt.IDHex(), &services.UpdatePromptRequest{PromptContent: strPtr("Hello")})
	require.NoError(t, err)
	assert.Equal(t, "Hello", updated.PromptContent)
	assert.Equal(t, "v1", updated.PromptVersion)

	_, err = env.prompts.UpdatePrompt(ctx, prompt.IDHex(), nil)
	assert.ErrorIs(t, err, domain.ErrNoData)

	require.NoError(t, env.prompts.DeletePrompt(ctx, prompt.IDHex()))
	_, err = env.prompts.GetPrompt(ctx, prompt.IDHex())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDialogService_AppendIsOrderPreserving(t *testing.T) {
	ctx := context.Background()
	m1 := models.Message{Role: models.RoleUser, Content: "m1"}
	m2 := models.Message{Role: models.RoleAssistant, Content: "m2"}
	seed := []models.Message{{Role: models.RoleUser, Content: "m0"}}

	setup := func(t *testing.T) (*testEnv, string, string) {
		env := newTestEnv(t)
		project, err := env.projects.CreateProject(ctx, &services.CreateProjectRequest{ProjectTitle: "Demo"})
		require.NoError(t, err)
		dialog, err := env.dialogs.CreateDialog(ctx, &services.CreateDialogRequest{
			ProjectID:     project.IDHex(),
			DialogTitle:   "chat",
			DialogContent: seed,
		})
		require.NoError(t, err)
		return env, project.IDHex(), dialog.IDHex()
	}

	envA, projectA, dialogA := setup(t)
	require.NoError(t, envA.dialogs.AppendMessage(ctx, dialogA, m1))
	require.NoError(t, envA.dialogs.AppendMessage(ctx, dialogA, m2))

	envB, projectB, dialogB := setup(t)
	require.NoError(t, envB.dialogs.AppendMessages(ctx, dialogB, []models.Message{m1, m2}))

	a, err := envA.dialogs.GetDialog(ctx, projectA, dialogA)
	require.NoError(t, err)
	b, err := envB.dialogs.GetDialog(ctx, projectB, dialogB)
	require.NoError(t, err)

	want := []models.Message{seed[0], m1, m2}
	assert.Equal(t, want, a.DialogContent)
	assert.Equal(t, want, b.DialogContent)
}

func TestDialogService(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	project, err := env.projects.CreateProject(ctx, &services.CreateProjectRequest{ProjectTitle: "Demo"})
	require.NoError(t, err)
	other, err := env.projects.CreateProject(ctx, &services.CreateProjectRequest{ProjectTitle: "Other"})
	require.NoError(t, err)

	dialog, err := env.dialogs.CreateDialog(ctx, &services.CreateDialogRequest{ProjectID: project.IDHex(), DialogTitle: "chat"})
	require.NoError(t, err)
	id := dialog.IDHex()

	got, err := env.dialogs.GetDialog(ctx, project.IDHex(), id)
	require.NoError(t, err)
	assert.NotNil(t, got.DialogContent)
	assert.Empty(t, got.DialogContent)

	_, err = env.dialogs.GetDialog(ctx, other.IDHex(), id)
	assert.ErrorIs(t, err, domain.ErrNotFound, "lookup is scoped by project")

	renamed, err := env.dialogs.UpdateDialog(ctx, id, &services.UpdateDialogRequest{DialogTitle: strPtr("renamed")})
	require.NoError(t, err)
	assert.Equal(t, "renamed", renamed.DialogTitle)

	assert.ErrorIs(t, env.dialogs.AppendMessages(ctx, id, nil), domain.ErrNoData)
	assert.ErrorIs(t, env.dialogs.AppendMessage(ctx, id, models.Message{Content: "no role"}), domain.ErrValidation)
	assert.ErrorIs(t, env.dialogs.AppendMessage(ctx, "65a000000000000000000000", models.Message{Role: "user"}), domain.ErrNotFound)

	require.NoError(t, env.dialogs.Exists(ctx, id))
	require.NoError(t, env.dialogs.DeleteDialog(ctx, id))
	assert.ErrorIs(t, env.dialogs.Exists(ctx, id), domain.ErrNotFound)
}

func TestDialogService_RolesAreOpen(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	project, err := env.projects.CreateProject(ctx, &services.CreateProjectRequest{ProjectTitle: "Demo"})
	require.NoError(t, err)
	dialog, err := env.dialogs.CreateDialog(ctx, &services.CreateDialogRequest{
		ProjectID:     project.IDHex(),
		DialogTitle:   "chat",
		DialogContent: []models.Message{{Role: "narrator", Content: "once upon a time"}},
	})
	require.NoError(t, err)

	require.NoError(t, env.dialogs.AppendMessage(ctx, dialog.IDHex(), models.Message{Role: "tool", Content: `{"ok":true}`}))

	got, err := env.dialogs.GetDialog(ctx, project.IDHex(), dialog.IDHex())
	require.NoError(t, err)
	require.Len(t, got.DialogContent, 2)
	assert.Equal(t, "narrator", got.DialogContent[0].Role)
	assert.Equal(t, "tool", got.DialogContent[1].Role)
}

func TestDialogService_RecordExchangeSkipsInputLimits(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	project, err := env.projects.CreateProject(ctx, &services.CreateProjectRequest{ProjectTitle: "Demo"})
	require.NoError(t, err)
	dialog, err := env.dialogs.CreateDialog(ctx, &services.CreateDialogRequest{ProjectID: project.IDHex(), DialogTitle: "chat"})
	require.NoError(t, err)

	long := strings.Repeat("a", config.MaxMessageContentLength+1)
	exchange := []models.Message{
		{Role: models.RoleUser, Content: "write a lot"},
		{Role: models.RoleAssistant, Content: long},
	}

	assert.ErrorIs(t, env.dialogs.AppendMessages(ctx, dialog.IDHex(), exchange), domain.ErrValidation)
	require.NoError(t, env.dialogs.RecordExchange(ctx, dialog.IDHex(), exchange))
	assert.ErrorIs(t, env.dialogs.RecordExchange(ctx, dialog.IDHex(), nil), domain.ErrNoData)

	got, err := env.dialogs.GetDialog(ctx, project.IDHex(), dialog.IDHex())
	require.NoError(t, err)
	assert.Equal(t, exchange, got.DialogContent)
}
