package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	loremgen "github.com/bozaro/golorem"

	"assistant/internal/config"
	"assistant/internal/domain"
	"assistant/internal/domain/models"
	"assistant/internal/domain/repositories"
	"assistant/internal/domain/services"
	"assistant/internal/repository"
	"assistant/internal/service"
)

func main() {
	// Parse command-line flags
	title := flag.String("project", "Demo", "Title of the project to seed")
	dialogCount := flag.Int("dialogs", 3, "Number of placeholder dialogs to create")
	clearData := flag.Bool("clear-data", false, "Delete the seeded project with its prompts and dialogs, then exit")
	flag.Parse()

	if err := run(*title, *dialogCount, *clearData); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func run(title string, dialogCount int, clearData bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// SAFETY: Prevent seeding or clearing in production
	if cfg.Environment == "prod" {
		return errors.New("🚫 BLOCKED: seeding is not allowed in the production environment")
	}

	logger, logCloser, err := config.NewLogger(cfg, os.Stdout)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer logCloser.Close()

	ctx := context.Background()
	store, err := repository.Open(ctx, cfg, logger, nil)
	if err != nil {
		return fmt.Errorf("open document store: %w", err)
	}
	defer store.Close(ctx)

	collections := repositories.NewCollectionNames(cfg.CollectionPrefix)
	repository.EnsureDefaultIndexes(ctx, store, collections, logger)

	prompts := service.NewPromptService(store, collections, logger)
	dialogs := service.NewDialogService(store, collections, logger)
	projects := service.NewProjectService(store, collections, prompts, dialogs, logger)

	existing, err := findProject(ctx, projects, title)
	if err != nil {
		return fmt.Errorf("look up project: %w", err)
	}

	if clearData {
		if existing == nil {
			log.Printf("Nothing to clear, project %q does not exist", title)
			return nil
		}
		if err := clearProject(ctx, projects, prompts, dialogs, existing.IDHex()); err != nil {
			return fmt.Errorf("clear data: %w", err)
		}
		log.Printf("✅ Cleared project %q", title)
		return nil
	}

	if existing != nil {
		log.Printf("Project %q already exists (ID: %s), nothing to do", title, existing.IDHex())
		return nil
	}

	log.Printf("🌱 Seeding (environment: %s, prefix: %s)", cfg.Environment, cfg.CollectionPrefix)

	project, err := projects.CreateProject(ctx, &services.CreateProjectRequest{ProjectTitle: title})
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	log.Printf("✅ Created project %q (ID: %s)", project.ProjectTitle, project.IDHex())

	prompt, err := prompts.CreatePrompt(ctx, &services.CreatePromptRequest{
		ProjectID:     project.IDHex(),
		PromptVersion: project.IDHex() + "-v1",
		PromptContent: "You are a helpful assistant. Answer briefly.",
	})
	if err != nil {
		log.Printf("❌ Failed to create prompt: %v", err)
	} else {
		log.Printf("✅ Created prompt %s (ID: %s)", prompt.PromptVersion, prompt.IDHex())
	}

	gen := loremgen.New()
	for i := 0; i < dialogCount; i++ {
		dialog, err := dialogs.CreateDialog(ctx, &services.CreateDialogRequest{
			ProjectID:   project.IDHex(),
			DialogTitle: gen.Sentence(2, 5),
			DialogContent: []models.Message{
				{Role: models.RoleUser, Content: gen.Sentence(5, 12)},
				{Role: models.RoleAssistant, Content: gen.Paragraph(2, 4)},
			},
		})
		if err != nil {
			log.Printf("❌ Failed to create dialog %d: %v", i+1, err)
			continue
		}
		log.Printf("✅ Created dialog %d/%d (ID: %s)", i+1, dialogCount, dialog.IDHex())
	}

	log.Println("🎉 Seeding complete!")
	return nil
}

// findProject returns the project with title, or nil when there is none
func findProject(ctx context.Context, projects services.ProjectService, title string) (*models.Project, error) {
	all, err := projects.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range all {
		if p.ProjectTitle == title {
			return p, nil
		}
	}
	return nil, nil
}

// clearProject deletes a project's prompts and dialogs, then the project
func clearProject(ctx context.Context, projects services.ProjectService, prompts services.PromptService, dialogs services.DialogService, id string) error {
	ps, err := prompts.ListPrompts(ctx, id)
	if err != nil {
		return err
	}
	for _, p := range ps {
		if err := prompts.DeletePrompt(ctx, p.IDHex()); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
	}

	ds, err := dialogs.ListDialogs(ctx, id)
	if err != nil {
		return err
	}
	for _, d := range ds {
		if err := dialogs.DeleteDialog(ctx, d.IDHex()); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
	}

	return projects.DeleteProject(ctx, id)
}
