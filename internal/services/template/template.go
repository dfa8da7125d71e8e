// Package template contains the business logic for user templates and
// AI-assisted template generation.
package template

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dubd59/Digital-Creator-Pro-OS/internal/models"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/storage/repository"
)

// ErrNotFound means the template does not exist or belongs to another
// user; the two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("template not found")

// Repository describes the persistence contract for templates.
type Repository interface {
	CreateTemplate(ctx context.Context, tmpl models.Template, content string) (*models.Template, error)
	ListTemplates(ctx context.Context, userID int64) ([]*models.Template, error)
	GetTemplateForUser(ctx context.Context, id, userID int64) (*models.Template, error)
	UpdateTemplate(ctx context.Context, id, userID int64, title, description string, isPublic bool, content *string) (*models.Template, error)
	RemoveTemplate(ctx context.Context, id, userID int64) (int64, error)
}

// Generator describes the LLM completion call.
type Generator interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// TemplateService implements template CRUD and generation.
type TemplateService struct {
	repo      Repository
	generator Generator
	log       *slog.Logger
}

// NewTemplateService creates a TemplateService.
func NewTemplateService(repo Repository, generator Generator, log *slog.Logger) *TemplateService {
	return &TemplateService{
		repo:      repo,
		generator: generator,
		log:       log,
	}
}

// Create stores a template with its first content version.
func (s *TemplateService) Create(ctx context.Context, userID int64, title, description string, isPublic bool, content string) (*models.Template, error) {
	const op = "template.Create"

	tmpl := models.Template{
		UserID:      userID,
		Title:       title,
		Description: description,
		IsPublic:    isPublic,
	}
	created, err := s.repo.CreateTemplate(ctx, tmpl, content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// List returns the user's templates with their latest versions.
func (s *TemplateService) List(ctx context.Context, userID int64) ([]*models.Template, error) {
	const op = "template.List"

	templates, err := s.repo.ListTemplates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return templates, nil
}

// Get returns one of the user's templates with its full version history.
func (s *TemplateService) Get(ctx context.Context, id, userID int64) (*models.Template, error) {
	const op = "template.Get"

	tmpl, err := s.repo.GetTemplateForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tmpl, nil
}

// Update edits the definition and appends a version when new content is
// supplied.
func (s *TemplateService) Update(ctx context.Context, id, userID int64, title, description string, isPublic bool, content *string) (*models.Template, error) {
	const op = "template.Update"

	tmpl, err := s.repo.UpdateTemplate(ctx, id, userID, title, description, isPublic, content)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tmpl, nil
}

// Remove deletes one of the user's templates.
func (s *TemplateService) Remove(ctx context.Context, id, userID int64) error {
	const op = "template.Remove"

	rows, err := s.repo.RemoveTemplate(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Generate produces template content from the user's brief via the LLM.
func (s *TemplateService) Generate(ctx context.Context, prompt, purpose, audience, layout string) (string, error) {
	const op = "template.Generate"

	systemPrompt := fmt.Sprintf(`You are a professional template creator. Create a detailed Notion template based on the following requirements:
    - Purpose: %s
    - Target Audience: %s
    - Layout Style: %s

    Format the template as clean Markdown that can be directly imported into Notion.
    Include appropriate sections, headings, and structure.`, purpose, audience, layout)

	result, err := s.generator.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
