package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"peel_storage/internal/domain/models"
	"peel_storage/internal/lib/logger/sl"
	"peel_storage/internal/repository"
	"peel_storage/internal/storage"
)

// PromptService keeps reusable prompt snippets in a flat store: one
// pre-ordered sequence, newest first, capped at models.MaxSavedPrompts at
// write time.
type PromptService struct {
	log  *slog.Logger
	repo repository.PromptRepository
}

func NewPromptService(log *slog.Logger, repo repository.PromptRepository) *PromptService {
	return &PromptService{
		log:  log,
		repo: repo,
	}
}

// ListPrompts returns the saved prompts, most recent first.
func (s *PromptService) ListPrompts(ctx context.Context) ([]models.SavedPrompt, error) {
	const op = "service.PromptService.ListPrompts"
	log := s.log.With(slog.String("op", op))

	prompts, err := s.repo.Load(ctx)
	if err != nil {
		log.Error("failed to list prompts", sl.Err(err))
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}

	return prompts, nil
}

// SavePrompt stores a prompt at the front of the sequence, dropping
// anything past the capacity bound. A missing name gets a
// timestamp-derived label.
func (s *PromptService) SavePrompt(ctx context.Context, text, name string) (models.SavedPrompt, error) {
	const op = "service.PromptService.SavePrompt"
	log := s.log.With(slog.String("op", op))

	if strings.TrimSpace(text) == "" {
		log.Warn("prompt text is empty")
		return models.SavedPrompt{}, fmt.Errorf("%s: prompt text is required: %w", op, storage.ErrValidation)
	}

	now := time.Now()
	if name == "" {
		name = "Prompt " + now.Format("1/2/2006, 3:04:05 PM")
	}

	prompt := models.SavedPrompt{
		ID:        models.NewID(),
		Name:      name,
		Text:      text,
		Timestamp: now.UTC(),
	}

	prompts, err := s.repo.Load(ctx)
	if err != nil {
		log.Error("failed to load prompts", sl.Err(err))
		return models.SavedPrompt{}, fmt.Errorf("failed to load prompts: %w", err)
	}

	prompts = append([]models.SavedPrompt{prompt}, prompts...)
	if len(prompts) > models.MaxSavedPrompts {
		prompts = prompts[:models.MaxSavedPrompts]
	}

	if err := s.repo.Store(ctx, prompts); err != nil {
		log.Error("failed to save prompt", sl.Err(err))
		return models.SavedPrompt{}, fmt.Errorf("failed to save prompt: %w", err)
	}

	log.Info("prompt saved", slog.String("id", prompt.ID))
	return prompt, nil
}

// DeletePrompt filters the id out of the sequence; a missing id is a no-op
// success.
func (s *PromptService) DeletePrompt(ctx context.Context, id string) error {
	const op = "service.PromptService.DeletePrompt"
	log := s.log.With(slog.String("op", op), slog.String("id", id))

	prompts, err := s.repo.Load(ctx)
	if err != nil {
		log.Error("failed to load prompts", sl.Err(err))
		return fmt.Errorf("failed to load prompts: %w", err)
	}

	filtered := prompts[:0:0]
	for _, p := range prompts {
		if p.ID != id {
			filtered = append(filtered, p)
		}
	}

	if len(filtered) == len(prompts) {
		return nil
	}

	if err := s.repo.Store(ctx, filtered); err != nil {
		log.Error("failed to delete prompt", sl.Err(err))
		return fmt.Errorf("failed to delete prompt: %w", err)
	}

	return nil
}

// Count reports the number of saved prompts.
func (s *PromptService) Count(ctx context.Context) (int, error) {
	prompts, err := s.ListPrompts(ctx)
	if err != nil {
		return 0, err
	}
	return len(prompts), nil
}
