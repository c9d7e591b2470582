package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"peel_storage/internal/domain/models"
	"peel_storage/internal/lib/logger/sl"
	"peel_storage/internal/repository"
	"peel_storage/internal/storage"
	"peel_storage/internal/transport/http/dto"
)

// GalleryService owns the saved-image collection. The first read in a
// process lifetime imports whatever is left in the legacy flat store; see
// ensureMigrated.
type GalleryService struct {
	log    *slog.Logger
	repo   repository.GalleryRepository
	legacy repository.LegacyGalleryRepository

	mu       sync.Mutex
	migrated bool
}

func NewGalleryService(log *slog.Logger, repo repository.GalleryRepository, legacy repository.LegacyGalleryRepository) *GalleryService {
	return &GalleryService{
		log:    log,
		repo:   repo,
		legacy: legacy,
	}
}

// ListImages returns all saved images, most recent first.
func (s *GalleryService) ListImages(ctx context.Context) ([]models.GalleryImage, error) {
	const op = "service.GalleryService.ListImages"
	log := s.log.With(slog.String("op", op))

	s.ensureMigrated(ctx)

	images, err := s.repo.ListImages(ctx)
	if err != nil {
		log.Error("failed to list images", sl.Err(err))
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	return images, nil
}

// SaveImage stores a new image. imageData is either a bare URL/data-URI or
// an object carrying one under "url"; caller metadata is kept as an open
// bag, with "prompt" promoted to its own field.
func (s *GalleryService) SaveImage(ctx context.Context, req dto.SaveImageRequest) (models.GalleryImage, error) {
	const op = "service.GalleryService.SaveImage"
	log := s.log.With(slog.String("op", op))

	url := resolveImageURL(req.ImageData)
	if url == "" {
		log.Warn("no resolvable image reference")
		return models.GalleryImage{}, fmt.Errorf("%s: image reference is required: %w", op, storage.ErrValidation)
	}

	img := models.GalleryImage{
		ID:        models.NewID(),
		ImageURL:  url,
		Timestamp: time.Now().UTC(),
	}

	if len(req.Metadata) > 0 {
		meta := make(map[string]any, len(req.Metadata))
		for k, v := range req.Metadata {
			meta[k] = v
		}
		if prompt, ok := meta["prompt"].(string); ok {
			img.Prompt = prompt
			delete(meta, "prompt")
		}
		if len(meta) > 0 {
			img.Metadata = meta
		}
	}

	if err := s.repo.InsertImage(ctx, img); err != nil {
		log.Error("failed to save image", sl.Err(err))
		return models.GalleryImage{}, fmt.Errorf("failed to save image: %w", err)
	}

	log.Info("image saved", slog.String("id", img.ID))
	return img, nil
}

// DeleteImage removes one image; a missing id is a no-op success.
func (s *GalleryService) DeleteImage(ctx context.Context, id string) error {
	const op = "service.GalleryService.DeleteImage"
	log := s.log.With(slog.String("op", op), slog.String("id", id))

	if err := s.repo.DeleteImage(ctx, id); err != nil {
		log.Error("failed to delete image", sl.Err(err))
		return fmt.Errorf("failed to delete image: %w", err)
	}

	return nil
}

// ClearAll empties the gallery. Irreversible.
func (s *GalleryService) ClearAll(ctx context.Context) error {
	const op = "service.GalleryService.ClearAll"
	log := s.log.With(slog.String("op", op))

	if err := s.repo.Clear(ctx); err != nil {
		log.Error("failed to clear gallery", sl.Err(err))
		return fmt.Errorf("failed to clear gallery: %w", err)
	}

	log.Info("gallery cleared")
	return nil
}

// Count reports how many images are saved. Defined as len(ListImages), so
// it also pulls the migration in before the first read.
func (s *GalleryService) Count(ctx context.Context) (int, error) {
	images, err := s.ListImages(ctx)
	if err != nil {
		return 0, err
	}
	return len(images), nil
}

// ensureMigrated runs the one-time legacy import. Failure is logged and
// swallowed: migration must never block normal operation, and leaving the
// legacy payload in place means the next access retries.
func (s *GalleryService) ensureMigrated(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.migrated {
		return
	}

	if err := s.migrate(ctx); err != nil {
		s.log.Error("legacy gallery migration failed", sl.Err(err))
		return
	}

	s.migrated = true
}

func (s *GalleryService) migrate(ctx context.Context) error {
	const op = "service.GalleryService.migrate"
	log := s.log.With(slog.String("op", op))

	legacy, err := s.legacy.Load(ctx)
	if err != nil {
		return err
	}

	if len(legacy) == 0 {
		return s.legacy.Clear(ctx)
	}

	count, err := s.repo.CountImages(ctx)
	if err != nil {
		return err
	}

	// A non-empty indexed store means a previous migration already ran;
	// importing again would duplicate records.
	if count > 0 {
		log.Info("indexed store already populated, discarding legacy payload")
		return s.legacy.Clear(ctx)
	}

	if err := s.repo.ImportImages(ctx, legacy); err != nil {
		return err
	}

	log.Info("legacy gallery migrated", slog.Int("records", len(legacy)))
	return s.legacy.Clear(ctx)
}

func resolveImageURL(imageData any) string {
	switch v := imageData.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		if url, ok := v["url"].(string); ok {
			return strings.TrimSpace(url)
		}
	}
	return ""
}
