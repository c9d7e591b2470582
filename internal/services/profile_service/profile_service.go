package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"peel_storage/internal/domain/models"
	"peel_storage/internal/lib/logger/sl"
	"peel_storage/internal/repository"
	"peel_storage/internal/storage"
)

// ProfileService owns per-user profile records. Updates are
// read-modify-write over the keyed upsert; concurrent updates for the same
// username race at that boundary and last write wins, which is the
// documented behavior, not a bug.
type ProfileService struct {
	log  *slog.Logger
	repo repository.ProfileRepository
}

func NewProfileService(log *slog.Logger, repo repository.ProfileRepository) *ProfileService {
	return &ProfileService{
		log:  log,
		repo: repo,
	}
}

// GetProfile never fails with "not found": a username without a stored
// record gets a well-formed default.
func (s *ProfileService) GetProfile(ctx context.Context, username string) (models.Profile, error) {
	const op = "service.ProfileService.GetProfile"
	log := s.log.With(slog.String("op", op), slog.String("username", username))

	if username == "" {
		return models.Profile{}, fmt.Errorf("%s: username is required: %w", op, storage.ErrValidation)
	}

	profile, err := s.repo.GetProfile(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.DefaultProfile(username), nil
		}
		log.Error("failed to get profile", sl.Err(err))
		return models.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}

	return profile, nil
}

// UpdateBio replaces only the bio, preserving the current picture.
func (s *ProfileService) UpdateBio(ctx context.Context, username, bio string) (models.Profile, error) {
	const op = "service.ProfileService.UpdateBio"
	log := s.log.With(slog.String("op", op), slog.String("username", username))

	current, err := s.GetProfile(ctx, username)
	if err != nil {
		return models.Profile{}, err
	}

	profile := models.Profile{
		Username:       username,
		Bio:            bio,
		ProfilePicture: current.ProfilePicture,
		UpdatedAt:      time.Now().UTC(),
	}

	if err := s.repo.SaveProfile(ctx, profile); err != nil {
		log.Error("failed to update bio", sl.Err(err))
		return models.Profile{}, fmt.Errorf("failed to update bio: %w", err)
	}

	log.Info("bio updated")
	return profile, nil
}

// UpdateProfilePicture replaces only the picture, preserving the current
// bio. nil explicitly clears the picture.
func (s *ProfileService) UpdateProfilePicture(ctx context.Context, username string, picture *string) (models.Profile, error) {
	const op = "service.ProfileService.UpdateProfilePicture"
	log := s.log.With(slog.String("op", op), slog.String("username", username))

	current, err := s.GetProfile(ctx, username)
	if err != nil {
		return models.Profile{}, err
	}

	profile := models.Profile{
		Username:       username,
		Bio:            current.Bio,
		ProfilePicture: picture,
		UpdatedAt:      time.Now().UTC(),
	}

	if err := s.repo.SaveProfile(ctx, profile); err != nil {
		log.Error("failed to update profile picture", sl.Err(err))
		return models.Profile{}, fmt.Errorf("failed to update profile picture: %w", err)
	}

	log.Info("profile picture updated")
	return profile, nil
}
