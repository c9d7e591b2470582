package repository

import (
	"context"

	"peel_storage/internal/domain/models"
)

type GalleryRepository interface {
	InsertImage(ctx context.Context, img models.GalleryImage) error
	// ImportImages inserts a batch inside one transaction; all-or-nothing.
	ImportImages(ctx context.Context, imgs []models.GalleryImage) error
	ListImages(ctx context.Context) ([]models.GalleryImage, error)
	DeleteImage(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	CountImages(ctx context.Context) (int, error)
}

// LegacyGalleryRepository reads the flat-store payload the gallery was kept
// in before it moved to the indexed store. Present only until the one-time
// migration succeeds.
type LegacyGalleryRepository interface {
	Load(ctx context.Context) ([]models.GalleryImage, error)
	Clear(ctx context.Context) error
}

type FeedRepository interface {
	InsertPost(ctx context.Context, post models.Post) error
	ListPosts(ctx context.Context) ([]models.Post, error)
	ListPostsByUsername(ctx context.Context, username string) ([]models.Post, error)
	GetPost(ctx context.Context, id string) (models.Post, error)
	// UpdateLikes writes likes and likes_count in a single statement so the
	// denormalized count can never drift from the set.
	UpdateLikes(ctx context.Context, id string, likes []string) error
	DeletePost(ctx context.Context, id string) error
}

type ProfileRepository interface {
	GetProfile(ctx context.Context, username string) (models.Profile, error)
	// SaveProfile upserts by username: insert if absent, overwrite if present.
	SaveProfile(ctx context.Context, profile models.Profile) error
}

// PromptRepository holds the whole capacity-bounded collection as one
// serialized sequence; ordering and the cap are the service's business.
type PromptRepository interface {
	Load(ctx context.Context) ([]models.SavedPrompt, error)
	Store(ctx context.Context, prompts []models.SavedPrompt) error
}
