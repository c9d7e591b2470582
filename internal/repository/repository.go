package repository

import (
	"peel_storage/internal/storage/postgresql"
	redisapp "peel_storage/internal/storage/redis"
)

// Repository bundles the four stores. Each indexed store owns its own
// lazily-initialized postgres handle, so nothing connects until a store is
// first used; the flat stores share the redis client the same way.
type Repository struct {
	Gallery       *GalleryRepo
	LegacyGallery *LegacyGalleryRepo
	Feed          *FeedRepo
	Profile       *ProfileRepo
	Prompt        *PromptRepo

	handles []*postgresql.Handle
}

func NewRepository(dsn string, client *redisapp.Client) *Repository {
	galleryHandle := postgresql.NewHandle(dsn, gallerySchema)
	feedHandle := postgresql.NewHandle(dsn, feedSchema)
	profileHandle := postgresql.NewHandle(dsn, profileSchema)

	return &Repository{
		Gallery:       NewGalleryRepo(galleryHandle),
		LegacyGallery: NewLegacyGalleryRepo(client),
		Feed:          NewFeedRepo(feedHandle),
		Profile:       NewProfileRepo(profileHandle),
		Prompt:        NewPromptRepo(client),

		handles: []*postgresql.Handle{galleryHandle, feedHandle, profileHandle},
	}
}

func (r *Repository) Close() {
	for _, h := range r.handles {
		h.Close()
	}
}
