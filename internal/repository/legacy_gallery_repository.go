package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"peel_storage/internal/domain/models"
	"peel_storage/internal/storage"
	redisapp "peel_storage/internal/storage/redis"
)

// legacyGalleryKey is the fixed key the gallery lived under before it moved
// to the indexed store: one serialized array of image records.
const legacyGalleryKey = "peel_gallery"

type LegacyGalleryRepo struct {
	client *redisapp.Client
}

func NewLegacyGalleryRepo(client *redisapp.Client) *LegacyGalleryRepo {
	return &LegacyGalleryRepo{client: client}
}

// Load reads the legacy payload. Records were written as open attribute
// bags, so anything beyond the known fields is carried into Metadata
// untouched. A missing key is an empty payload, not an error.
func (r *LegacyGalleryRepo) Load(ctx context.Context) ([]models.GalleryImage, error) {
	const op = "repository.LegacyGalleryRepo.Load"

	raw, err := r.client.Get(ctx, legacyGalleryKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, storage.ErrTransactionFailed, err)
	}

	var records []map[string]any
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, storage.ErrTransactionFailed, err)
	}

	images := make([]models.GalleryImage, 0, len(records))
	for _, rec := range records {
		images = append(images, legacyImage(rec))
	}

	return images, nil
}

func (r *LegacyGalleryRepo) Clear(ctx context.Context) error {
	const op = "repository.LegacyGalleryRepo.Clear"

	if err := r.client.Del(ctx, legacyGalleryKey).Err(); err != nil {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrTransactionFailed, err)
	}

	return nil
}

func legacyImage(rec map[string]any) models.GalleryImage {
	img := models.GalleryImage{
		ID:       popString(rec, "id"),
		ImageURL: popString(rec, "imageUrl"),
		Prompt:   popString(rec, "prompt"),
	}

	if ts, err := time.Parse(time.RFC3339Nano, popString(rec, "timestamp")); err == nil {
		img.Timestamp = ts
	}

	if len(rec) > 0 {
		img.Metadata = rec
	}

	return img
}

func popString(rec map[string]any, key string) string {
	v, ok := rec[key].(string)
	if ok {
		delete(rec, key)
	}
	return v
}
