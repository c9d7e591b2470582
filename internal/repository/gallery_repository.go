package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"peel_storage/internal/domain/models"
	"peel_storage/internal/storage"
	"peel_storage/internal/storage/postgresql"
)

const gallerySchema = `
CREATE TABLE IF NOT EXISTS gallery_images (
	id TEXT PRIMARY KEY,
	image_url TEXT NOT NULL,
	prompt TEXT NOT NULL DEFAULT '',
	timestamp TIMESTAMPTZ NOT NULL,
	metadata JSONB
);
CREATE INDEX IF NOT EXISTS gallery_images_timestamp_idx ON gallery_images (timestamp DESC);
`

type GalleryRepo struct {
	handle *postgresql.Handle
	sb     squirrel.StatementBuilderType
}

func NewGalleryRepo(handle *postgresql.Handle) *GalleryRepo {
	return &GalleryRepo{
		handle: handle,
		sb:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// InsertImage inserts one new gallery record.
func (r *GalleryRepo) InsertImage(ctx context.Context, img models.GalleryImage) error {
	const op = "repository.GalleryRepo.InsertImage"

	db, err := r.handle.Ensure(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	meta, err := marshalMetadata(img.Metadata)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query, args, err := r.sb.Insert("gallery_images").
		Columns("id", "image_url", "prompt", "timestamp", "metadata").
		Values(img.ID, img.ImageURL, img.Prompt, img.Timestamp, meta).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrTransactionFailed, err)
	}

	return nil
}

// ImportImages copies the legacy records into the indexed store inside one
// transaction, ids and timestamps preserved. On failure nothing is visible.
func (r *GalleryRepo) ImportImages(ctx context.Context, imgs []models.GalleryImage) error {
	const op = "repository.GalleryRepo.ImportImages"

	db, err := r.handle.Ensure(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrTransactionFailed, err)
	}
	defer tx.Rollback(ctx)

	for _, img := range imgs {
		meta, err := marshalMetadata(img.Metadata)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		query, args, err := r.sb.Insert("gallery_images").
			Columns("id", "image_url", "prompt", "timestamp", "metadata").
			Values(img.ID, img.ImageURL, img.Prompt, img.Timestamp, meta).
			ToSql()
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("%s: %w: %w", op, storage.ErrTransactionFailed, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrTransactionFailed, err)
	}

	return nil
}

// ListImages returns all images, most recent first.
func (r *GalleryRepo) ListImages(ctx context.Context) ([]models.GalleryImage, error) {
	const op = "repository.GalleryRepo.ListImages"

	db, err := r.handle.Ensure(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query, args, err := r.sb.Select("id", "image_url", "prompt", "timestamp", "metadata").
		From("gallery_images").
		OrderBy("timestamp DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, storage.ErrTransactionFailed, err)
	}
	defer rows.Close()

	images := []models.GalleryImage{}
	for rows.Next() {
		var img models.GalleryImage
		var meta []byte
		if err := rows.Scan(&img.ID, &img.ImageURL, &img.Prompt, &img.Timestamp, &meta); err != nil {
			return nil, fmt.Errorf("%s: %w: %w", op, storage.ErrTransactionFailed, err)
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &img.Metadata); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}
		images = append(images, img)
	}

	return images, rows.Err()
}

// DeleteImage removes one image; deleting a missing id is a no-op.
func (r *GalleryRepo) DeleteImage(ctx context.Context, id string) error {
	const op = "repository.GalleryRepo.DeleteImage"

	db, err := r.handle.Ensure(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query, args, err := r.sb.Delete("gallery_images").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrTransactionFailed, err)
	}

	return nil
}

// Clear empties the whole collection.
func (r *GalleryRepo) Clear(ctx context.Context) error {
	const op = "repository.GalleryRepo.Clear"

	db, err := r.handle.Ensure(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query, args, err := r.sb.Delete("gallery_images").ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrTransactionFailed, err)
	}

	return nil
}

func (r *GalleryRepo) CountImages(ctx context.Context) (int, error) {
	const op = "repository.GalleryRepo.CountImages"

	db, err := r.handle.Ensure(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query, args, err := r.sb.Select("COUNT(*)").From("gallery_images").ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var count int
	if err := db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w: %w", op, storage.ErrTransactionFailed, err)
	}

	return count, nil
}

func marshalMetadata(meta map[string]any) ([]byte, error) {
	if len(meta) == 0 {
		return nil, nil
	}
	return json.Marshal(meta)
}
