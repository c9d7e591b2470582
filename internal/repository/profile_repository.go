package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4"

	"peel_storage/internal/domain/models"
	"peel_storage/internal/storage"
	"peel_storage/internal/storage/postgresql"
)

const profileSchema = `
CREATE TABLE IF NOT EXISTS profiles (
	username TEXT PRIMARY KEY,
	bio TEXT NOT NULL DEFAULT '',
	profile_picture TEXT,
	updated_at TIMESTAMPTZ NOT NULL
);
`

type ProfileRepo struct {
	handle *postgresql.Handle
	sb     squirrel.StatementBuilderType
}

func NewProfileRepo(handle *postgresql.Handle) *ProfileRepo {
	return &ProfileRepo{
		handle: handle,
		sb:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetProfile returns the stored record or storage.ErrNotFound; the service
// layer turns absence into a default record, never an error.
func (r *ProfileRepo) GetProfile(ctx context.Context, username string) (models.Profile, error) {
	const op = "repository.ProfileRepo.GetProfile"

	db, err := r.handle.Ensure(ctx)
	if err != nil {
		return models.Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	query, args, err := r.sb.Select("username", "bio", "profile_picture", "updated_at").
		From("profiles").
		Where(squirrel.Eq{"username": username}).
		ToSql()
	if err != nil {
		return models.Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	var profile models.Profile
	err = db.QueryRow(ctx, query, args...).Scan(
		&profile.Username, &profile.Bio, &profile.ProfilePicture, &profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Profile{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return models.Profile{}, fmt.Errorf("%s: %w: %w", op, storage.ErrTransactionFailed, err)
	}

	return profile, nil
}

// SaveProfile upserts by username: keyed overwrite, not insert-or-fail.
func (r *ProfileRepo) SaveProfile(ctx context.Context, profile models.Profile) error {
	const op = "repository.ProfileRepo.SaveProfile"

	db, err := r.handle.Ensure(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query, args, err := r.sb.Insert("profiles").
		Columns("username", "bio", "profile_picture", "updated_at").
		Values(profile.Username, profile.Bio, profile.ProfilePicture, profile.UpdatedAt).
		Suffix(`ON CONFLICT (username) DO UPDATE SET
			bio = EXCLUDED.bio,
			profile_picture = EXCLUDED.profile_picture,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrTransactionFailed, err)
	}

	return nil
}
