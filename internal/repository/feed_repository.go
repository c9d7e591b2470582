package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4"
	"github.com/lib/pq"

	"peel_storage/internal/domain/models"
	"peel_storage/internal/storage"
	"peel_storage/internal/storage/postgresql"
)

const feedSchema = `
CREATE TABLE IF NOT EXISTS posts (
	id TEXT PRIMARY KEY,
	image_url TEXT NOT NULL,
	username TEXT NOT NULL,
	caption TEXT NOT NULL DEFAULT '',
	timestamp TIMESTAMPTZ NOT NULL,
	likes TEXT[] NOT NULL DEFAULT '{}',
	likes_count INT NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS posts_timestamp_idx ON posts (timestamp DESC);
CREATE INDEX IF NOT EXISTS posts_username_idx ON posts (username, timestamp DESC);
`

const postColumns = "id, image_url, username, caption, timestamp, likes, likes_count"

type FeedRepo struct {
	handle *postgresql.Handle
	sb     squirrel.StatementBuilderType
}

func NewFeedRepo(handle *postgresql.Handle) *FeedRepo {
	return &FeedRepo{
		handle: handle,
		sb:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *FeedRepo) InsertPost(ctx context.Context, post models.Post) error {
	const op = "repository.FeedRepo.InsertPost"

	db, err := r.handle.Ensure(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query, args, err := r.sb.Insert("posts").
		Columns("id", "image_url", "username", "caption", "timestamp", "likes", "likes_count").
		Values(post.ID, post.ImageURL, post.Username, post.Caption, post.Timestamp, pq.Array(post.Likes), post.LikesCount).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrTransactionFailed, err)
	}

	return nil
}

// ListPosts returns the whole feed, most recent first.
func (r *FeedRepo) ListPosts(ctx context.Context) ([]models.Post, error) {
	const op = "repository.FeedRepo.ListPosts"

	builder := r.sb.Select(postColumns).
		From("posts").
		OrderBy("timestamp DESC")

	return r.queryPosts(ctx, op, builder)
}

// ListPostsByUsername returns one author's posts, most recent first. An
// author with no posts yields an empty slice.
func (r *FeedRepo) ListPostsByUsername(ctx context.Context, username string) ([]models.Post, error) {
	const op = "repository.FeedRepo.ListPostsByUsername"

	builder := r.sb.Select(postColumns).
		From("posts").
		Where(squirrel.Eq{"username": username}).
		OrderBy("timestamp DESC")

	return r.queryPosts(ctx, op, builder)
}

func (r *FeedRepo) GetPost(ctx context.Context, id string) (models.Post, error) {
	const op = "repository.FeedRepo.GetPost"

	db, err := r.handle.Ensure(ctx)
	if err != nil {
		return models.Post{}, fmt.Errorf("%s: %w", op, err)
	}

	query, args, err := r.sb.Select(postColumns).
		From("posts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.Post{}, fmt.Errorf("%s: %w", op, err)
	}

	var post models.Post
	err = db.QueryRow(ctx, query, args...).Scan(
		&post.ID, &post.ImageURL, &post.Username, &post.Caption,
		&post.Timestamp, &post.Likes, &post.LikesCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Post{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return models.Post{}, fmt.Errorf("%s: %w: %w", op, storage.ErrTransactionFailed, err)
	}

	return post, nil
}

// UpdateLikes replaces the likes set and its derived count in one UPDATE,
// keeping likes_count == len(likes) under any interleaving.
func (r *FeedRepo) UpdateLikes(ctx context.Context, id string, likes []string) error {
	const op = "repository.FeedRepo.UpdateLikes"

	db, err := r.handle.Ensure(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query, args, err := r.sb.Update("posts").
		Set("likes", pq.Array(likes)).
		Set("likes_count", len(likes)).
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

func (r *FeedRepo) DeletePost(ctx context.Context, id string) error {
	const op = "repository.FeedRepo.DeletePost"

	db, err := r.handle.Ensure(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query, args, err := r.sb.Delete("posts").
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

func (r *FeedRepo) queryPosts(ctx context.Context, op string, builder squirrel.SelectBuilder) ([]models.Post, error) {
	db, err := r.handle.Ensure(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, storage.ErrTransactionFailed, err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		var post models.Post
		err := rows.Scan(
			&post.ID, &post.ImageURL, &post.Username, &post.Caption,
			&post.Timestamp, &post.Likes, &post.LikesCount,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %w", op, storage.ErrTransactionFailed, err)
		}
		posts = append(posts, post)
	}

	return posts, rows.Err()
}
