package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"peel_storage/internal/domain/models"
	"peel_storage/internal/lib/logger/sl"
	"peel_storage/internal/repository"
	"peel_storage/internal/storage"
	"peel_storage/internal/transport/http/dto"
)

type FeedService struct {
	log  *slog.Logger
	repo repository.FeedRepository
}

func NewFeedService(log *slog.Logger, repo repository.FeedRepository) *FeedService {
	return &FeedService{
		log:  log,
		repo: repo,
	}
}

// ListAllPosts returns the global feed, most recent first.
func (s *FeedService) ListAllPosts(ctx context.Context) ([]models.Post, error) {
	const op = "service.FeedService.ListAllPosts"
	log := s.log.With(slog.String("op", op))

	posts, err := s.repo.ListPosts(ctx)
	if err != nil {
		log.Error("failed to list posts", sl.Err(err))
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return posts, nil
}

// ListPostsByAuthor returns one author's posts, most recent first. An
// unknown author yields an empty feed, not an error.
func (s *FeedService) ListPostsByAuthor(ctx context.Context, username string) ([]models.Post, error) {
	const op = "service.FeedService.ListPostsByAuthor"
	log := s.log.With(slog.String("op", op), slog.String("username", username))

	posts, err := s.repo.ListPostsByUsername(ctx, username)
	if err != nil {
		log.Error("failed to list posts by author", sl.Err(err))
		return nil, fmt.Errorf("failed to list posts by author: %w", err)
	}

	return posts, nil
}

// CreatePost stores a new post with an empty likes set.
func (s *FeedService) CreatePost(ctx context.Context, req dto.CreatePostRequest) (models.Post, error) {
	const op = "service.FeedService.CreatePost"
	log := s.log.With(slog.String("op", op), slog.String("username", req.Username))

	if req.ImageURL == "" {
		log.Warn("image url is required")
		return models.Post{}, fmt.Errorf("%s: image url is required: %w", op, storage.ErrValidation)
	}
	if req.Username == "" {
		log.Warn("username is required")
		return models.Post{}, fmt.Errorf("%s: username is required: %w", op, storage.ErrValidation)
	}

	post := models.Post{
		ID:         models.NewID(),
		ImageURL:   req.ImageURL,
		Username:   req.Username,
		Caption:    req.Caption,
		Timestamp:  time.Now().UTC(),
		Likes:      []string{},
		LikesCount: 0,
	}

	if err := s.repo.InsertPost(ctx, post); err != nil {
		log.Error("failed to create post", sl.Err(err))
		return models.Post{}, fmt.Errorf("failed to create post: %w", err)
	}

	log.Info("post created", slog.String("id", post.ID))
	return post, nil
}

// ToggleLike adds or removes one liker. The likes set and its derived
// count are rewritten together, so likesCount == len(likes) always holds.
func (s *FeedService) ToggleLike(ctx context.Context, postID, username string) (models.Post, error) {
	const op = "service.FeedService.ToggleLike"
	log := s.log.With(slog.String("op", op), slog.String("post_id", postID))

	if username == "" {
		return models.Post{}, fmt.Errorf("%s: username is required: %w", op, storage.ErrValidation)
	}

	post, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		log.Error("failed to load post", sl.Err(err))
		return models.Post{}, fmt.Errorf("failed to load post: %w", err)
	}

	likes := make([]string, 0, len(post.Likes)+1)
	found := false
	for _, liker := range post.Likes {
		if liker == username {
			found = true
			continue
		}
		likes = append(likes, liker)
	}
	if !found {
		likes = append(likes, username)
	}

	if err := s.repo.UpdateLikes(ctx, postID, likes); err != nil {
		log.Error("failed to update likes", sl.Err(err))
		return models.Post{}, fmt.Errorf("failed to update likes: %w", err)
	}

	post.Likes = likes
	post.LikesCount = len(likes)
	return post, nil
}

// DeletePost removes one post; a missing id is a no-op success.
func (s *FeedService) DeletePost(ctx context.Context, id string) error {
	const op = "service.FeedService.DeletePost"
	log := s.log.With(slog.String("op", op), slog.String("id", id))

	if err := s.repo.DeletePost(ctx, id); err != nil {
		log.Error("failed to delete post", sl.Err(err))
		return fmt.Errorf("failed to delete post: %w", err)
	}

	return nil
}

// Count reports the number of posts, defined as len(ListAllPosts).
func (s *FeedService) Count(ctx context.Context) (int, error) {
	posts, err := s.ListAllPosts(ctx)
	if err != nil {
		return 0, err
	}
	return len(posts), nil
}
