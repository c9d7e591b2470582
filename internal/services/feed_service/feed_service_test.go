package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"peel_storage/internal/domain/models"
	"peel_storage/internal/storage"
	"peel_storage/internal/transport/http/dto"
)

type MockFeedRepository struct {
	mock.Mock
}

func (m *MockFeedRepository) InsertPost(ctx context.Context, post models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockFeedRepository) ListPosts(ctx context.Context) ([]models.Post, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockFeedRepository) ListPostsByUsername(ctx context.Context, username string) ([]models.Post, error) {
	args := m.Called(ctx, username)
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockFeedRepository) GetPost(ctx context.Context, id string) (models.Post, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Post), args.Error(1)
}

func (m *MockFeedRepository) UpdateLikes(ctx context.Context, id string, likes []string) error {
	args := m.Called(ctx, id, likes)
	return args.Error(0)
}

func (m *MockFeedRepository) DeletePost(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestFeedService_CreatePost(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		req     dto.CreatePostRequest
		wantErr bool
	}{
		{
			name: "successful creation",
			req:  dto.CreatePostRequest{ImageURL: "https://cdn.example/a.png", Username: "alice", Caption: "hi"},
		},
		{
			name: "caption defaults to empty",
			req:  dto.CreatePostRequest{ImageURL: "https://cdn.example/a.png", Username: "alice"},
		},
		{
			name:    "missing image url",
			req:     dto.CreatePostRequest{Username: "alice", Caption: "hi"},
			wantErr: true,
		},
		{
			name:    "missing username",
			req:     dto.CreatePostRequest{ImageURL: "https://cdn.example/a.png"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockFeedRepository)
			service := NewFeedService(slog.Default(), repo)

			if !tt.wantErr {
				repo.On("InsertPost", ctx, mock.AnythingOfType("models.Post")).Return(nil).Once()
			}

			post, err := service.CreatePost(ctx, tt.req)

			if tt.wantErr {
				assert.ErrorIs(t, err, storage.ErrValidation)
				repo.AssertNotCalled(t, "InsertPost", mock.Anything, mock.Anything)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, post.ID)
			assert.Equal(t, tt.req.ImageURL, post.ImageURL)
			assert.Equal(t, tt.req.Username, post.Username)
			assert.Equal(t, tt.req.Caption, post.Caption)
			assert.Empty(t, post.Likes)
			assert.Zero(t, post.LikesCount)
			repo.AssertExpectations(t)
		})
	}
}

func TestFeedService_ListAllPosts_Ordering(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	ordered := []models.Post{
		{ID: "c", Timestamp: now},
		{ID: "b", Timestamp: now.Add(-time.Minute)},
		{ID: "a", Timestamp: now.Add(-time.Hour)},
	}

	repo := new(MockFeedRepository)
	repo.On("ListPosts", ctx).Return(ordered, nil)
	service := NewFeedService(slog.Default(), repo)

	posts, err := service.ListAllPosts(ctx)
	require.NoError(t, err)
	for i := 0; i+1 < len(posts); i++ {
		assert.False(t, posts[i].Timestamp.Before(posts[i+1].Timestamp))
	}
}

func TestFeedService_ListPostsByAuthor_Empty(t *testing.T) {
	ctx := context.Background()
	repo := new(MockFeedRepository)
	repo.On("ListPostsByUsername", ctx, "nobody").Return([]models.Post{}, nil)
	service := NewFeedService(slog.Default(), repo)

	posts, err := service.ListPostsByAuthor(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestFeedService_ToggleLike(t *testing.T) {
	ctx := context.Background()

	t.Run("adds a new liker and recomputes the count", func(t *testing.T) {
		repo := new(MockFeedRepository)
		repo.On("GetPost", ctx, "p1").Return(models.Post{ID: "p1", Likes: []string{"bob"}, LikesCount: 1}, nil)
		repo.On("UpdateLikes", ctx, "p1", []string{"bob", "alice"}).Return(nil).Once()
		service := NewFeedService(slog.Default(), repo)

		post, err := service.ToggleLike(ctx, "p1", "alice")
		require.NoError(t, err)
		assert.Equal(t, []string{"bob", "alice"}, post.Likes)
		assert.Equal(t, 2, post.LikesCount)
		assert.Equal(t, len(post.Likes), post.LikesCount)
		repo.AssertExpectations(t)
	})

	t.Run("removes an existing liker", func(t *testing.T) {
		repo := new(MockFeedRepository)
		repo.On("GetPost", ctx, "p1").Return(models.Post{ID: "p1", Likes: []string{"bob", "alice"}, LikesCount: 2}, nil)
		repo.On("UpdateLikes", ctx, "p1", []string{"bob"}).Return(nil).Once()
		service := NewFeedService(slog.Default(), repo)

		post, err := service.ToggleLike(ctx, "p1", "alice")
		require.NoError(t, err)
		assert.Equal(t, []string{"bob"}, post.Likes)
		assert.Equal(t, 1, post.LikesCount)
		repo.AssertExpectations(t)
	})

	t.Run("missing post", func(t *testing.T) {
		repo := new(MockFeedRepository)
		repo.On("GetPost", ctx, "gone").Return(models.Post{}, storage.ErrNotFound)
		service := NewFeedService(slog.Default(), repo)

		_, err := service.ToggleLike(ctx, "gone", "alice")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestFeedService_DeletePost_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo := new(MockFeedRepository)
	repo.On("DeletePost", ctx, "gone").Return(nil).Twice()
	service := NewFeedService(slog.Default(), repo)

	require.NoError(t, service.DeletePost(ctx, "gone"))
	require.NoError(t, service.DeletePost(ctx, "gone"))
	repo.AssertExpectations(t)
}

func TestFeedService_Count(t *testing.T) {
	ctx := context.Background()
	repo := new(MockFeedRepository)
	repo.On("ListPosts", ctx).Return([]models.Post{{ID: "a"}, {ID: "b"}}, nil)
	service := NewFeedService(slog.Default(), repo)

	count, err := service.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
