package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"peel_storage/internal/domain/models"
	"peel_storage/internal/storage"
	httprouters "peel_storage/internal/transport/http"
	"peel_storage/internal/transport/http/dto"
)

type MockGalleryService struct {
	mock.Mock
}

func (m *MockGalleryService) ListImages(ctx context.Context) ([]models.GalleryImage, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.GalleryImage), args.Error(1)
}

func (m *MockGalleryService) SaveImage(ctx context.Context, req dto.SaveImageRequest) (models.GalleryImage, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.GalleryImage), args.Error(1)
}

func (m *MockGalleryService) DeleteImage(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGalleryService) ClearAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockGalleryService) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockFeedService struct {
	mock.Mock
}

func (m *MockFeedService) ListAllPosts(ctx context.Context) ([]models.Post, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockFeedService) ListPostsByAuthor(ctx context.Context, username string) ([]models.Post, error) {
	args := m.Called(ctx, username)
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockFeedService) CreatePost(ctx context.Context, req dto.CreatePostRequest) (models.Post, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.Post), args.Error(1)
}

func (m *MockFeedService) ToggleLike(ctx context.Context, postID, username string) (models.Post, error) {
	args := m.Called(ctx, postID, username)
	return args.Get(0).(models.Post), args.Error(1)
}

func (m *MockFeedService) DeletePost(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFeedService) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetProfile(ctx context.Context, username string) (models.Profile, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(models.Profile), args.Error(1)
}

func (m *MockProfileService) UpdateBio(ctx context.Context, username, bio string) (models.Profile, error) {
	args := m.Called(ctx, username, bio)
	return args.Get(0).(models.Profile), args.Error(1)
}

func (m *MockProfileService) UpdateProfilePicture(ctx context.Context, username string, picture *string) (models.Profile, error) {
	args := m.Called(ctx, username, picture)
	return args.Get(0).(models.Profile), args.Error(1)
}

type MockPromptService struct {
	mock.Mock
}

func (m *MockPromptService) ListPrompts(ctx context.Context) ([]models.SavedPrompt, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.SavedPrompt), args.Error(1)
}

func (m *MockPromptService) SavePrompt(ctx context.Context, text, name string) (models.SavedPrompt, error) {
	args := m.Called(ctx, text, name)
	return args.Get(0).(models.SavedPrompt), args.Error(1)
}

func (m *MockPromptService) DeletePrompt(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPromptService) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type requestValidator struct {
	validator *validator.Validate
}

func (rv *requestValidator) Validate(i interface{}) error {
	return rv.validator.Struct(i)
}

type testEnv struct {
	e       *echo.Echo
	routers *httprouters.Routers
	gallery *MockGalleryService
	feed    *MockFeedService
	profile *MockProfileService
	prompt  *MockPromptService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		e:       echo.New(),
		gallery: new(MockGalleryService),
		feed:    new(MockFeedService),
		profile: new(MockProfileService),
		prompt:  new(MockPromptService),
	}
	env.e.Validator = &requestValidator{validator: validator.New()}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	env.routers = httprouters.NewRouter(log, env.gallery, env.feed, env.profile, env.prompt)

	return env
}

func (env *testEnv) request(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	return env.e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSaveImage(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		env := newTestEnv()
		env.gallery.On("SaveImage", mock.Anything, mock.AnythingOfType("dto.SaveImageRequest")).
			Return(models.GalleryImage{ID: "img-1", ImageURL: "https://cdn.example/1.png"}, nil)

		c, rec := env.request(http.MethodPost, "/api/v1/gallery", `{"imageData":"https://cdn.example/1.png"}`)
		require.NoError(t, env.routers.SaveImage(c))

		assert.Equal(t, http.StatusCreated, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "success", body["status"])
		env.gallery.AssertExpectations(t)
	})

	t.Run("missing payload is a validation error", func(t *testing.T) {
		env := newTestEnv()
		env.gallery.On("SaveImage", mock.Anything, mock.AnythingOfType("dto.SaveImageRequest")).
			Return(models.GalleryImage{}, fmt.Errorf("services.gallery.SaveImage: %w: image data is required", storage.ErrValidation))

		c, rec := env.request(http.MethodPost, "/api/v1/gallery", `{}`)
		require.NoError(t, env.routers.SaveImage(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "error", body["status"])
		assert.Equal(t, "validation_failed", body["error"])
	})

	t.Run("malformed json", func(t *testing.T) {
		env := newTestEnv()

		c, rec := env.request(http.MethodPost, "/api/v1/gallery", `{"imageData":`)
		require.NoError(t, env.routers.SaveImage(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "invalid_request", body["error"])
		env.gallery.AssertNotCalled(t, "SaveImage", mock.Anything, mock.Anything)
	})
}

func TestListImages(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		env := newTestEnv()
		env.gallery.On("ListImages", mock.Anything).
			Return([]models.GalleryImage{{ID: "img-2"}, {ID: "img-1"}}, nil)

		c, rec := env.request(http.MethodGet, "/api/v1/gallery", "")
		require.NoError(t, env.routers.ListImages(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		data := body["data"].([]any)
		assert.Len(t, data, 2)
	})

	t.Run("storage unavailable", func(t *testing.T) {
		env := newTestEnv()
		env.gallery.On("ListImages", mock.Anything).
			Return([]models.GalleryImage(nil), fmt.Errorf("repository: %w: dial failed", storage.ErrUnavailable))

		c, rec := env.request(http.MethodGet, "/api/v1/gallery", "")
		require.NoError(t, env.routers.ListImages(c))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "storage_unavailable", body["error"])
	})
}

func TestCountImages(t *testing.T) {
	env := newTestEnv()
	env.gallery.On("Count", mock.Anything).Return(7, nil)

	c, rec := env.request(http.MethodGet, "/api/v1/gallery/count", "")
	require.NoError(t, env.routers.CountImages(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(7), data["count"])
}

func TestCreatePost(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		env := newTestEnv()
		env.feed.On("CreatePost", mock.Anything, dto.CreatePostRequest{
			ImageURL: "https://cdn.example/1.png",
			Username: "alice",
			Caption:  "hello",
		}).Return(models.Post{ID: "p1", Username: "alice"}, nil)

		c, rec := env.request(http.MethodPost, "/api/v1/posts",
			`{"imageUrl":"https://cdn.example/1.png","username":"alice","caption":"hello"}`)
		require.NoError(t, env.routers.CreatePost(c))

		assert.Equal(t, http.StatusCreated, rec.Code)
		env.feed.AssertExpectations(t)
	})

	t.Run("missing username fails request validation", func(t *testing.T) {
		env := newTestEnv()

		c, rec := env.request(http.MethodPost, "/api/v1/posts", `{"imageUrl":"https://cdn.example/1.png"}`)
		require.NoError(t, env.routers.CreatePost(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "validation_failed", body["error"])
		env.feed.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything)
	})
}

func TestListPosts(t *testing.T) {
	t.Run("global feed", func(t *testing.T) {
		env := newTestEnv()
		env.feed.On("ListAllPosts", mock.Anything).
			Return([]models.Post{{ID: "p2"}, {ID: "p1"}}, nil)

		c, rec := env.request(http.MethodGet, "/api/v1/posts", "")
		require.NoError(t, env.routers.ListPosts(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		env.feed.AssertNotCalled(t, "ListPostsByAuthor", mock.Anything, mock.Anything)
	})

	t.Run("scoped by username query", func(t *testing.T) {
		env := newTestEnv()
		env.feed.On("ListPostsByAuthor", mock.Anything, "alice").
			Return([]models.Post{{ID: "p1", Username: "alice"}}, nil)

		c, rec := env.request(http.MethodGet, "/api/v1/posts?username=alice", "")
		require.NoError(t, env.routers.ListPosts(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		env.feed.AssertExpectations(t)
	})
}

func TestToggleLike(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		env := newTestEnv()
		env.feed.On("ToggleLike", mock.Anything, "p1", "alice").
			Return(models.Post{ID: "p1", Likes: []string{"alice"}, LikesCount: 1}, nil)

		c, rec := env.request(http.MethodPost, "/api/v1/posts/p1/like", `{"username":"alice"}`)
		c.SetParamNames("id")
		c.SetParamValues("p1")
		require.NoError(t, env.routers.ToggleLike(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		data := body["data"].(map[string]any)
		assert.Equal(t, float64(1), data["likesCount"])
	})

	t.Run("missing post", func(t *testing.T) {
		env := newTestEnv()
		env.feed.On("ToggleLike", mock.Anything, "gone", "alice").
			Return(models.Post{}, fmt.Errorf("services.feed.ToggleLike: %w", storage.ErrNotFound))

		c, rec := env.request(http.MethodPost, "/api/v1/posts/gone/like", `{"username":"alice"}`)
		c.SetParamNames("id")
		c.SetParamValues("gone")
		require.NoError(t, env.routers.ToggleLike(c))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "not_found", body["error"])
	})
}

func TestGetProfile(t *testing.T) {
	env := newTestEnv()
	env.profile.On("GetProfile", mock.Anything, "newcomer").
		Return(models.DefaultProfile("newcomer"), nil)

	c, rec := env.request(http.MethodGet, "/api/v1/profiles/newcomer", "")
	c.SetParamNames("username")
	c.SetParamValues("newcomer")
	require.NoError(t, env.routers.GetProfile(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	data := body["data"].(map[string]any)
	assert.Equal(t, "newcomer", data["username"])
}

func TestUpdateProfilePicture(t *testing.T) {
	t.Run("null clears the picture", func(t *testing.T) {
		env := newTestEnv()
		env.profile.On("UpdateProfilePicture", mock.Anything, "alice", (*string)(nil)).
			Return(models.Profile{Username: "alice", Bio: "kept"}, nil)

		c, rec := env.request(http.MethodPut, "/api/v1/profiles/alice/picture", `{"profilePicture":null}`)
		c.SetParamNames("username")
		c.SetParamValues("alice")
		require.NoError(t, env.routers.UpdateProfilePicture(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		env.profile.AssertExpectations(t)
	})
}

func TestSavePrompt(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		env := newTestEnv()
		env.prompt.On("SavePrompt", mock.Anything, "a castle at dawn", "castle").
			Return(models.SavedPrompt{ID: "pr1", Name: "castle", Text: "a castle at dawn"}, nil)

		c, rec := env.request(http.MethodPost, "/api/v1/prompts", `{"text":"a castle at dawn","name":"castle"}`)
		require.NoError(t, env.routers.SavePrompt(c))

		assert.Equal(t, http.StatusCreated, rec.Code)
		env.prompt.AssertExpectations(t)
	})

	t.Run("blank text is rejected by the service", func(t *testing.T) {
		env := newTestEnv()
		env.prompt.On("SavePrompt", mock.Anything, "   ", "").
			Return(models.SavedPrompt{}, fmt.Errorf("services.prompt.SavePrompt: %w: text is required", storage.ErrValidation))

		c, rec := env.request(http.MethodPost, "/api/v1/prompts", `{"text":"   "}`)
		require.NoError(t, env.routers.SavePrompt(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeletePrompt(t *testing.T) {
	env := newTestEnv()
	env.prompt.On("DeletePrompt", mock.Anything, "pr1").Return(nil)

	c, rec := env.request(http.MethodDelete, "/api/v1/prompts/pr1", "")
	c.SetParamNames("id")
	c.SetParamValues("pr1")
	require.NoError(t, env.routers.DeletePrompt(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	data := body["data"].(map[string]any)
	assert.Equal(t, true, data["deleted"])
}
