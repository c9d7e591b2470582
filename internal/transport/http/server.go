package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"peel_storage/internal/domain/models"
	"peel_storage/internal/lib/logger/sl"
	"peel_storage/internal/storage"
	"peel_storage/internal/transport/http/dto"
	"peel_storage/internal/transport/http/dto/response"
)

type GalleryService interface {
	ListImages(ctx context.Context) ([]models.GalleryImage, error)
	SaveImage(ctx context.Context, req dto.SaveImageRequest) (models.GalleryImage, error)
	DeleteImage(ctx context.Context, id string) error
	ClearAll(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}

type FeedService interface {
	ListAllPosts(ctx context.Context) ([]models.Post, error)
	ListPostsByAuthor(ctx context.Context, username string) ([]models.Post, error)
	CreatePost(ctx context.Context, req dto.CreatePostRequest) (models.Post, error)
	ToggleLike(ctx context.Context, postID, username string) (models.Post, error)
	DeletePost(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type ProfileService interface {
	GetProfile(ctx context.Context, username string) (models.Profile, error)
	UpdateBio(ctx context.Context, username, bio string) (models.Profile, error)
	UpdateProfilePicture(ctx context.Context, username string, picture *string) (models.Profile, error)
}

type PromptService interface {
	ListPrompts(ctx context.Context) ([]models.SavedPrompt, error)
	SavePrompt(ctx context.Context, text, name string) (models.SavedPrompt, error)
	DeletePrompt(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type Routers struct {
	log            *slog.Logger
	GalleryService GalleryService
	FeedService    FeedService
	ProfileService ProfileService
	PromptService  PromptService
}

func NewRouter(log *slog.Logger, gallery GalleryService, feed FeedService, profile ProfileService, prompt PromptService) *Routers {
	return &Routers{
		log:            log,
		GalleryService: gallery,
		FeedService:    feed,
		ProfileService: profile,
		PromptService:  prompt,
	}
}

// ListImages handles GET /api/v1/gallery.
func (r *Routers) ListImages(c echo.Context) error {
	images, err := r.GalleryService.ListImages(c.Request().Context())
	if err != nil {
		return r.fail(c, "http.routers.ListImages", err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(images))
}

// SaveImage handles POST /api/v1/gallery.
func (r *Routers) SaveImage(c echo.Context) error {
	const op = "http.routers.SaveImage"

	var req dto.SaveImageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	img, err := r.GalleryService.SaveImage(c.Request().Context(), req)
	if err != nil {
		return r.fail(c, op, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(img))
}

// DeleteImage handles DELETE /api/v1/gallery/:id.
func (r *Routers) DeleteImage(c echo.Context) error {
	if err := r.GalleryService.DeleteImage(c.Request().Context(), c.Param("id")); err != nil {
		return r.fail(c, "http.routers.DeleteImage", err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]bool{"deleted": true}))
}

// ClearGallery handles DELETE /api/v1/gallery.
func (r *Routers) ClearGallery(c echo.Context) error {
	if err := r.GalleryService.ClearAll(c.Request().Context()); err != nil {
		return r.fail(c, "http.routers.ClearGallery", err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]bool{"cleared": true}))
}

// CountImages handles GET /api/v1/gallery/count.
func (r *Routers) CountImages(c echo.Context) error {
	count, err := r.GalleryService.Count(c.Request().Context())
	if err != nil {
		return r.fail(c, "http.routers.CountImages", err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.CountResponse{Count: count}))
}

// ListPosts handles GET /api/v1/posts, optionally scoped to one author via
// the username query parameter.
func (r *Routers) ListPosts(c echo.Context) error {
	const op = "http.routers.ListPosts"

	ctx := c.Request().Context()

	var (
		posts []models.Post
		err   error
	)
	if username := c.QueryParam("username"); username != "" {
		posts, err = r.FeedService.ListPostsByAuthor(ctx, username)
	} else {
		posts, err = r.FeedService.ListAllPosts(ctx)
	}
	if err != nil {
		return r.fail(c, op, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(posts))
}

// CreatePost handles POST /api/v1/posts.
func (r *Routers) CreatePost(c echo.Context) error {
	const op = "http.routers.CreatePost"

	var req dto.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		r.log.Warn("invalid create post request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", err.Error()))
	}

	post, err := r.FeedService.CreatePost(c.Request().Context(), req)
	if err != nil {
		return r.fail(c, op, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(post))
}

// ToggleLike handles POST /api/v1/posts/:id/like.
func (r *Routers) ToggleLike(c echo.Context) error {
	const op = "http.routers.ToggleLike"

	var req dto.ToggleLikeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", err.Error()))
	}

	post, err := r.FeedService.ToggleLike(c.Request().Context(), c.Param("id"), req.Username)
	if err != nil {
		return r.fail(c, op, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(post))
}

// DeletePost handles DELETE /api/v1/posts/:id.
func (r *Routers) DeletePost(c echo.Context) error {
	if err := r.FeedService.DeletePost(c.Request().Context(), c.Param("id")); err != nil {
		return r.fail(c, "http.routers.DeletePost", err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]bool{"deleted": true}))
}

// CountPosts handles GET /api/v1/posts/count.
func (r *Routers) CountPosts(c echo.Context) error {
	count, err := r.FeedService.Count(c.Request().Context())
	if err != nil {
		return r.fail(c, "http.routers.CountPosts", err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.CountResponse{Count: count}))
}

// GetProfile handles GET /api/v1/profiles/:username. Absence of a stored
// record is not an error: a default record comes back instead.
func (r *Routers) GetProfile(c echo.Context) error {
	profile, err := r.ProfileService.GetProfile(c.Request().Context(), c.Param("username"))
	if err != nil {
		return r.fail(c, "http.routers.GetProfile", err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(profile))
}

// UpdateBio handles PUT /api/v1/profiles/:username/bio.
func (r *Routers) UpdateBio(c echo.Context) error {
	const op = "http.routers.UpdateBio"

	var req dto.UpdateBioRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	profile, err := r.ProfileService.UpdateBio(c.Request().Context(), c.Param("username"), req.Bio)
	if err != nil {
		return r.fail(c, op, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(profile))
}

// UpdateProfilePicture handles PUT /api/v1/profiles/:username/picture.
// A null picture clears the current one.
func (r *Routers) UpdateProfilePicture(c echo.Context) error {
	const op = "http.routers.UpdateProfilePicture"

	var req dto.UpdateProfilePictureRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	profile, err := r.ProfileService.UpdateProfilePicture(c.Request().Context(), c.Param("username"), req.ProfilePicture)
	if err != nil {
		return r.fail(c, op, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(profile))
}

// ListPrompts handles GET /api/v1/prompts.
func (r *Routers) ListPrompts(c echo.Context) error {
	prompts, err := r.PromptService.ListPrompts(c.Request().Context())
	if err != nil {
		return r.fail(c, "http.routers.ListPrompts", err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(prompts))
}

// SavePrompt handles POST /api/v1/prompts.
func (r *Routers) SavePrompt(c echo.Context) error {
	const op = "http.routers.SavePrompt"

	var req dto.SavePromptRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	prompt, err := r.PromptService.SavePrompt(c.Request().Context(), req.Text, req.Name)
	if err != nil {
		return r.fail(c, op, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(prompt))
}

// DeletePrompt handles DELETE /api/v1/prompts/:id.
func (r *Routers) DeletePrompt(c echo.Context) error {
	if err := r.PromptService.DeletePrompt(c.Request().Context(), c.Param("id")); err != nil {
		return r.fail(c, "http.routers.DeletePrompt", err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]bool{"deleted": true}))
}

// CountPrompts handles GET /api/v1/prompts/count.
func (r *Routers) CountPrompts(c echo.Context) error {
	count, err := r.PromptService.Count(c.Request().Context())
	if err != nil {
		return r.fail(c, "http.routers.CountPrompts", err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.CountResponse{Count: count}))
}

// fail maps the storage error taxonomy onto status codes. Everything the
// services return is already wrapped, so raw engine errors never reach
// clients.
func (r *Routers) fail(c echo.Context, op string, err error) error {
	r.log.Error("request failed", slog.String("op", op), sl.Err(err))

	switch {
	case errors.Is(err, storage.ErrValidation):
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", err.Error()))
	case errors.Is(err, storage.ErrUnavailable):
		return c.JSON(http.StatusServiceUnavailable, response.ErrStorageUnavailable)
	case errors.Is(err, storage.ErrNotFound):
		return c.JSON(http.StatusNotFound, response.ErrRecordNotFound)
	default:
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}
}
