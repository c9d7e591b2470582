package app

import (
	"log/slog"

	httpapp "peel_storage/internal/app/http"
	"peel_storage/internal/config"
	"peel_storage/internal/repository"
	feed "peel_storage/internal/services/feed_service"
	gallery "peel_storage/internal/services/gallery_service"
	profile "peel_storage/internal/services/profile_service"
	prompt "peel_storage/internal/services/prompt_service"
	redisapp "peel_storage/internal/storage/redis"
	httprouters "peel_storage/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server

	repo  *repository.Repository
	redis *redisapp.Client
}

// New wires the stores, services and HTTP server. Nothing connects here:
// every store initializes lazily on its first operation.
func New(log *slog.Logger, cfg *config.Config) *App {
	redisClient := redisapp.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)

	repo := repository.NewRepository(cfg.DSN, redisClient)

	galleryService := gallery.NewGalleryService(log, repo.Gallery, repo.LegacyGallery)
	feedService := feed.NewFeedService(log, repo.Feed)
	profileService := profile.NewProfileService(log, repo.Profile)
	promptService := prompt.NewPromptService(log, repo.Prompt)

	routers := httprouters.NewRouter(log, galleryService, feedService, profileService, promptService)

	server := httpapp.New(log, cfg.HTTP.Host, cfg.HTTP.Port, routers)

	return &App{
		HTTPServer: server,
		repo:       repo,
		redis:      redisClient,
	}
}

func (a *App) Stop() error {
	err := a.HTTPServer.Stop()
	a.repo.Close()
	a.redis.Close()
	return err
}
