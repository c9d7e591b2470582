package httpapp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appmiddleware "peel_storage/internal/middleware"
	httprouters "peel_storage/internal/transport/http"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Server struct {
	log     *slog.Logger
	e       *echo.Echo
	routers *httprouters.Routers
	host    string
	port    string
}

func New(log *slog.Logger, host, port string, routers *httprouters.Routers) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(appmiddleware.PrometheusMetrics)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote ip", v.RemoteIP),
			)

			return nil
		},
	}))

	return &Server{
		log:     log,
		e:       e,
		routers: routers,
		host:    host,
		port:    port,
	}
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("Start", "server"))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(fmt.Sprintf(":%s", s.port)); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping", op, "http server")

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

func (s *Server) BuildRouters() {
	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.e.Group("/api/v1")
	{
		gallery := api.Group("/gallery")
		{
			gallery.GET("", s.routers.ListImages)
			gallery.POST("", s.routers.SaveImage)
			gallery.GET("/count", s.routers.CountImages)
			gallery.DELETE("/:id", s.routers.DeleteImage)
			gallery.DELETE("", s.routers.ClearGallery)
		}

		posts := api.Group("/posts")
		{
			posts.GET("", s.routers.ListPosts)
			posts.POST("", s.routers.CreatePost)
			posts.GET("/count", s.routers.CountPosts)
			posts.POST("/:id/like", s.routers.ToggleLike)
			posts.DELETE("/:id", s.routers.DeletePost)
		}

		profiles := api.Group("/profiles")
		{
			profiles.GET("/:username", s.routers.GetProfile)
			profiles.PUT("/:username/bio", s.routers.UpdateBio)
			profiles.PUT("/:username/picture", s.routers.UpdateProfilePicture)
		}

		prompts := api.Group("/prompts")
		{
			prompts.GET("", s.routers.ListPrompts)
			prompts.POST("", s.routers.SavePrompt)
			prompts.GET("/count", s.routers.CountPrompts)
			prompts.DELETE("/:id", s.routers.DeletePrompt)
		}
	}
}
