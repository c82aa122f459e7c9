package http

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/moonwatch/internal/domain/session"
	"github.com/yanqian/moonwatch/internal/infra/config"
)

// StaticPrefix is where the local asset directory is mounted.
const StaticPrefix = "/static"

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, issuer *session.Issuer, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	logger = logger.With("component", "http.router")

	router := gin.New()
	router.SetHTMLTemplate(template.Must(parseTemplates()))
	router.Use(
		gin.Recovery(),
		requestLogger(logger),
		errorHandlingMiddleware(logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
	)

	router.GET("/healthz", handler.Health)
	if !cfg.Assets.R2.Enabled {
		router.Static(StaticPrefix, cfg.Assets.Dir)
	}

	sessions := router.Group("/", sessionMiddleware(issuer, cfg.Session.CookieName, logger))
	{
		sessions.GET("/", handler.Index)
		sessions.POST("/query", handler.SubmitForm)
		sessions.POST("/view3d", handler.Toggle3DForm)
		sessions.POST("/audio", handler.ToggleAudioForm)
		sessions.GET("/assets/:name", handler.Asset)
	}

	api := sessions.Group("/api/v1")
	{
		api.GET("/state", handler.State)
		api.PUT("/location", handler.SetLocation)
		api.POST("/query", handler.Query)
		api.POST("/view3d/toggle", handler.Toggle3D)
		api.POST("/audio/toggle", handler.ToggleAudio)
		api.PUT("/audio/position", handler.SeekAudio)
		api.GET("/compass.svg", handler.CompassSVG)
		api.GET("/sphere", handler.Sphere)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
