package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"storymaker/pkg/engine/model"
	"storymaker/pkg/hybrid"
	"storymaker/pkg/story"
)

const (
	Name    = "Storymaker Hybrid Story API"
	Version = "2.0.0"
)

// Server is the thin HTTP adapter over the hybrid router. It holds no
// generation logic of its own.
type Server struct {
	Echo        *echo.Echo
	Router      *hybrid.Router
	Model       *model.Engine
	Catalog     *story.Catalog
	Recommended []model.Recommended
	Ctx         context.Context
}

func NewServer(ctx context.Context, router *hybrid.Router, modelEngine *model.Engine, catalog *story.Catalog) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	s := &Server{
		Echo:    e,
		Router:  router,
		Model:   modelEngine,
		Catalog: catalog,
		Ctx:     ctx,
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.Echo.GET("/", s.handleGetRoot)

	api := s.Echo.Group("/api")
	api.GET("/info", s.handleGetInfo)
	api.GET("/model/status", s.handleGetModelStatus)
	api.POST("/model/engine", s.handlePostEngine)
	api.GET("/model/recommended", s.handleGetRecommended)
	api.POST("/generate", s.handlePostGenerate)
	api.POST("/generate-variations", s.handlePostVariations)
	api.POST("/analyze", s.handlePostAnalyze)
	api.GET("/vocabulary/:language", s.handleGetVocabulary)
	api.GET("/templates", s.handleGetTemplates)

	// Unmatched routes get the same envelope as everything else.
	s.Echo.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, response{Success: false, Error: "endpoint not found"})
	})
}

func (s *Server) Start(addr string) error {
	log.Info("server listening", "addr", addr)
	return s.Echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info("shutting down server")
	s.Model.Unload()
	return s.Echo.Shutdown(ctx)
}

// response is the JSON envelope every endpoint answers with.
type response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, response{Success: true, Data: data})
}

// fail maps domain errors onto status codes; anything unexpected is logged
// and answered with a generic message.
func fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	msg := err.Error()

	var ve *story.ValidationError
	var nf *story.NotFoundError
	switch {
	case errors.As(err, &ve):
		status = http.StatusBadRequest
	case errors.As(err, &nf):
		status = http.StatusNotFound
	case errors.Is(err, story.ErrEngineUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, story.ErrGenerationTimeout):
		status = http.StatusGatewayTimeout
	default:
		log.Error("request failed", "path", c.Path(), "error", err)
		msg = "internal server error"
	}

	return c.JSON(status, response{Success: false, Error: msg})
}
