package api

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shapedtime/reelbox/internal/handle"
	"github.com/shapedtime/reelbox/internal/media"
	"github.com/shapedtime/reelbox/internal/playback"
	"github.com/shapedtime/reelbox/internal/source"
)

// Server represents the REST API server
type Server struct {
	router         *gin.Engine
	controller     *playback.Controller
	registry       *handle.Registry
	spool          *source.Spool // Optional: nil disables folder uploads
	maxUploadBytes int64
	log            *slog.Logger
}

// NewServer creates a new API server
func NewServer(
	controller *playback.Controller,
	registry *handle.Registry,
	spool *source.Spool,
	maxUploadBytes int64,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		router:         gin.New(),
		controller:     controller,
		registry:       registry,
		spool:          spool,
		maxUploadBytes: maxUploadBytes,
		log:            slog.With("component", "api"),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())

	s.router.Use(func(c *gin.Context) {
		c.Next()
		s.log.Debug("API request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
		)
	})
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")

	// Folder selection
	api.POST("/folder", s.loadFolder)
	api.POST("/folder/upload", s.uploadFolder)
	api.DELETE("/folder", s.clearFolder)

	// Active set
	api.GET("/videos", s.listVideos)
	api.GET("/videos/:index/container", s.probeVideo)
	api.GET("/subtitles", s.listSubtitles)

	// Playback session
	api.GET("/session", s.getSession)
	api.POST("/session", s.play)
	api.DELETE("/session", s.closeSession)
	api.PUT("/session/subtitle", s.selectSubtitle)

	// Status
	api.GET("/status", s.getStatus)

	// Playable handles
	s.router.GET(handle.Prefix+":id", s.serveBlob)
	s.router.HEAD(handle.Prefix+":id", s.serveBlob)
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Error response helper
func errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// errorStatus maps domain errors to HTTP status codes.
func errorStatus(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, media.ErrVideoNotFound),
		errors.Is(err, media.ErrSubtitleNotFound),
		errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, playback.ErrSessionClosed):
		return http.StatusConflict
	case errors.Is(err, source.ErrNotDirectory):
		return http.StatusBadRequest
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func handleError(c *gin.Context, err error) {
	errorResponse(c, errorStatus(err), err.Error())
}
