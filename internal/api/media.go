package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shapedtime/reelbox/internal/media"
	"github.com/shapedtime/reelbox/internal/probe"
)

// EmptyMessage is shown when the active set holds no videos.
const EmptyMessage = "No videos loaded"

type VideoResponse struct {
	Index           int    `json:"index"`
	Name            string `json:"name"`
	Type            string `json:"type"`
	Size            int64  `json:"size"`
	URL             string `json:"url"`
	DefaultSubtitle *int   `json:"default_subtitle,omitempty"`
}

type VideoListResponse struct {
	SetID   string          `json:"set_id"`
	Empty   bool            `json:"empty"`
	Message string          `json:"message,omitempty"`
	Total   int             `json:"total"`
	Videos  []VideoResponse `json:"videos"`
}

type SubtitleResponse struct {
	Index        int    `json:"index"`
	Name         string `json:"name"`
	Language     string `json:"language"`
	LanguageName string `json:"language_name"`
	URL          string `json:"url"`
}

type StatusResponse struct {
	Status      string    `json:"status"`
	SetID       string    `json:"set_id"`
	LoadedAt    time.Time `json:"loaded_at"`
	Videos      int       `json:"videos"`
	Subtitles   int       `json:"subtitles"`
	LiveHandles int       `json:"live_handles"`
	SessionOpen bool      `json:"session_open"`
}

// listVideos returns the active set's videos, optionally filtered by name
// GET /api/videos?q=term
func (s *Server) listVideos(c *gin.Context) {
	set := s.controller.Manager().Current()
	videos := media.Filter(set.Videos, c.Query("q"))

	response := VideoListResponse{
		SetID:  set.ID,
		Empty:  set.Empty(),
		Total:  len(set.Videos),
		Videos: make([]VideoResponse, len(videos)),
	}
	if response.Empty {
		response.Message = EmptyMessage
	}

	for i, v := range videos {
		response.Videos[i] = toVideoResponse(v, set)
	}

	c.JSON(http.StatusOK, response)
}

// probeVideo reports a video's container layout
// GET /api/videos/:index/container
func (s *Server) probeVideo(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid index format")
		return
	}

	video, ok := s.controller.Manager().Current().Video(index)
	if !ok {
		handleError(c, fmt.Errorf("%w: index %d", media.ErrVideoNotFound, index))
		return
	}

	info, err := probe.File(video.Source)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

// listSubtitles returns the active set's subtitle files
// GET /api/subtitles
func (s *Server) listSubtitles(c *gin.Context) {
	set := s.controller.Manager().Current()

	response := make([]SubtitleResponse, len(set.Subtitles))
	for i, sub := range set.Subtitles {
		response[i] = toSubtitleResponse(sub)
	}

	c.JSON(http.StatusOK, response)
}

// getStatus reports the active set and handle counts
// GET /api/status
func (s *Server) getStatus(c *gin.Context) {
	set := s.controller.Manager().Current()
	stats := s.controller.MediaStats()

	c.JSON(http.StatusOK, StatusResponse{
		Status:      "ok",
		SetID:       set.ID,
		LoadedAt:    set.LoadedAt,
		Videos:      len(set.Videos),
		Subtitles:   len(set.Subtitles),
		LiveHandles: s.registry.Live(),
		SessionOpen: stats.SessionOpen,
	})
}

func toVideoResponse(v media.MediaEntry, set *media.MediaSet) VideoResponse {
	resp := VideoResponse{
		Index: v.Index,
		Name:  v.Name(),
		Type:  v.Source.Type(),
		Size:  v.Source.Size(),
		URL:   v.Handle.String(),
	}
	if sub, ok := media.MatchSubtitle(v, set.Subtitles); ok {
		resp.DefaultSubtitle = &sub.Index
	}
	return resp
}

func toSubtitleResponse(sub media.SubtitleEntry) SubtitleResponse {
	return SubtitleResponse{
		Index:        sub.Index,
		Name:         sub.Name(),
		Language:     sub.Language,
		LanguageName: sub.LanguageName,
		URL:          sub.Handle.String(),
	}
}
