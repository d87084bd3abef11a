package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shapedtime/reelbox/internal/playback"
)

type PlayRequest struct {
	Index *int `json:"index" binding:"required"`
}

// SelectSubtitleRequest picks a subtitle; a null or missing index detaches it.
type SelectSubtitleRequest struct {
	Index *int `json:"index"`
}

type SessionResponse struct {
	Open     bool              `json:"open"`
	SetID    string            `json:"set_id,omitempty"`
	Video    *VideoResponse    `json:"video,omitempty"`
	Subtitle *SubtitleResponse `json:"subtitle,omitempty"`
	TrackURL string            `json:"track_url,omitempty"`
	Pending  bool              `json:"pending"`
}

// getSession returns the playback session
// GET /api/session
func (s *Server) getSession(c *gin.Context) {
	c.JSON(http.StatusOK, s.toSessionResponse(s.controller.Snapshot()))
}

// play opens a video from the active set
// POST /api/session
func (s *Server) play(c *gin.Context) {
	var req PlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := s.controller.Play(*req.Index)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, s.toSessionResponse(snap))
}

// selectSubtitle switches the attached subtitle
// PUT /api/session/subtitle
func (s *Server) selectSubtitle(c *gin.Context) {
	var req SelectSubtitleRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	index := playback.NoSubtitle
	if req.Index != nil {
		index = *req.Index
	}

	snap, err := s.controller.SelectSubtitle(index)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, s.toSessionResponse(snap))
}

// closeSession ends playback
// DELETE /api/session
func (s *Server) closeSession(c *gin.Context) {
	s.controller.Close()
	c.Status(http.StatusNoContent)
}

func (s *Server) toSessionResponse(snap playback.Snapshot) SessionResponse {
	resp := SessionResponse{
		Open:     snap.Open,
		SetID:    snap.SetID,
		TrackURL: snap.Track.String(),
		Pending:  snap.Pending,
	}
	if snap.Video != nil {
		v := VideoResponse{
			Index: snap.Video.Index,
			Name:  snap.Video.Name(),
			Type:  snap.Video.Source.Type(),
			Size:  snap.Video.Source.Size(),
			URL:   snap.Video.Handle.String(),
		}
		resp.Video = &v
	}
	if snap.Subtitle != nil {
		sub := toSubtitleResponse(*snap.Subtitle)
		resp.Subtitle = &sub
	}
	return resp
}
