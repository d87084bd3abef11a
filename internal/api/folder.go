package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shapedtime/reelbox/internal/media"
	"github.com/shapedtime/reelbox/internal/source"
)

// UploadField is the multipart field carrying the selected files.
const UploadField = "files"

// LoadFolderRequest selects a directory on the server's filesystem.
type LoadFolderRequest struct {
	Path string `json:"path" binding:"required"`
}

// FolderResponse summarises a freshly loaded set.
type FolderResponse struct {
	SetID     string `json:"set_id"`
	Videos    int    `json:"videos"`
	Subtitles int    `json:"subtitles"`
	Empty     bool   `json:"empty"`
}

// loadFolder replaces the active set with a server-side directory
// POST /api/folder
func (s *Server) loadFolder(c *gin.Context) {
	var req LoadFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	files, err := source.ReadDir(req.Path)
	if err != nil {
		handleError(c, err)
		return
	}

	set := s.controller.LoadFolder(files)
	c.JSON(http.StatusOK, toFolderResponse(set))
}

// uploadFolder replaces the active set with a browser folder upload
// POST /api/folder/upload
func (s *Server) uploadFolder(c *gin.Context) {
	if s.spool == nil {
		errorResponse(c, http.StatusServiceUnavailable, "Uploads not enabled")
		return
	}

	if s.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadBytes)
	}

	form, err := c.MultipartForm()
	if err != nil {
		status := errorStatus(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadRequest
		}
		errorResponse(c, status, err.Error())
		return
	}
	defer form.RemoveAll()

	files, err := s.spool.Receive(form.File[UploadField])
	if err != nil {
		handleError(c, err)
		return
	}

	set := s.controller.LoadFolder(files)
	c.JSON(http.StatusOK, toFolderResponse(set))
}

// clearFolder drops the active set
// DELETE /api/folder
func (s *Server) clearFolder(c *gin.Context) {
	s.controller.LoadFolder(nil)
	c.Status(http.StatusNoContent)
}

func toFolderResponse(set *media.MediaSet) FolderResponse {
	return FolderResponse{
		SetID:     set.ID,
		Videos:    len(set.Videos),
		Subtitles: len(set.Subtitles),
		Empty:     set.Empty(),
	}
}
