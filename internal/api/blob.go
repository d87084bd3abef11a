package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shapedtime/reelbox/internal/handle"
)

// serveBlob streams a live playable handle with range support
// GET /blob/:id
func (s *Server) serveBlob(c *gin.Context) {
	res, ok := s.registry.Lookup(c.Param("id"))
	if !ok {
		errorResponse(c, http.StatusNotFound, "Handle not found")
		return
	}

	handle.Serve(c.Writer, c.Request, res)
}
