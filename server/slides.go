package server

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// slides forwards an uploaded PDF to the external rendering service and
// relays the ordered slide images.
func (s *Server) slides(c *gin.Context) {
	if s.cfg.Services.Renderer.URL == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "slide renderer not configured"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No PDF file provided"})
		return
	}

	tmp := filepath.Join(os.TempDir(), filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, tmp); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer os.Remove(tmp)

	rendered, err := s.http.RenderSlides(c.Request.Context(), s.cfg.Services.Renderer.URL, tmp)
	if err != nil {
		s.log.WithError(err).Warn("slide rendering failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rendered)
}
