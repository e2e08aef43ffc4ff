package httpserver

import (
	"mime"
	"net/http"
	"path/filepath"

	"movieflix/errs"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterFileRoutes() {
	s.Router.GET("/file/:fileName", s.handleServePoster)
}

func (s *Server) handleServePoster(c echo.Context) error {
	if s.Posters == nil {
		return errs.Errorf(errs.ENOTIMPLEMENTED, "poster store not configured")
	}

	name := c.Param("fileName")
	rc, err := s.Posters.Open(c.Request().Context(), s.PosterDir, name)
	if err != nil {
		return err
	}
	defer rc.Close()

	return c.Stream(http.StatusOK, contentType(name), rc)
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return echo.MIMEOctetStream
}
