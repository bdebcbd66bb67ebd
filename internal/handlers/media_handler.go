package handlers

import (
	"net/http"

	"github.com/anonto42/socialgraph/backend/internal/storage"
	"github.com/labstack/echo/v4"
)

// MediaHandler serves images kept by stores that implement storage.Opener.
type MediaHandler struct {
	opener storage.Opener
}

func NewMediaHandler(opener storage.Opener) *MediaHandler {
	return &MediaHandler{opener: opener}
}

func (h *MediaHandler) RegisterMediaRoutes(e *echo.Echo) {
	e.GET("/media/:id", h.GetMedia)
}

func (h *MediaHandler) GetMedia(c echo.Context) error {
	rc, contentType, err := h.opener.Open(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	defer rc.Close()

	c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	return c.Stream(http.StatusOK, contentType, rc)
}
