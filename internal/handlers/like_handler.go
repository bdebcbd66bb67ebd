package handlers

import (
	"net/http"

	"github.com/anonto42/socialgraph/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles like/unlike HTTP requests. There is no toggle
// endpoint; clients call DELETE after a 409 from POST.
type LikeHandler struct {
	engagement *services.Engagement
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(engagement *services.Engagement) *LikeHandler {
	return &LikeHandler{engagement: engagement}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/likes", h.LikePost)
	g.DELETE("/posts/:post_id/likes", h.UnlikePost)
}

func (h *LikeHandler) LikePost(c echo.Context) error {
	postID, err := paramID(c, "post_id")
	if err != nil {
		return err
	}

	if err := h.engagement.Like(c.Request().Context(), getUserIDFromContext(c), postID); err != nil {
		return err
	}
	return respondMessage(c, http.StatusCreated, "Post liked")
}

func (h *LikeHandler) UnlikePost(c echo.Context) error {
	postID, err := paramID(c, "post_id")
	if err != nil {
		return err
	}

	if err := h.engagement.Unlike(c.Request().Context(), getUserIDFromContext(c), postID); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "Post unliked")
}
