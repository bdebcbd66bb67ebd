package handlers

import (
	"net/http"

	"github.com/anonto42/socialgraph/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	graph *services.SocialGraph
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(graph *services.SocialGraph) *FollowHandler {
	return &FollowHandler{graph: graph}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.FollowUser)
	g.DELETE("/users/:id/follow", h.UnfollowUser)
	g.GET("/users/:id/follow", h.FollowStatus)
}

// FollowUser follows a user
func (h *FollowHandler) FollowUser(c echo.Context) error {
	targetID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.graph.Follow(c.Request().Context(), getUserIDFromContext(c), targetID); err != nil {
		return err
	}
	return respondMessage(c, http.StatusCreated, "User followed")
}

// UnfollowUser unfollows a user; unfollowing someone not followed succeeds
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	targetID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.graph.Unfollow(c.Request().Context(), getUserIDFromContext(c), targetID); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "User unfollowed")
}

func (h *FollowHandler) FollowStatus(c echo.Context) error {
	targetID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	following, err := h.graph.IsFollowing(c.Request().Context(), getUserIDFromContext(c), targetID)
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, echo.Map{"following": following})
}
