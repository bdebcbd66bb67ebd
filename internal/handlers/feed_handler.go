package handlers

import (
	"github.com/anonto42/socialgraph/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	feed *services.Feed
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feed *services.Feed) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns the current user's posts and the posts of everyone they
// follow, newest first
func (h *FeedHandler) GetFeed(c echo.Context) error {
	page, err := h.feed.GetFeed(c.Request().Context(), getUserIDFromContext(c), pageFromQuery(c))
	if err != nil {
		return err
	}
	return respondPosts(c, page)
}
