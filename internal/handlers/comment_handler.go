package handlers

import (
	"net/http"

	"github.com/anonto42/socialgraph/backend/internal/models"
	"github.com/anonto42/socialgraph/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles comment HTTP requests
type CommentHandler struct {
	engagement *services.Engagement
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(engagement *services.Engagement) *CommentHandler {
	return &CommentHandler{engagement: engagement}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/comments", h.CreateComment)
	g.GET("/posts/:post_id/comments", h.GetComments)
	g.DELETE("/comments/:id", h.DeleteComment)
}

func (h *CommentHandler) CreateComment(c echo.Context) error {
	postID, err := paramID(c, "post_id")
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.engagement.Comment(c.Request().Context(), getUserIDFromContext(c), postID, req.Content)
	if err != nil {
		return err
	}
	return respondData(c, http.StatusCreated, comment)
}

// GetComments lists a post's comments, newest first
func (h *CommentHandler) GetComments(c echo.Context) error {
	postID, err := paramID(c, "post_id")
	if err != nil {
		return err
	}

	seq, err := h.engagement.ListComments(c.Request().Context(), postID)
	if err != nil {
		return err
	}

	comments := []models.CommentView{}
	for comment, err := range seq {
		if err != nil {
			return err
		}
		comments = append(comments, comment)
	}
	return respondData(c, http.StatusOK, echo.Map{"comments": comments})
}

func (h *CommentHandler) DeleteComment(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.engagement.DeleteComment(c.Request().Context(), getUserIDFromContext(c), id); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "Comment deleted")
}
