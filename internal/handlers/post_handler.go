package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/anonto42/socialgraph/backend/internal/apperrors"
	"github.com/anonto42/socialgraph/backend/internal/models"
	"github.com/anonto42/socialgraph/backend/internal/services"
	"github.com/anonto42/socialgraph/backend/internal/storage"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	posts *services.Posts
	feed  *services.Feed
	store storage.Store
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts *services.Posts, feed *services.Feed, store storage.Store) *PostHandler {
	return &PostHandler{
		posts: posts,
		feed:  feed,
		store: store,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.GET("/users/:id/posts", h.GetUserPosts)
}

// CreatePost accepts a JSON body or a multipart form with an optional
// "image" file. The image is stored before the post is written.
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	imageURL, err := h.uploadImage(c)
	if err != nil {
		return err
	}

	post, err := h.posts.Create(c.Request().Context(), getUserIDFromContext(c), req.Content, imageURL)
	if err != nil {
		return err
	}
	return respondData(c, http.StatusCreated, post)
}

// uploadImage stores the multipart "image" file, if any, and returns its URL.
func (h *PostHandler) uploadImage(c echo.Context) (*string, error) {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, nil
	}

	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid image upload")
	}
	if fh.Size > storage.MaxImageSize {
		return nil, apperrors.ErrInvalidImage
	}

	f, err := fh.Open()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid image upload")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, storage.MaxImageSize+1))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid image upload")
	}
	contentType, ext, err := storage.CheckImage(data)
	if err != nil {
		return nil, err
	}

	url, err := h.store.Save(c.Request().Context(), "image"+ext, contentType, data)
	if err != nil {
		return nil, err
	}
	return &url, nil
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	post, err := h.feed.GetPost(c.Request().Context(), getUserIDFromContext(c), id)
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, post)
}

// DeletePost deletes a post; only its author may do so
func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.posts.Delete(c.Request().Context(), getUserIDFromContext(c), id); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "Post deleted")
}

// GetUserPosts lists one user's posts, newest first
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	authorID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	page, err := h.feed.UserPosts(c.Request().Context(), getUserIDFromContext(c), authorID, pageFromQuery(c))
	if err != nil {
		return err
	}
	return respondPosts(c, page)
}
