package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/socialgraph/backend/internal/models"
	"github.com/anonto42/socialgraph/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	users *services.Users
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *services.Users) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)    // own account
	g.PUT("/profile", h.UpdateProfile) // own account
	g.DELETE("/profile", h.DeleteUser) // own account
	g.GET("/users", h.SearchUsers)
	g.GET("/users/:id", h.GetUser)
}

// GetUser returns another user's public profile
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	profile, err := h.users.Profile(c.Request().Context(), getUserIDFromContext(c), id)
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, profile)
}

// GetProfile returns the authenticated user's account
func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := h.users.Account(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, user)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req models.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), getUserIDFromContext(c), req.Bio, req.ProfileImageURL)
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, user)
}

// DeleteUser deletes the authenticated user's account and everything it owns
func (h *UserHandler) DeleteUser(c echo.Context) error {
	if err := h.users.Delete(c.Request().Context(), getUserIDFromContext(c)); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "Account deleted")
}

// SearchUsers finds users by username, ?search=<text>&limit=<n>
func (h *UserHandler) SearchUsers(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	users, err := h.users.Search(c.Request().Context(), c.QueryParam("search"), limit)
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, echo.Map{"users": users})
}
