package handlers

import (
	"net/http"

	"github.com/anonto42/socialgraph/backend/internal/models"
	"github.com/anonto42/socialgraph/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	accounts *services.Accounts
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(accounts *services.Accounts) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/signin", h.SignIn)
	g.POST("/firebase-login", h.FirebaseLogin)
}

// Signup handles local user registration with email and password
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	session, err := h.accounts.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}
	return respondSession(c, http.StatusCreated, session)
}

// SignIn handles local user authentication with email and password
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SigninRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	session, err := h.accounts.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return respondSession(c, http.StatusOK, session)
}

// FirebaseLogin exchanges a Firebase ID token for a local token
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req models.FirebaseLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	session, err := h.accounts.FirebaseLogin(c.Request().Context(), req.IDToken)
	if err != nil {
		return err
	}
	return respondSession(c, http.StatusOK, session)
}

func respondSession(c echo.Context, status int, session *services.Session) error {
	return respondData(c, status, echo.Map{
		"token": session.Token,
		"user":  session.User,
	})
}
