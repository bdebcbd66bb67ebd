package middleware

import (
	"strings"

	"github.com/anonto42/socialgraph/backend/internal/apperrors"
	"github.com/anonto42/socialgraph/backend/internal/auth"
	"github.com/labstack/echo/v4"
)

const userIDKey = "userID"

// Authenticate resolves the bearer token to a principal and stores its id
// on the context. Requests without a valid token never reach next.
func Authenticate(authenticator auth.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return apperrors.ErrUnauthenticated
			}

			userID, err := authenticator.Authenticate(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(userIDKey, userID)
			return next(c)
		}
	}
}

// UserID returns the authenticated principal, or 0 outside Authenticate.
func UserID(c echo.Context) uint {
	id, _ := c.Get(userIDKey).(uint)
	return id
}

// bearerToken extracts the token from "Bearer <token>".
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
