package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/anonto42/socialgraph/backend/internal/apperrors"
	"github.com/anonto42/socialgraph/backend/internal/logging"
	"github.com/labstack/echo/v4"
)

// ErrorHandler renders every error as {"success": false, "message": ...}
// with a status derived from its kind. Only server side failures are
// logged.
func ErrorHandler(log logging.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, message := statusOf(err)
		if status >= http.StatusInternalServerError {
			log.Error(c.Request().Context(), "request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", status,
				"error", err,
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, echo.Map{
				"success": false,
				"message": message,
			})
		}
		if err != nil {
			log.Error(c.Request().Context(), "write error response", "error", err)
		}
	}
}

func statusOf(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			if status, msg := statusOf(he.Internal); status != http.StatusInternalServerError {
				return status, msg
			}
		}
		return he.Code, fmt.Sprint(he.Message)
	}

	var ae *apperrors.Error
	if !errors.As(err, &ae) {
		return http.StatusInternalServerError, "Internal server error"
	}

	switch ae.Kind {
	case apperrors.KindValidation:
		return http.StatusBadRequest, ae.Message
	case apperrors.KindUnauthenticated:
		return http.StatusUnauthorized, ae.Message
	case apperrors.KindForbidden:
		return http.StatusForbidden, ae.Message
	case apperrors.KindNotFound:
		return http.StatusNotFound, ae.Message
	case apperrors.KindConflict:
		return http.StatusConflict, ae.Message
	case apperrors.KindStorage:
		return http.StatusBadGateway, ae.Message
	case apperrors.KindStoreUnavailable:
		return http.StatusServiceUnavailable, ae.Message
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
