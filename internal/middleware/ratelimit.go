package middleware

import (
	"net/http"
	"strconv"

	"github.com/anonto42/socialgraph/backend/internal/logging"
	"github.com/anonto42/socialgraph/backend/internal/ratelimit"
	"github.com/labstack/echo/v4"
)

// RateLimit throttles state-changing requests per principal. Reads pass
// through untouched. Must run after Authenticate.
func RateLimit(limiter ratelimit.Limiter, log logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			key := "user:" + strconv.FormatUint(uint64(UserID(c)), 10)
			ok, err := limiter.Allow(c.Request().Context(), key)
			if err != nil {
				log.Warn(c.Request().Context(), "rate limiter unavailable", "error", err)
			}
			if !ok {
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests")
			}
			return next(c)
		}
	}
}
