package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthCheck reports the service as healthy only while the store answers.
func HealthCheck(db Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status":  "unavailable",
				"service": "socialgraph",
			})
		}
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "socialgraph",
		})
	}
}
