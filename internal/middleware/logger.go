package middleware

import (
	"context"

	"github.com/anonto42/socialgraph/backend/internal/logging"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// RequestLogger writes one access log line per request.
func RequestLogger(log logging.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			args := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
			}
			if v.RequestID != "" {
				args = append(args, "request_id", v.RequestID)
			}
			if id := UserID(c); id != 0 {
				args = append(args, "user_id", id)
			}
			logAtLevel(c.Request().Context(), log, v.Status, args)
			return nil
		},
	})
}

func logAtLevel(ctx context.Context, log logging.Logger, status int, args []any) {
	switch {
	case status >= 500:
		log.Error(ctx, "request", args...)
	case status >= 400:
		log.Warn(ctx, "request", args...)
	default:
		log.Info(ctx, "request", args...)
	}
}

