package server

import (
	"time"

	"github.com/labstack/echo/v5"
	"github.com/rs/zerolog"
)

// RequestLogger logs one line per request.
func RequestLogger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			start := time.Now()
			err := next(c)

			event := logger.Info()
			if err != nil {
				event = logger.Error().Err(err)
			}

			req := c.Request()
			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Dur("duration", time.Since(start)).
				Str("remote_addr", req.RemoteAddr).
				Msg("http_request")

			return err
		}
	}
}
