package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Logger emits one structured line per request. Server faults log at
// error level with the underlying cause (an echo.HTTPError keeps its
// internal error out of the response body but available here); client
// errors stay at warn so the two are separable in the log stream.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	httpLog := logger.With().Str("component", "http").Logger()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}

			evt := httpLog.Info()
			switch {
			case status >= 500:
				cause := err
				if he, ok := err.(*echo.HTTPError); ok && he.Internal != nil {
					cause = he.Internal
				}
				evt = httpLog.Error().Err(cause)
			case status >= 400:
				evt = httpLog.Warn().Err(err)
			}

			rid, _ := c.Get("request_id").(string)
			evt.
				Str("request_id", rid).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", status).
				Int64("bytes_out", c.Response().Size).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Msg("request")

			return err
		}
	}
}
