package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestTimeout puts a deadline on each request context. A handler
// that outlives it sees its context cancelled and the client gets 504.
// Handlers needing longer (the SQL export) derive their own context.
func RequestTimeout(d time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), d)
			defer cancel()
			c.SetRequest(c.Request().WithContext(ctx))

			done := make(chan error, 1)
			go func() { done <- next(c) }()

			select {
			case err := <-done:
				return err
			case <-ctx.Done():
				if ctx.Err() != context.DeadlineExceeded {
					return ctx.Err()
				}
				if c.Response().Committed {
					return nil
				}
				return echo.NewHTTPError(http.StatusGatewayTimeout, "request timed out")
			}
		}
	}
}
