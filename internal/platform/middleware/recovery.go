package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Recovery converts handler panics into 500 responses so a single
// broken request cannot bring the server down. The stack trace goes to
// the log only; http.ErrAbortHandler is re-raised because net/http
// uses it to abort the connection on purpose.
func Recovery(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				rid, _ := c.Get("request_id").(string)
				logger.Error().
					Str("request_id", rid).
					Str("method", c.Request().Method).
					Str("path", c.Request().URL.Path).
					Str("stack", string(debug.Stack())).
					Msgf("panic recovered: %v", r)

				err = echo.NewHTTPError(http.StatusInternalServerError, "internal server error").
					SetInternal(fmt.Errorf("panic: %v", r))
			}()
			return next(c)
		}
	}
}
