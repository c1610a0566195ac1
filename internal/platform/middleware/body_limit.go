package middleware

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

// BodyLimit caps request bodies at limit bytes. Oversized requests are
// rejected with 413 before any handler binds them; the reader wrap
// catches requests that omit or understate Content-Length.
func BodyLimit(limit int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Body == nil || req.Body == http.NoBody {
				return next(c)
			}
			if req.ContentLength > limit {
				return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large")
			}
			req.Body = &cappedReader{ReadCloser: req.Body, remaining: limit}
			return next(c)
		}
	}
}

type cappedReader struct {
	io.ReadCloser
	remaining int64
	tripped   bool
}

func (r *cappedReader) Read(p []byte) (int, error) {
	if r.tripped {
		return 0, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large")
	}
	// Read one byte past the cap so overflow is detectable.
	if allowed := r.remaining + 1; int64(len(p)) > allowed {
		p = p[:allowed]
	}
	n, err := r.ReadCloser.Read(p)
	r.remaining -= int64(n)
	if r.remaining < 0 {
		r.tripped = true
		return 0, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large")
	}
	return n, err
}
