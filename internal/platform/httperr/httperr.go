// Package httperr maps repository and service errors to HTTP responses.
package httperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sihatech/sihati/internal/platform/db"
	"github.com/sihatech/sihati/internal/platform/validate"
)

// From converts an error into an echo HTTPError: 404 for missing rows,
// 409 for constraint violations, 400 for rejected input. Anything else
// is a server fault; the cause is kept for the request log but the
// response body stays generic.
func From(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, db.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case validate.IsError(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
	}
}
