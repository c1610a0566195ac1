package analytics

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sihatech/sihati/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/analytics/dashboard", h.Dashboard, auth.RequireRole("admin"))
}

func (h *Handler) Dashboard(c echo.Context) error {
	d, err := h.svc.Overview(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, d)
}
