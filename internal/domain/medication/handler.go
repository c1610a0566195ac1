package medication

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sihatech/sihati/internal/platform/auth"
	"github.com/sihatech/sihati/internal/platform/httperr"
	"github.com/sihatech/sihati/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole("admin", "doctor", "receptionist"))
	read.GET("/medications", h.List)
	read.GET("/medications/:id", h.Get)
	read.GET("/medications/low-stock", h.ListLowStock)

	write := api.Group("", auth.RequireRole("admin"))
	write.POST("/medications", h.Create)
	write.PUT("/medications/:id", h.Update)
	write.POST("/medications/:id/restock", h.Restock)
	write.DELETE("/medications/:id", h.Delete)
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func (h *Handler) Create(c echo.Context) error {
	var m Medication
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &m); err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	m, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), c.QueryParam("name"), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

func (h *Handler) ListLowStock(c echo.Context) error {
	items, err := h.svc.ListLowStock(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var m Medication
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m.ID = id
	if err := h.svc.Update(c.Request().Context(), &m); err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) Restock(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Restock(c.Request().Context(), id, body.Quantity); err != nil {
		return httperr.From(err)
	}
	m, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return httperr.From(err)
	}
	return c.NoContent(http.StatusNoContent)
}
