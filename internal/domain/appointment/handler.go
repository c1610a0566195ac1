package appointment

import (
	"context"
	"net/http"
	"strconv"
	"time"

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
	read.GET("/appointments", h.List)
	read.GET("/appointments/:id", h.Get)

	write := api.Group("", auth.RequireRole("admin", "receptionist"))
	write.POST("/appointments", h.Create)
	write.PUT("/appointments/:id", h.Reschedule)
	write.POST("/appointments/:id/confirm", h.Confirm)
	write.POST("/appointments/:id/cancel", h.Cancel)
	write.DELETE("/appointments/:id", h.Delete)

	// Completing an appointment is a clinical act.
	api.POST("/appointments/:id/complete", h.Complete, auth.RequireRole("admin", "doctor"))
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func (h *Handler) Create(c echo.Context) error {
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &a); err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, a)
}

// List supports ?patient_id=, ?practitioner_id= and ?day=YYYY-MM-DD filters.
func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	p := pagination.FromContext(c)

	if day := c.QueryParam("day"); day != "" {
		d, err := time.Parse("2006-01-02", day)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid day, expected YYYY-MM-DD")
		}
		items, err := h.svc.ListByDay(ctx, d)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, items)
	}

	if v := c.QueryParam("patient_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		items, total, err := h.svc.ListByPatient(ctx, id, p.Limit, p.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
	}

	if v := c.QueryParam("practitioner_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid practitioner_id")
		}
		items, total, err := h.svc.ListByPractitioner(ctx, id, p.Limit, p.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
	}

	items, total, err := h.svc.List(ctx, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

func (h *Handler) Reschedule(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a.ID = id
	if err := h.svc.Reschedule(c.Request().Context(), &a); err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Confirm(c echo.Context) error {
	return h.transition(c, h.svc.Confirm)
}

func (h *Handler) Complete(c echo.Context) error {
	return h.transition(c, h.svc.Complete)
}

func (h *Handler) Cancel(c echo.Context) error {
	return h.transition(c, h.svc.Cancel)
}

func (h *Handler) transition(c echo.Context, fn func(ctx context.Context, id int64) error) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := fn(c.Request().Context(), id); err != nil {
		return httperr.From(err)
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, a)
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
