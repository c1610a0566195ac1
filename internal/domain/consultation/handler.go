package consultation

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
	read.GET("/consultations", h.List)
	read.GET("/consultations/:id", h.Get)
	read.GET("/consultations/:id/treatments", h.ListTreatments)
	read.GET("/appointments/:id/consultation", h.GetByAppointment)

	write := api.Group("", auth.RequireRole("admin", "doctor"))
	write.POST("/consultations", h.Create)
	write.PUT("/consultations/:id", h.Update)
	write.DELETE("/consultations/:id", h.Delete)
	write.POST("/consultations/:id/treatments", h.AddTreatment)
	write.DELETE("/treatments/:id", h.RemoveTreatment)
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func (h *Handler) Create(c echo.Context) error {
	var cons Consultation
	if err := c.Bind(&cons); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &cons); err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusCreated, cons)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	cons, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, cons)
}

func (h *Handler) GetByAppointment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	cons, err := h.svc.GetByAppointment(c.Request().Context(), id)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, cons)
}

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var cons Consultation
	if err := c.Bind(&cons); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	cons.ID = id
	if err := h.svc.Update(c.Request().Context(), &cons); err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, cons)
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

func (h *Handler) AddTreatment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var t Treatment
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	t.ConsultationID = id
	if err := h.svc.AddTreatment(c.Request().Context(), &t); err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *Handler) ListTreatments(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := h.svc.ListTreatments(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) RemoveTreatment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.RemoveTreatment(c.Request().Context(), id); err != nil {
		return httperr.From(err)
	}
	return c.NoContent(http.StatusNoContent)
}
