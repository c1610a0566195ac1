package workflow

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sihatech/sihati/internal/domain/billing"
	"github.com/sihatech/sihati/internal/domain/consultation"
	"github.com/sihatech/sihati/internal/platform/auth"
	"github.com/sihatech/sihati/internal/platform/httperr"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/consultations/finish", h.FinishConsultation, auth.RequireRole("admin", "doctor"))
	api.GET("/planning", h.DailyPlanning, auth.RequireRole("admin", "doctor", "receptionist"))
}

type finishRequest struct {
	consultation.Consultation
	Amount float64 `json:"amount"`
}

type finishResponse struct {
	Consultation *consultation.Consultation `json:"consultation"`
	Invoice      *billing.Invoice           `json:"invoice"`
}

func (h *Handler) FinishConsultation(c echo.Context) error {
	var req finishRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	inv, err := h.svc.FinishConsultation(c.Request().Context(), &req.Consultation, req.Amount)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusCreated, finishResponse{Consultation: &req.Consultation, Invoice: inv})
}

func (h *Handler) DailyPlanning(c echo.Context) error {
	day := time.Now()
	if raw := c.QueryParam("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		day = parsed
	}
	entries, err := h.svc.DailyPlanning(c.Request().Context(), day)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, entries)
}
