package billing

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
	read.GET("/invoices", h.List)
	read.GET("/invoices/:id", h.Get)
	read.GET("/invoices/number/:number", h.GetByNumber)

	write := api.Group("", auth.RequireRole("admin", "receptionist"))
	write.POST("/invoices/:id/payments", h.RecordPayment)
	write.POST("/invoices/:id/collect", h.Collect)
	write.DELETE("/invoices/:id", h.Delete)
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	inv, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, invoiceView(inv))
}

func (h *Handler) GetByNumber(c echo.Context) error {
	inv, err := h.svc.GetByNumber(c.Request().Context(), c.Param("number"))
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, invoiceView(inv))
}

// List supports ?patient_id= and ?status= filters.
func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	p := pagination.FromContext(c)

	var (
		items []*Invoice
		total int
		err   error
	)
	switch {
	case c.QueryParam("patient_id") != "":
		var id int64
		id, err = strconv.ParseInt(c.QueryParam("patient_id"), 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		items, total, err = h.svc.ListByPatient(ctx, id, p.Limit, p.Offset)
	case c.QueryParam("status") != "":
		items, total, err = h.svc.ListByStatus(ctx, Status(c.QueryParam("status")), p.Limit, p.Offset)
	default:
		items, total, err = h.svc.List(ctx, p.Limit, p.Offset)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	views := make([]map[string]interface{}, len(items))
	for i, inv := range items {
		views[i] = invoiceView(inv)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(views, total, p.Limit, p.Offset))
}

func (h *Handler) RecordPayment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Amount float64 `json:"amount"`
		Mode   string  `json:"mode"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	inv, err := h.svc.RecordPayment(c.Request().Context(), id, body.Amount, body.Mode)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, invoiceView(inv))
}

func (h *Handler) Collect(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Mode string `json:"mode"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if body.Mode == "" {
		body.Mode = "espèces"
	}
	inv, err := h.svc.Collect(c.Request().Context(), id, body.Mode)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, invoiceView(inv))
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

// invoiceView adds the derived remaining balance to the JSON payload.
func invoiceView(inv *Invoice) map[string]interface{} {
	return map[string]interface{}{
		"id":                  inv.ID,
		"number":              inv.Number,
		"patient_id":          inv.PatientID,
		"consultation_id":     inv.ConsultationID,
		"consultation_amount": inv.ConsultationAmount,
		"medication_amount":   inv.MedicationAmount,
		"total":               inv.Total,
		"paid":                inv.Paid,
		"remaining":           inv.Remaining(),
		"status":              inv.Status,
		"payment_mode":        inv.PaymentMode,
		"payment_date":        inv.PaymentDate,
		"created_at":          inv.CreatedAt,
		"updated_at":          inv.UpdatedAt,
	}
}
