package account

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sihatech/sihati/internal/platform/auth"
	"github.com/sihatech/sihati/internal/platform/httperr"
	"github.com/sihatech/sihati/pkg/pagination"
)

type Handler struct {
	svc    *Service
	issuer *auth.TokenIssuer
}

func NewHandler(svc *Service, issuer *auth.TokenIssuer) *Handler {
	return &Handler{svc: svc, issuer: issuer}
}

// RegisterPublicRoutes mounts the endpoints that must work without a
// token. Everything else is admin territory.
func (h *Handler) RegisterPublicRoutes(api *echo.Group) {
	api.POST("/auth/login", h.Login)
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	admin := api.Group("", auth.RequireRole("admin"))
	admin.GET("/accounts", h.List)
	admin.GET("/accounts/:id", h.Get)
	admin.POST("/accounts", h.Register)
	admin.PUT("/accounts/:id", h.Update)
	admin.PUT("/accounts/:id/password", h.ResetPassword)
	admin.PUT("/accounts/:id/activate", h.Activate)
	admin.PUT("/accounts/:id/deactivate", h.Deactivate)
	admin.DELETE("/accounts/:id", h.Delete)

	api.PUT("/auth/password", h.ChangePassword)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string   `json:"token"`
	Account *Account `json:"account"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		return httperr.From(err)
	}
	token, err := h.issuer.Issue(strconv.FormatInt(a.ID, 10), a.Username, a.Role, a.PractitionerID, a.PatientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, loginResponse{Token: token, Account: a})
}

type registerRequest struct {
	Account
	Password string `json:"password"`
}

func (h *Handler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Register(c.Request().Context(), &req.Account, req.Password); err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusCreated, req.Account)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	accounts, total, err := h.svc.List(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(accounts, total, p.Limit, p.Offset))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var a Account
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a.ID = id
	if err := h.svc.Update(c.Request().Context(), &a); err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, a)
}

type passwordRequest struct {
	Current string `json:"current_password"`
	New     string `json:"new_password"`
}

// ChangePassword lets the authenticated account change its own
// password after confirming the current one.
func (h *Handler) ChangePassword(c echo.Context) error {
	claims := auth.ClaimsFromContext(c.Request().Context())
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}
	var req passwordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.ChangePassword(c.Request().Context(), id, req.Current, req.New); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		return httperr.From(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ResetPassword(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.ResetPassword(c.Request().Context(), id, req.Password); err != nil {
		return httperr.From(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Activate(c echo.Context) error   { return h.setActive(c, h.svc.Activate) }
func (h *Handler) Deactivate(c echo.Context) error { return h.setActive(c, h.svc.Deactivate) }

func (h *Handler) setActive(c echo.Context, fn func(ctx context.Context, id int64) error) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := fn(c.Request().Context(), id); err != nil {
		return httperr.From(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return httperr.From(err)
	}
	return c.NoContent(http.StatusNoContent)
}
