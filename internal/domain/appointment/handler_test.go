package appointment

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo) {
	svc, _ := newTestService()
	return NewHandler(svc), echo.New()
}

func TestHandler_Create(t *testing.T) {
	h, e := newTestHandler()

	when := time.Now().Add(2 * time.Hour).Format(time.RFC3339)
	body := fmt.Sprintf(`{"patient_id":1,"practitioner_id":10,"date_time":%q,"reason":"Suivi"}`, when)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var a Appointment
	json.Unmarshal(rec.Body.Bytes(), &a)
	if a.Status != StatusPlanned {
		t.Errorf("expected planned, got %s", a.Status)
	}
}

func TestHandler_Create_PastDate(t *testing.T) {
	h, e := newTestHandler()

	when := time.Now().Add(-2 * time.Hour).Format(time.RFC3339)
	body := fmt.Sprintf(`{"patient_id":1,"practitioner_id":10,"date_time":%q,"reason":"Suivi"}`, when)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Create(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_Confirm(t *testing.T) {
	h, e := newTestHandler()
	a := validAppointment()
	h.svc.Create(nil, a)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := h.Confirm(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got Appointment
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Status != StatusConfirmed {
		t.Errorf("expected confirmed, got %s", got.Status)
	}
}

func TestHandler_List_ByDay(t *testing.T) {
	h, e := newTestHandler()
	a := validAppointment()
	h.svc.Create(nil, a)

	day := a.DateTime.Format("2006-01-02")
	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments?day="+day, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_List_BadDay(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments?day=tomorrow", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err == nil {
		t.Error("expected error for bad day format")
	}
}

func TestHandler_RegisterRoutes(t *testing.T) {
	h, e := newTestHandler()
	h.RegisterRoutes(e.Group("/api/v1"))

	routePaths := make(map[string]bool)
	for _, r := range e.Routes() {
		routePaths[r.Method+":"+r.Path] = true
	}
	expected := []string{
		"POST:/api/v1/appointments",
		"GET:/api/v1/appointments",
		"GET:/api/v1/appointments/:id",
		"POST:/api/v1/appointments/:id/confirm",
		"POST:/api/v1/appointments/:id/complete",
		"POST:/api/v1/appointments/:id/cancel",
	}
	for _, path := range expected {
		if !routePaths[path] {
			t.Errorf("missing expected route: %s", path)
		}
	}
}
