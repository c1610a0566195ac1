package patient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo) {
	h := NewHandler(newTestService())
	return h, echo.New()
}

func TestHandler_Create(t *testing.T) {
	h, e := newTestHandler()

	body := `{"first_name":"Salma","last_name":"Berrada","sex":"F","cin":"BE123456"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var p Patient
	json.Unmarshal(rec.Body.Bytes(), &p)
	if p.ID == 0 || p.CIN != "BE123456" {
		t.Errorf("unexpected body: %+v", p)
	}
}

func TestHandler_Create_Invalid(t *testing.T) {
	h, e := newTestHandler()

	body := `{"first_name":"Salma","sex":"F"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Create(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_Create_DuplicateCIN(t *testing.T) {
	h, e := newTestHandler()
	h.svc.Create(nil, &Patient{FirstName: "Salma", LastName: "Berrada", Sex: "F", CIN: "BE123456"})

	body := `{"first_name":"Imane","last_name":"Alaoui","sex":"F","cin":"BE123456"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Create(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusConflict {
		t.Errorf("expected 409, got %v", err)
	}
}

func TestHandler_Get(t *testing.T) {
	h, e := newTestHandler()
	p := &Patient{FirstName: "Salma", LastName: "Berrada", Sex: "F"}
	h.svc.Create(nil, p)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := h.Get(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_Get_NotFound(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("999")

	err := h.Get(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_Get_InvalidID(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	if err := h.Get(c); err == nil {
		t.Error("expected error for invalid id")
	}
}

func TestHandler_List_WithNameFilter(t *testing.T) {
	h, e := newTestHandler()
	h.svc.Create(nil, &Patient{FirstName: "Salma", LastName: "Berrada", Sex: "F"})
	h.svc.Create(nil, &Patient{FirstName: "Youssef", LastName: "Tazi", Sex: "M"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients?name=tazi", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp struct {
		Total int `json:"total"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Total != 1 {
		t.Errorf("expected 1 match, got %d", resp.Total)
	}
}

func TestHandler_Delete(t *testing.T) {
	h, e := newTestHandler()
	p := &Patient{FirstName: "Salma", LastName: "Berrada", Sex: "F"}
	h.svc.Create(nil, p)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestHandler_RegisterRoutes(t *testing.T) {
	h, e := newTestHandler()
	api := e.Group("/api/v1")
	h.RegisterRoutes(api)

	routePaths := make(map[string]bool)
	for _, r := range e.Routes() {
		routePaths[r.Method+":"+r.Path] = true
	}
	expected := []string{
		"POST:/api/v1/patients",
		"GET:/api/v1/patients",
		"GET:/api/v1/patients/:id",
		"GET:/api/v1/patients/cin/:cin",
		"PUT:/api/v1/patients/:id",
		"DELETE:/api/v1/patients/:id",
	}
	for _, path := range expected {
		if !routePaths[path] {
			t.Errorf("missing expected route: %s", path)
		}
	}
}
