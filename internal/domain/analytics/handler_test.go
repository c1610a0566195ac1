package analytics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sihatech/sihati/internal/domain/patient"
)

func TestHandler_Dashboard(t *testing.T) {
	svc := newTestService(&fixedSources{
		patients: []*patient.Patient{{ID: 1}, {ID: 2}},
	})
	h := NewHandler(svc)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Dashboard(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var d Dashboard
	json.Unmarshal(rec.Body.Bytes(), &d)
	if d.PatientCount != 2 {
		t.Errorf("patient count = %d, want 2", d.PatientCount)
	}
}

func TestHandler_RegisterRoutes(t *testing.T) {
	h := NewHandler(newTestService(&fixedSources{}))
	e := echo.New()
	h.RegisterRoutes(e.Group("/api/v1"))

	found := false
	for _, r := range e.Routes() {
		if r.Method == http.MethodGet && r.Path == "/api/v1/analytics/dashboard" {
			found = true
		}
	}
	if !found {
		t.Error("dashboard route not registered")
	}
}
