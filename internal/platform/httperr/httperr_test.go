package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/sihatech/sihati/internal/platform/db"
	"github.com/sihatech/sihati/internal/platform/validate"
)

func TestFrom_NotFound(t *testing.T) {
	he := From(fmt.Errorf("patient 7: %w", db.ErrNotFound))
	if he.Code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404", he.Code)
	}
}

func TestFrom_Conflict(t *testing.T) {
	he := From(fmt.Errorf("cin taken: %w", db.ErrConflict))
	if he.Code != http.StatusConflict {
		t.Fatalf("code = %d, want 409", he.Code)
	}
}

func TestFrom_Validation(t *testing.T) {
	he := From(validate.Errorf("sex must be M or F"))
	if he.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", he.Code)
	}
	if he.Message != "sex must be M or F" {
		t.Fatalf("message = %v, want the validation text", he.Message)
	}
}

func TestFrom_UnknownIsServerFault(t *testing.T) {
	cause := errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
	he := From(cause)
	if he.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d, want 500", he.Code)
	}
	msg, _ := he.Message.(string)
	if strings.Contains(msg, "dial tcp") {
		t.Fatalf("response leaked the internal error: %q", msg)
	}
	if !errors.Is(he, cause) {
		t.Fatalf("internal cause not preserved for logging")
	}
}
