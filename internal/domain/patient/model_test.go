package patient

import (
	"testing"
	"time"
)

func TestFullName(t *testing.T) {
	p := &Patient{FirstName: "Salma", LastName: "Berrada"}
	if got := p.FullName(); got != "BERRADA Salma" {
		t.Errorf("FullName = %q", got)
	}
}

func TestAge(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	born := time.Date(1990, 9, 2, 0, 0, 0, 0, time.UTC)
	p := &Patient{BirthDate: &born}
	if got := p.Age(now); got != 35 {
		t.Errorf("Age = %d, want 35 (birthday tomorrow)", got)
	}

	born = time.Date(1990, 9, 1, 0, 0, 0, 0, time.UTC)
	p = &Patient{BirthDate: &born}
	if got := p.Age(now); got != 36 {
		t.Errorf("Age = %d, want 36 (birthday today)", got)
	}

	if got := (&Patient{}).Age(now); got != -1 {
		t.Errorf("Age = %d, want -1 for unknown birth date", got)
	}
}

func TestGenerateCIN(t *testing.T) {
	cin := GenerateCIN()
	if len(cin) != 9 || cin[0] != 'P' {
		t.Errorf("unexpected generated CIN: %s", cin)
	}
	if GenerateCIN() == cin {
		t.Error("expected distinct generated CINs")
	}
}
