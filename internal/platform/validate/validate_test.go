package validate

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestRequired(t *testing.T) {
	if err := Required("name", "Salma"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := Required("name", "   "); err == nil {
		t.Error("expected error for blank value")
	}
}

func TestEmail(t *testing.T) {
	valid := []string{"", "s.berrada@example.ma", "contact@chu-rabat.ma"}
	for _, v := range valid {
		if err := Email(v); err != nil {
			t.Errorf("Email(%q): unexpected error: %v", v, err)
		}
	}
	invalid := []string{"not-an-email", "a@b", "@example.com"}
	for _, v := range invalid {
		if err := Email(v); err == nil {
			t.Errorf("Email(%q): expected error", v)
		}
	}
}

func TestMoroccanPhone(t *testing.T) {
	valid := []string{"", "0612345678", "+212612345678", "0522334455", "06 12 34 56 78"}
	for _, v := range valid {
		if err := MoroccanPhone(v); err != nil {
			t.Errorf("MoroccanPhone(%q): unexpected error: %v", v, err)
		}
	}
	invalid := []string{"12345", "0112345678", "+33612345678"}
	for _, v := range invalid {
		if err := MoroccanPhone(v); err == nil {
			t.Errorf("MoroccanPhone(%q): expected error", v)
		}
	}
}

func TestCIN(t *testing.T) {
	valid := []string{"A123456", "BE98765", "K4021"}
	for _, v := range valid {
		if err := CIN(v); err != nil {
			t.Errorf("CIN(%q): unexpected error: %v", v, err)
		}
	}
	invalid := []string{"", "123456", "abc123", "ABC123456"}
	for _, v := range invalid {
		if err := CIN(v); err == nil {
			t.Errorf("CIN(%q): expected error", v)
		}
	}
}

func TestTemporal(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	if err := NotInFuture("hire date", past); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := NotInFuture("hire date", future); err == nil {
		t.Error("expected error for future date")
	}
	if err := InFuture("appointment date", future); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := InFuture("appointment date", past); err == nil {
		t.Error("expected error for past date")
	}
}

func TestNonNegative(t *testing.T) {
	if err := NonNegative("amount", 500.0); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := NonNegative("amount", 0); err != nil {
		t.Errorf("unexpected error for zero: %v", err)
	}
	if err := NonNegative("amount", -1); err == nil {
		t.Error("expected error for negative amount")
	}
}

func TestIsError(t *testing.T) {
	if !IsError(Errorf("stock quantity cannot be negative")) {
		t.Error("Errorf result not recognized as a validation error")
	}
	if !IsError(fmt.Errorf("create medication: %w", Errorf("bad"))) {
		t.Error("wrapped validation error not recognized")
	}
	if IsError(errors.New("connection reset")) {
		t.Error("arbitrary error misclassified as validation")
	}
	if err := Required("name", ""); !IsError(err) {
		t.Error("Required failure is not a validation error")
	}
}
