package appointment

import "testing"

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPlanned, StatusConfirmed, true},
		{StatusPlanned, StatusCancelled, true},
		{StatusPlanned, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPlanned, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPlanned, false},
		{StatusCancelled, StatusConfirmed, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransition(tc.to); got != tc.ok {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}

func TestTransition(t *testing.T) {
	a := &Appointment{Status: StatusPlanned}

	if err := a.Transition(StatusConfirmed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != StatusConfirmed {
		t.Errorf("status = %s", a.Status)
	}

	if err := a.Transition(StatusPlanned); err == nil {
		t.Error("expected error going back to planned")
	}
	if err := a.Transition(Status("archived")); err == nil {
		t.Error("expected error for unknown status")
	}
	if a.Status != StatusConfirmed {
		t.Errorf("failed transition must not change status, got %s", a.Status)
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusPlanned, StatusConfirmed, StatusCompleted, StatusCancelled} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if Status("pending").Valid() {
		t.Error("pending is not an appointment status")
	}
}
