package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sihatech/sihati/internal/platform/db"
)

type mockRepo struct {
	appointments map[int64]*Appointment
	nextID       int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{appointments: make(map[int64]*Appointment)}
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	m.nextID++
	a.ID = m.nextID
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	copied := *a
	m.appointments[a.ID] = &copied
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*Appointment, error) {
	a, ok := m.appointments[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID int64, limit, offset int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.appointments {
		if a.PatientID == patientID {
			result = append(result, a)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByPractitioner(_ context.Context, practitionerID int64, limit, offset int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.appointments {
		if a.PractitionerID == practitionerID {
			result = append(result, a)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByDay(_ context.Context, day time.Time) ([]*Appointment, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	var result []*Appointment
	for _, a := range m.appointments {
		if !a.DateTime.Before(start) && a.DateTime.Before(end) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.appointments {
		result = append(result, a)
	}
	return result, len(result), nil
}

func (m *mockRepo) Update(_ context.Context, a *Appointment) error {
	existing, ok := m.appointments[a.ID]
	if !ok {
		return db.ErrNotFound
	}
	a.Status = existing.Status
	copied := *a
	m.appointments[a.ID] = &copied
	return nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id int64, from, to Status) error {
	a, ok := m.appointments[id]
	if !ok || a.Status != from {
		return db.ErrNotFound
	}
	a.Status = to
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.appointments[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.appointments, id)
	return nil
}

type staticChecker struct{ ids map[int64]bool }

func (c staticChecker) Exists(_ context.Context, id int64) (bool, error) {
	return c.ids[id], nil
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	patients := staticChecker{ids: map[int64]bool{1: true}}
	practitioners := staticChecker{ids: map[int64]bool{10: true}}
	return NewService(repo, patients, practitioners), repo
}

func validAppointment() *Appointment {
	return &Appointment{
		PatientID:      1,
		PractitionerID: 10,
		DateTime:       time.Now().Add(2 * time.Hour),
		Reason:         "Consultation de suivi",
	}
}

func TestCreate_RoundTrip(t *testing.T) {
	svc, _ := newTestService()
	a := validAppointment()

	if err := svc.Create(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != StatusPlanned {
		t.Errorf("expected planned, got %s", a.Status)
	}

	got, err := svc.Get(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PatientID != 1 || got.PractitionerID != 10 || got.Reason != a.Reason {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestCreate_RejectsInvalid(t *testing.T) {
	svc, repo := newTestService()

	past := validAppointment()
	past.DateTime = time.Now().Add(-time.Hour)

	noPatient := validAppointment()
	noPatient.PatientID = 99

	noPractitioner := validAppointment()
	noPractitioner.PractitionerID = 99

	noReason := validAppointment()
	noReason.Reason = ""

	for name, a := range map[string]*Appointment{
		"past datetime":        past,
		"missing patient":      noPatient,
		"missing practitioner": noPractitioner,
		"missing reason":       noReason,
	} {
		if err := svc.Create(context.Background(), a); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
	if len(repo.appointments) != 0 {
		t.Errorf("no row may be written on validation failure, found %d", len(repo.appointments))
	}
}

func TestCreate_StartsConfirmed(t *testing.T) {
	svc, _ := newTestService()
	a := validAppointment()
	a.Status = StatusConfirmed

	if err := svc.Create(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a2 := validAppointment()
	a2.Status = StatusCompleted
	if err := svc.Create(context.Background(), a2); err == nil {
		t.Error("expected error creating a completed appointment")
	}
}

func TestLifecycle(t *testing.T) {
	svc, _ := newTestService()
	a := validAppointment()
	svc.Create(context.Background(), a)

	if err := svc.Confirm(context.Background(), a.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if err := svc.Complete(context.Background(), a.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := svc.Cancel(context.Background(), a.ID); err == nil {
		t.Error("expected error cancelling a completed appointment")
	}

	got, _ := svc.Get(context.Background(), a.ID)
	if got.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", got.Status)
	}
}

func TestComplete_RequiresConfirmed(t *testing.T) {
	svc, _ := newTestService()
	a := validAppointment()
	svc.Create(context.Background(), a)

	if err := svc.Complete(context.Background(), a.ID); err == nil {
		t.Error("expected error completing a planned appointment")
	}
}

func TestReschedule(t *testing.T) {
	svc, _ := newTestService()
	a := validAppointment()
	svc.Create(context.Background(), a)

	a.DateTime = time.Now().Add(48 * time.Hour)
	a.Reason = "Report demandé par le patient"
	if err := svc.Reschedule(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := svc.Get(context.Background(), a.ID)
	if got.Reason != "Report demandé par le patient" {
		t.Errorf("reason = %q", got.Reason)
	}
}

func TestReschedule_TerminalStatus(t *testing.T) {
	svc, _ := newTestService()
	a := validAppointment()
	svc.Create(context.Background(), a)
	svc.Cancel(context.Background(), a.ID)

	a.DateTime = time.Now().Add(48 * time.Hour)
	if err := svc.Reschedule(context.Background(), a); err == nil {
		t.Error("expected error rescheduling a cancelled appointment")
	}
}

func TestChangeStatus_NotFound(t *testing.T) {
	svc, _ := newTestService()
	err := svc.Confirm(context.Background(), 42)
	if !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListByDay(t *testing.T) {
	svc, _ := newTestService()
	day := time.Now().AddDate(0, 0, 2)
	noon := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, day.Location())

	onDay := validAppointment()
	onDay.DateTime = noon
	svc.Create(context.Background(), onDay)

	nextWeek := validAppointment()
	nextWeek.DateTime = noon.AddDate(0, 0, 7)
	svc.Create(context.Background(), nextWeek)

	items, err := svc.ListByDay(context.Background(), day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("expected 1 appointment today, got %d", len(items))
	}
}
