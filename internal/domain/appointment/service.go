package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sihatech/sihati/internal/platform/db"
	"github.com/sihatech/sihati/internal/platform/validate"
)

// ReferenceChecker resolves a foreign id before an appointment is written.
// The patient and practitioner services both satisfy it.
type ReferenceChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	repo          Repository
	patients      ReferenceChecker
	practitioners ReferenceChecker
}

func NewService(repo Repository, patients, practitioners ReferenceChecker) *Service {
	return &Service{repo: repo, patients: patients, practitioners: practitioners}
}

// Create validates the triple (patient, practitioner, future datetime) and
// persists the appointment as planned. No row is written when any check fails.
func (s *Service) Create(ctx context.Context, a *Appointment) error {
	if err := validate.Required("reason", a.Reason); err != nil {
		return err
	}
	if err := validate.InFuture("appointment date", a.DateTime); err != nil {
		return err
	}
	if err := s.checkReferences(ctx, a); err != nil {
		return err
	}
	if a.Status == "" {
		a.Status = StatusPlanned
	}
	if a.Status != StatusPlanned && a.Status != StatusConfirmed {
		return validate.Errorf("new appointments start as planned or confirmed, not %s", a.Status)
	}
	return s.repo.Create(ctx, a)
}

func (s *Service) checkReferences(ctx context.Context, a *Appointment) error {
	ok, err := s.patients.Exists(ctx, a.PatientID)
	if err != nil {
		return err
	}
	if !ok {
		return validate.Errorf("patient %d does not exist", a.PatientID)
	}
	ok, err = s.practitioners.Exists(ctx, a.PractitionerID)
	if err != nil {
		return err
	}
	if !ok {
		return validate.Errorf("practitioner %d does not exist", a.PractitionerID)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID int64, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListByPractitioner(ctx context.Context, practitionerID int64, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByPractitioner(ctx, practitionerID, limit, offset)
}

func (s *Service) ListByDay(ctx context.Context, day time.Time) ([]*Appointment, error) {
	return s.repo.ListByDay(ctx, day)
}

// Reschedule updates date, reason or references. Status changes go through
// ChangeStatus only.
func (s *Service) Reschedule(ctx context.Context, a *Appointment) error {
	if a.ID == 0 {
		return fmt.Errorf("%w: appointment id is required for update", db.ErrNotFound)
	}
	current, err := s.repo.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}
	if current.Status == StatusCompleted || current.Status == StatusCancelled {
		return validate.Errorf("cannot reschedule a %s appointment", current.Status)
	}
	if err := validate.Required("reason", a.Reason); err != nil {
		return err
	}
	if err := validate.InFuture("appointment date", a.DateTime); err != nil {
		return err
	}
	if err := s.checkReferences(ctx, a); err != nil {
		return err
	}
	return s.repo.Update(ctx, a)
}

// ChangeStatus applies a lifecycle transition. The repository guards on the
// expected current status, so a concurrent transition surfaces as ErrNotFound.
func (s *Service) ChangeStatus(ctx context.Context, id int64, next Status) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	from := a.Status
	if err := a.Transition(next); err != nil {
		return err
	}
	return s.repo.UpdateStatus(ctx, id, from, next)
}

func (s *Service) Confirm(ctx context.Context, id int64) error {
	return s.ChangeStatus(ctx, id, StatusConfirmed)
}

func (s *Service) Complete(ctx context.Context, id int64) error {
	return s.ChangeStatus(ctx, id, StatusCompleted)
}

func (s *Service) Cancel(ctx context.Context, id int64) error {
	return s.ChangeStatus(ctx, id, StatusCancelled)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Exists reports whether an appointment row resolves. Consultations
// check their appointment reference through this before writing.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	_, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
