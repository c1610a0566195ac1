package consultation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sihatech/sihati/internal/platform/db"
	"github.com/sihatech/sihati/internal/platform/validate"
)

// ReferenceChecker resolves a foreign id before a row is written.
type ReferenceChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	repo         Repository
	appointments ReferenceChecker
	medications  ReferenceChecker
}

func NewService(repo Repository, appointments, medications ReferenceChecker) *Service {
	return &Service{repo: repo, appointments: appointments, medications: medications}
}

func (s *Service) validate(c *Consultation) error {
	if err := validate.Required("diagnostic", c.Diagnostic); err != nil {
		return err
	}
	if err := validate.NonNegative("tariff", c.Tariff); err != nil {
		return err
	}
	return nil
}

// Create records a consultation against its appointment. A second
// consultation for the same appointment surfaces as ErrConflict from the
// unique constraint.
func (s *Service) Create(ctx context.Context, c *Consultation) error {
	if err := s.validate(c); err != nil {
		return err
	}
	ok, err := s.appointments.Exists(ctx, c.AppointmentID)
	if err != nil {
		return err
	}
	if !ok {
		return validate.Errorf("appointment %d does not exist", c.AppointmentID)
	}
	if c.Date.IsZero() {
		c.Date = time.Now()
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) Get(ctx context.Context, id int64) (*Consultation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByAppointment(ctx context.Context, appointmentID int64) (*Consultation, error) {
	return s.repo.GetByAppointmentID(ctx, appointmentID)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Consultation, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Update(ctx context.Context, c *Consultation) error {
	if c.ID == 0 {
		return fmt.Errorf("%w: consultation id is required for update", db.ErrNotFound)
	}
	if err := s.validate(c); err != nil {
		return err
	}
	return s.repo.Update(ctx, c)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// AddTreatment attaches a prescription line after resolving both the
// consultation and the medication reference.
func (s *Service) AddTreatment(ctx context.Context, t *Treatment) error {
	if err := validate.Required("dosage", t.Dosage); err != nil {
		return err
	}
	if t.DurationDays <= 0 {
		return validate.Errorf("treatment duration must be positive")
	}
	if _, err := s.repo.GetByID(ctx, t.ConsultationID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return validate.Errorf("consultation %d does not exist", t.ConsultationID)
		}
		return err
	}
	ok, err := s.medications.Exists(ctx, t.MedicationID)
	if err != nil {
		return err
	}
	if !ok {
		return validate.Errorf("medication %d does not exist", t.MedicationID)
	}
	return s.repo.AddTreatment(ctx, t)
}

func (s *Service) ListTreatments(ctx context.Context, consultationID int64) ([]*Treatment, error) {
	return s.repo.ListTreatments(ctx, consultationID)
}

func (s *Service) RemoveTreatment(ctx context.Context, id int64) error {
	return s.repo.RemoveTreatment(ctx, id)
}
