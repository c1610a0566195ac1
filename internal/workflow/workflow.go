// Package workflow composes the domain services into the clinic's
// multi-step operations. Anything that must write across more than one
// table goes through the transaction runner so partial failures roll
// back completely.
package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/sihatech/sihati/internal/domain/appointment"
	"github.com/sihatech/sihati/internal/domain/billing"
	"github.com/sihatech/sihati/internal/domain/consultation"
	"github.com/sihatech/sihati/internal/domain/patient"
	"github.com/sihatech/sihati/internal/domain/practitioner"
	"github.com/sihatech/sihati/internal/platform/cache"
	"github.com/sihatech/sihati/internal/platform/db"
	"github.com/sihatech/sihati/internal/platform/validate"
)

const planningTTL = time.Minute

type AppointmentStore interface {
	Get(ctx context.Context, id int64) (*appointment.Appointment, error)
	Complete(ctx context.Context, id int64) error
	ListByDay(ctx context.Context, day time.Time) ([]*appointment.Appointment, error)
}

type ConsultationStore interface {
	Create(ctx context.Context, c *consultation.Consultation) error
}

type InvoiceStore interface {
	CreateForConsultation(ctx context.Context, patientID, consultationID int64, consultationAmount, medicationAmount float64) (*billing.Invoice, error)
	Collect(ctx context.Context, id int64, mode string) (*billing.Invoice, error)
	RecordPayment(ctx context.Context, id int64, amount float64, mode string) (*billing.Invoice, error)
}

type PatientDirectory interface {
	Get(ctx context.Context, id int64) (*patient.Patient, error)
}

type PractitionerDirectory interface {
	Get(ctx context.Context, id int64) (*practitioner.Practitioner, error)
}

type Service struct {
	tx            db.TxRunner
	appointments  AppointmentStore
	consultations ConsultationStore
	invoices      InvoiceStore
	patients      PatientDirectory
	practitioners PractitionerDirectory
	cacheClient   *redis.Client
}

func NewService(tx db.TxRunner, appointments AppointmentStore, consultations ConsultationStore,
	invoices InvoiceStore, patients PatientDirectory, practitioners PractitionerDirectory,
	cacheClient *redis.Client) *Service {
	return &Service{
		tx:            tx,
		appointments:  appointments,
		consultations: consultations,
		invoices:      invoices,
		patients:      patients,
		practitioners: practitioners,
		cacheClient:   cacheClient,
	}
}

// FinishConsultation persists the consultation, generates its pending
// invoice and completes the appointment, all in one transaction. Only
// confirmed appointments can be finished; anything else is rejected
// before a row is written. If any step fails nothing is written.
func (s *Service) FinishConsultation(ctx context.Context, c *consultation.Consultation, amount float64) (*billing.Invoice, error) {
	if amount <= 0 {
		amount = c.Tariff
	}
	if c.Tariff == 0 {
		c.Tariff = amount
	}

	var inv *billing.Invoice
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		appt, err := s.appointments.Get(ctx, c.AppointmentID)
		if err != nil {
			return fmt.Errorf("resolve appointment: %w", err)
		}
		if appt.Status != appointment.StatusConfirmed {
			return validate.Errorf("appointment %d is %s, confirm it before finishing", appt.ID, appt.Status)
		}
		if err := s.consultations.Create(ctx, c); err != nil {
			return err
		}
		inv, err = s.invoices.CreateForConsultation(ctx, appt.PatientID, c.ID, amount, 0)
		if err != nil {
			return err
		}
		if err := s.appointments.Complete(ctx, appt.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.Invalidate(ctx, s.cacheClient, cache.Key("planning", "*"))
	log.Info().Int64("consultation_id", c.ID).Int64("invoice_id", inv.ID).
		Float64("total", inv.Total).Msg("consultation finished")
	return inv, nil
}

// CollectInvoice settles the remaining balance. Already-paid invoices
// pass through untouched.
func (s *Service) CollectInvoice(ctx context.Context, invoiceID int64, mode string) (*billing.Invoice, error) {
	return s.invoices.Collect(ctx, invoiceID, mode)
}

// RecordPayment applies a partial payment against an invoice.
func (s *Service) RecordPayment(ctx context.Context, invoiceID int64, amount float64, mode string) (*billing.Invoice, error) {
	return s.invoices.RecordPayment(ctx, invoiceID, amount, mode)
}

// PlanningEntry is one line of the day's schedule, resolved to display
// labels for the front desk.
type PlanningEntry struct {
	AppointmentID int64     `json:"appointment_id"`
	DateTime      time.Time `json:"date_time"`
	Patient       string    `json:"patient"`
	Practitioner  string    `json:"practitioner"`
	Reason        string    `json:"reason"`
	Status        string    `json:"status"`
}

// DailyPlanning returns the day's appointments with patient and
// practitioner names resolved. The projection is cached briefly per day.
func (s *Service) DailyPlanning(ctx context.Context, day time.Time) ([]PlanningEntry, error) {
	key := cache.Key("planning", day.Format("2006-01-02"))
	return cache.GetOrLoad(ctx, s.cacheClient, key, planningTTL, func(ctx context.Context) ([]PlanningEntry, error) {
		return s.buildPlanning(ctx, day)
	})
}

func (s *Service) buildPlanning(ctx context.Context, day time.Time) ([]PlanningEntry, error) {
	appointments, err := s.appointments.ListByDay(ctx, day)
	if err != nil {
		return nil, err
	}

	entries := make([]PlanningEntry, 0, len(appointments))
	patientNames := make(map[int64]string)
	practitionerNames := make(map[int64]string)
	for _, a := range appointments {
		patientName, ok := patientNames[a.PatientID]
		if !ok {
			p, err := s.patients.Get(ctx, a.PatientID)
			if err != nil {
				return nil, fmt.Errorf("resolve patient %d: %w", a.PatientID, err)
			}
			patientName = p.FullName()
			patientNames[a.PatientID] = patientName
		}
		practitionerName, ok := practitionerNames[a.PractitionerID]
		if !ok {
			p, err := s.practitioners.Get(ctx, a.PractitionerID)
			if err != nil {
				return nil, fmt.Errorf("resolve practitioner %d: %w", a.PractitionerID, err)
			}
			practitionerName = p.DisplayName()
			practitionerNames[a.PractitionerID] = practitionerName
		}
		entries = append(entries, PlanningEntry{
			AppointmentID: a.ID,
			DateTime:      a.DateTime,
			Patient:       patientName,
			Practitioner:  practitionerName,
			Reason:        a.Reason,
			Status:        string(a.Status),
		})
	}
	return entries, nil
}
