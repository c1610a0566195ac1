package analytics

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sihatech/sihati/internal/domain/appointment"
	"github.com/sihatech/sihati/internal/domain/billing"
	"github.com/sihatech/sihati/internal/domain/consultation"
	"github.com/sihatech/sihati/internal/domain/patient"
	"github.com/sihatech/sihati/internal/domain/practitioner"
	"github.com/sihatech/sihati/internal/platform/cache"
)

// Aggregation happens in memory over fully loaded collections. Fine at
// clinic scale; revisit with aggregate SQL if row counts grow.
const fetchLimit = 10000

const dashboardTTL = 30 * time.Second

type PatientSource interface {
	List(ctx context.Context, limit, offset int) ([]*patient.Patient, int, error)
}

type PractitionerSource interface {
	List(ctx context.Context, specialty string, limit, offset int) ([]*practitioner.Practitioner, int, error)
}

type AppointmentSource interface {
	List(ctx context.Context, limit, offset int) ([]*appointment.Appointment, int, error)
}

type ConsultationSource interface {
	List(ctx context.Context, limit, offset int) ([]*consultation.Consultation, int, error)
}

type InvoiceSource interface {
	List(ctx context.Context, limit, offset int) ([]*billing.Invoice, int, error)
}

// Dashboard is the aggregate snapshot served to the admin overview.
type Dashboard struct {
	PatientCount             int            `json:"patient_count"`
	PractitionerCount        int            `json:"practitioner_count"`
	AppointmentsByStatus     map[string]int `json:"appointments_by_status"`
	RevenueInvoiced          float64        `json:"revenue_invoiced"`
	RevenueCollected         float64        `json:"revenue_collected"`
	RevenueOutstanding       float64        `json:"revenue_outstanding"`
	InvoicesByStatus         map[string]int `json:"invoices_by_status"`
	ConsultationsBySpecialty map[string]int `json:"consultations_by_specialty"`
	AverageTariff            float64        `json:"average_tariff"`
	GeneratedAt              time.Time      `json:"generated_at"`
}

type Service struct {
	patients      PatientSource
	practitioners PractitionerSource
	appointments  AppointmentSource
	consultations ConsultationSource
	invoices      InvoiceSource
	cacheClient   *redis.Client
}

func NewService(patients PatientSource, practitioners PractitionerSource,
	appointments AppointmentSource, consultations ConsultationSource,
	invoices InvoiceSource, cacheClient *redis.Client) *Service {
	return &Service{
		patients:      patients,
		practitioners: practitioners,
		appointments:  appointments,
		consultations: consultations,
		invoices:      invoices,
		cacheClient:   cacheClient,
	}
}

// Overview returns the dashboard snapshot, cached briefly so repeated
// page loads do not re-scan every table.
func (s *Service) Overview(ctx context.Context) (*Dashboard, error) {
	return cache.GetOrLoad(ctx, s.cacheClient, cache.Key("analytics", "dashboard"), dashboardTTL, s.build)
}

func (s *Service) build(ctx context.Context) (*Dashboard, error) {
	d := &Dashboard{
		AppointmentsByStatus:     make(map[string]int),
		InvoicesByStatus:         make(map[string]int),
		ConsultationsBySpecialty: make(map[string]int),
		GeneratedAt:              time.Now(),
	}

	_, patientTotal, err := s.patients.List(ctx, 1, 0)
	if err != nil {
		return nil, err
	}
	d.PatientCount = patientTotal

	practitioners, practitionerTotal, err := s.practitioners.List(ctx, "", fetchLimit, 0)
	if err != nil {
		return nil, err
	}
	d.PractitionerCount = practitionerTotal

	appointments, _, err := s.appointments.List(ctx, fetchLimit, 0)
	if err != nil {
		return nil, err
	}
	for _, a := range appointments {
		d.AppointmentsByStatus[string(a.Status)]++
	}

	invoices, _, err := s.invoices.List(ctx, fetchLimit, 0)
	if err != nil {
		return nil, err
	}
	for _, inv := range invoices {
		d.InvoicesByStatus[string(inv.Status)]++
		d.RevenueInvoiced += inv.Total
		d.RevenueCollected += inv.Paid
		d.RevenueOutstanding += inv.Remaining()
	}

	consultations, _, err := s.consultations.List(ctx, fetchLimit, 0)
	if err != nil {
		return nil, err
	}
	specialtyByPractitioner := make(map[int64]string, len(practitioners))
	for _, p := range practitioners {
		specialtyByPractitioner[p.ID] = p.Specialty
	}
	practitionerByAppointment := make(map[int64]int64, len(appointments))
	for _, a := range appointments {
		practitionerByAppointment[a.ID] = a.PractitionerID
	}
	var tariffSum float64
	for _, c := range consultations {
		tariffSum += c.Tariff
		specialty, ok := specialtyByPractitioner[practitionerByAppointment[c.AppointmentID]]
		if !ok {
			specialty = "inconnue"
		}
		d.ConsultationsBySpecialty[specialty]++
	}
	if len(consultations) > 0 {
		d.AverageTariff = tariffSum / float64(len(consultations))
	}

	return d, nil
}
