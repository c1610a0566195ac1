package billing

import (
	"context"
	"time"

	"github.com/sihatech/sihati/internal/platform/validate"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateForConsultation opens a pending invoice for a consultation. The
// unique constraint on consultation_id keeps it to one invoice per
// consultation.
func (s *Service) CreateForConsultation(ctx context.Context, patientID, consultationID int64, consultationAmount, medicationAmount float64) (*Invoice, error) {
	if err := validate.NonNegative("consultation amount", consultationAmount); err != nil {
		return nil, err
	}
	if err := validate.NonNegative("medication amount", medicationAmount); err != nil {
		return nil, err
	}
	inv := &Invoice{
		Number:             GenerateNumber(time.Now()),
		PatientID:          patientID,
		ConsultationID:     consultationID,
		ConsultationAmount: consultationAmount,
		MedicationAmount:   medicationAmount,
		Total:              consultationAmount + medicationAmount,
		Paid:               0,
		Status:             StatusPending,
	}
	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Invoice, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByNumber(ctx context.Context, number string) (*Invoice, error) {
	return s.repo.GetByNumber(ctx, number)
}

func (s *Service) GetByConsultation(ctx context.Context, consultationID int64) (*Invoice, error) {
	return s.repo.GetByConsultationID(ctx, consultationID)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Invoice, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID int64, limit, offset int) ([]*Invoice, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListByStatus(ctx context.Context, status Status, limit, offset int) ([]*Invoice, int, error) {
	return s.repo.ListByStatus(ctx, status, limit, offset)
}

// RecordPayment applies a partial payment. Paid is clamped to the total,
// and paying an already-settled invoice is a no-op.
func (s *Service) RecordPayment(ctx context.Context, id int64, amount float64, mode string) (*Invoice, error) {
	if amount <= 0 {
		return nil, validate.Errorf("payment amount must be positive")
	}
	if err := validate.Required("payment mode", mode); err != nil {
		return nil, err
	}
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == StatusPaid {
		return inv, nil
	}
	paid := inv.Paid + amount
	if paid > inv.Total {
		paid = inv.Total
	}
	status := statusFor(inv.Total, paid)
	if err := s.repo.RecordPayment(ctx, id, paid, status, mode); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Collect settles the full outstanding balance in one payment.
func (s *Service) Collect(ctx context.Context, id int64, mode string) (*Invoice, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == StatusPaid {
		return inv, nil
	}
	if inv.Remaining() == 0 {
		// Nothing owed (zero-total invoice): settle without a payment.
		if err := validate.Required("payment mode", mode); err != nil {
			return nil, err
		}
		if err := s.repo.RecordPayment(ctx, id, inv.Paid, StatusPaid, mode); err != nil {
			return nil, err
		}
		return s.repo.GetByID(ctx, id)
	}
	return s.RecordPayment(ctx, id, inv.Remaining(), mode)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
