package billing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sihatech/sihati/internal/platform/db"
)

type mockRepo struct {
	invoices map[int64]*Invoice
	nextID   int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{invoices: make(map[int64]*Invoice)}
}

func (m *mockRepo) Create(_ context.Context, inv *Invoice) error {
	for _, existing := range m.invoices {
		if existing.ConsultationID == inv.ConsultationID {
			return fmt.Errorf("%w: invoice_consultation_id_key", db.ErrConflict)
		}
	}
	m.nextID++
	inv.ID = m.nextID
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = time.Now()
	copied := *inv
	m.invoices[inv.ID] = &copied
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *inv
	return &copied, nil
}

func (m *mockRepo) GetByNumber(_ context.Context, number string) (*Invoice, error) {
	for _, inv := range m.invoices {
		if inv.Number == number {
			copied := *inv
			return &copied, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *mockRepo) GetByConsultationID(_ context.Context, consultationID int64) (*Invoice, error) {
	for _, inv := range m.invoices {
		if inv.ConsultationID == consultationID {
			copied := *inv
			return &copied, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID int64, limit, offset int) ([]*Invoice, int, error) {
	var result []*Invoice
	for _, inv := range m.invoices {
		if inv.PatientID == patientID {
			result = append(result, inv)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByStatus(_ context.Context, status Status, limit, offset int) ([]*Invoice, int, error) {
	var result []*Invoice
	for _, inv := range m.invoices {
		if inv.Status == status {
			result = append(result, inv)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Invoice, int, error) {
	var result []*Invoice
	for _, inv := range m.invoices {
		result = append(result, inv)
	}
	return result, len(result), nil
}

func (m *mockRepo) RecordPayment(_ context.Context, id int64, paid float64, status Status, mode string) error {
	inv, ok := m.invoices[id]
	if !ok || inv.Status == StatusPaid {
		return db.ErrNotFound
	}
	now := time.Now()
	inv.Paid = paid
	inv.Status = status
	inv.PaymentMode = &mode
	inv.PaymentDate = &now
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.invoices[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.invoices, id)
	return nil
}

func newTestService() *Service {
	return NewService(newMockRepo())
}

func TestCreateForConsultation(t *testing.T) {
	svc := newTestService()

	inv, err := svc.CreateForConsultation(context.Background(), 1, 10, 500.00, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Total != 500.00 || inv.Status != StatusPending || inv.Paid != 0 {
		t.Errorf("unexpected invoice: %+v", inv)
	}
	if inv.Number == "" {
		t.Error("expected generated invoice number")
	}
	if inv.Remaining() != 500.00 {
		t.Errorf("Remaining = %v, want 500", inv.Remaining())
	}
}

func TestCreateForConsultation_NegativeAmount(t *testing.T) {
	svc := newTestService()
	if _, err := svc.CreateForConsultation(context.Background(), 1, 10, -1, 0); err == nil {
		t.Error("expected error for negative amount")
	}
}

func TestCreateForConsultation_OnePerConsultation(t *testing.T) {
	svc := newTestService()
	svc.CreateForConsultation(context.Background(), 1, 10, 500, 0)

	if _, err := svc.CreateForConsultation(context.Background(), 1, 10, 300, 0); err == nil {
		t.Error("expected conflict for second invoice on same consultation")
	}
}

func TestRecordPayment_Partial(t *testing.T) {
	svc := newTestService()
	inv, _ := svc.CreateForConsultation(context.Background(), 1, 10, 500, 100)

	got, err := svc.RecordPayment(context.Background(), inv.ID, 200, "espèces")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != StatusPartial || got.Paid != 200 {
		t.Errorf("unexpected invoice: %+v", got)
	}
	if got.Remaining() != 400 {
		t.Errorf("Remaining = %v, want 400", got.Remaining())
	}
}

func TestRecordPayment_ClampsToTotal(t *testing.T) {
	svc := newTestService()
	inv, _ := svc.CreateForConsultation(context.Background(), 1, 10, 500, 0)

	got, err := svc.RecordPayment(context.Background(), inv.ID, 9999, "carte")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Paid != 500 || got.Status != StatusPaid {
		t.Errorf("unexpected invoice: %+v", got)
	}
}

func TestRecordPayment_Validation(t *testing.T) {
	svc := newTestService()
	inv, _ := svc.CreateForConsultation(context.Background(), 1, 10, 500, 0)

	if _, err := svc.RecordPayment(context.Background(), inv.ID, 0, "espèces"); err == nil {
		t.Error("expected error for zero amount")
	}
	if _, err := svc.RecordPayment(context.Background(), inv.ID, 100, ""); err == nil {
		t.Error("expected error for missing mode")
	}
}

func TestCollect(t *testing.T) {
	svc := newTestService()
	inv, _ := svc.CreateForConsultation(context.Background(), 1, 10, 500, 0)
	svc.RecordPayment(context.Background(), inv.ID, 200, "espèces")

	got, err := svc.Collect(context.Background(), inv.ID, "carte")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != StatusPaid || got.Paid != 500 {
		t.Errorf("unexpected invoice: %+v", got)
	}
}

func TestCollect_Idempotent(t *testing.T) {
	svc := newTestService()
	inv, _ := svc.CreateForConsultation(context.Background(), 1, 10, 500, 0)
	svc.Collect(context.Background(), inv.ID, "espèces")

	got, err := svc.Collect(context.Background(), inv.ID, "carte")
	if err != nil {
		t.Fatalf("second collect must be a no-op: %v", err)
	}
	if got.Paid != 500 || got.Status != StatusPaid {
		t.Errorf("unexpected invoice: %+v", got)
	}
	if got.PaymentMode != nil && *got.PaymentMode == "carte" {
		t.Error("second collect must not overwrite the payment mode")
	}
}

func TestCollect_ZeroTotal(t *testing.T) {
	svc := newTestService()
	inv, _ := svc.CreateForConsultation(context.Background(), 1, 10, 0, 0)

	got, err := svc.Collect(context.Background(), inv.ID, "espèces")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != StatusPaid {
		t.Errorf("status = %s, want paid", got.Status)
	}
	if got.Remaining() != 0 {
		t.Errorf("Remaining = %v, want 0", got.Remaining())
	}
	if got.PaymentMode == nil || *got.PaymentMode != "espèces" {
		t.Errorf("payment mode = %v, want espèces", got.PaymentMode)
	}
}
