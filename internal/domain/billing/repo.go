package billing

import "context"

// Repository defines the persistence interface for invoices.
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	GetByID(ctx context.Context, id int64) (*Invoice, error)
	GetByNumber(ctx context.Context, number string) (*Invoice, error)
	GetByConsultationID(ctx context.Context, consultationID int64) (*Invoice, error)
	ListByPatient(ctx context.Context, patientID int64, limit, offset int) ([]*Invoice, int, error)
	ListByStatus(ctx context.Context, status Status, limit, offset int) ([]*Invoice, int, error)
	List(ctx context.Context, limit, offset int) ([]*Invoice, int, error)
	RecordPayment(ctx context.Context, id int64, paid float64, status Status, mode string) error
	Delete(ctx context.Context, id int64) error
}
