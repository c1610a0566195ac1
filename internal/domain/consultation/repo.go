package consultation

import "context"

// Repository defines the persistence interface for consultations and
// their treatment lines.
type Repository interface {
	Create(ctx context.Context, c *Consultation) error
	GetByID(ctx context.Context, id int64) (*Consultation, error)
	GetByAppointmentID(ctx context.Context, appointmentID int64) (*Consultation, error)
	List(ctx context.Context, limit, offset int) ([]*Consultation, int, error)
	Update(ctx context.Context, c *Consultation) error
	Delete(ctx context.Context, id int64) error

	AddTreatment(ctx context.Context, t *Treatment) error
	ListTreatments(ctx context.Context, consultationID int64) ([]*Treatment, error)
	RemoveTreatment(ctx context.Context, id int64) error
}
