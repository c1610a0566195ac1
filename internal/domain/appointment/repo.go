package appointment

import (
	"context"
	"time"
)

// Repository defines the persistence interface for appointments.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id int64) (*Appointment, error)
	ListByPatient(ctx context.Context, patientID int64, limit, offset int) ([]*Appointment, int, error)
	ListByPractitioner(ctx context.Context, practitionerID int64, limit, offset int) ([]*Appointment, int, error)
	ListByDay(ctx context.Context, day time.Time) ([]*Appointment, error)
	List(ctx context.Context, limit, offset int) ([]*Appointment, int, error)
	Update(ctx context.Context, a *Appointment) error
	UpdateStatus(ctx context.Context, id int64, from, to Status) error
	Delete(ctx context.Context, id int64) error
}
