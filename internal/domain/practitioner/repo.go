package practitioner

import "context"

// Repository defines the persistence interface for practitioners.
type Repository interface {
	Create(ctx context.Context, p *Practitioner) error
	GetByID(ctx context.Context, id int64) (*Practitioner, error)
	ListBySpecialty(ctx context.Context, specialty string, limit, offset int) ([]*Practitioner, int, error)
	List(ctx context.Context, limit, offset int) ([]*Practitioner, int, error)
	Update(ctx context.Context, p *Practitioner) error
	Delete(ctx context.Context, id int64) error
}

// DepartmentRepository defines the persistence interface for departments.
type DepartmentRepository interface {
	Create(ctx context.Context, d *Department) error
	GetByID(ctx context.Context, id int64) (*Department, error)
	List(ctx context.Context) ([]*Department, error)
	Update(ctx context.Context, d *Department) error
	Delete(ctx context.Context, id int64) error
}
