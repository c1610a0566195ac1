package medication

import "context"

// Repository defines the persistence interface for the medication catalog.
type Repository interface {
	Create(ctx context.Context, m *Medication) error
	GetByID(ctx context.Context, id int64) (*Medication, error)
	SearchByName(ctx context.Context, fragment string, limit, offset int) ([]*Medication, int, error)
	List(ctx context.Context, limit, offset int) ([]*Medication, int, error)
	ListLowStock(ctx context.Context) ([]*Medication, error)
	Update(ctx context.Context, m *Medication) error
	AdjustStock(ctx context.Context, id int64, delta int) error
	Delete(ctx context.Context, id int64) error
}
