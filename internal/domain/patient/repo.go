package patient

import "context"

// Repository defines the persistence interface for patients.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id int64) (*Patient, error)
	GetByCIN(ctx context.Context, cin string) (*Patient, error)
	SearchByName(ctx context.Context, fragment string, limit, offset int) ([]*Patient, int, error)
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id int64) error
}
