package account

import "context"

type Repository interface {
	Create(ctx context.Context, a *Account) error
	GetByID(ctx context.Context, id int64) (*Account, error)
	GetByUsername(ctx context.Context, username string) (*Account, error)
	List(ctx context.Context, limit, offset int) ([]*Account, int, error)
	Update(ctx context.Context, a *Account) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
}
