package account

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sihatech/sihati/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const cols = `id, username, password_hash, email, role, active,
	practitioner_id, patient_id, created_at, updated_at`

func scanAccount(row pgx.Row) (*Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Email, &a.Role, &a.Active,
		&a.PractitionerID, &a.PatientID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, db.Classify(err)
	}
	return &a, nil
}

func (r *repoPG) Create(ctx context.Context, a *Account) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO account (username, password_hash, email, role, active,
			practitioner_id, patient_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at, updated_at`,
		a.Username, a.PasswordHash, a.Email, a.Role, a.Active,
		a.PractitionerID, a.PatientID).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return db.Classify(err)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Account, error) {
	return scanAccount(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM account WHERE id = $1`, id))
}

func (r *repoPG) GetByUsername(ctx context.Context, username string) (*Account, error) {
	return scanAccount(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM account WHERE username = $1`, username))
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Account, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM account`).Scan(&total); err != nil {
		return nil, 0, db.Classify(err)
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+cols+` FROM account ORDER BY username LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, db.Classify(err)
	}
	defer rows.Close()
	var items []*Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, db.Classify(err)
	}
	return items, total, nil
}

func (r *repoPG) Update(ctx context.Context, a *Account) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE account SET email=$2, role=$3, practitioner_id=$4, patient_id=$5, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.Email, a.Role, a.PractitionerID, a.PatientID)
	if err != nil {
		return db.Classify(err)
	}
	return db.NotFoundIfZero(tag)
}

func (r *repoPG) UpdatePassword(ctx context.Context, id int64, hash string) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE account SET password_hash=$2, updated_at=NOW() WHERE id = $1`, id, hash)
	if err != nil {
		return db.Classify(err)
	}
	return db.NotFoundIfZero(tag)
}

func (r *repoPG) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE account SET active=$2, updated_at=NOW() WHERE id = $1`, id, active)
	if err != nil {
		return db.Classify(err)
	}
	return db.NotFoundIfZero(tag)
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM account WHERE id = $1`, id)
	if err != nil {
		return db.Classify(err)
	}
	return db.NotFoundIfZero(tag)
}
