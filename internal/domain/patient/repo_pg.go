package patient

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

const cols = `id, first_name, last_name, cin, phone, email, address,
	birth_date, sex, medical_history, created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.CIN, &p.Phone, &p.Email, &p.Address,
		&p.BirthDate, &p.Sex, &p.MedicalHistory, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, db.Classify(err)
	}
	return &p, nil
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patient (first_name, last_name, cin, phone, email, address,
			birth_date, sex, medical_history)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at, updated_at`,
		p.FirstName, p.LastName, p.CIN, p.Phone, p.Email, p.Address,
		p.BirthDate, p.Sex, p.MedicalHistory).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return db.Classify(err)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Patient, error) {
	return scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM patient WHERE id = $1`, id))
}

func (r *repoPG) GetByCIN(ctx context.Context, cin string) (*Patient, error) {
	return scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM patient WHERE cin = $1`, cin))
}

func (r *repoPG) SearchByName(ctx context.Context, fragment string, limit, offset int) ([]*Patient, int, error) {
	pattern := "%" + fragment + "%"
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM patient
		WHERE first_name ILIKE $1 OR last_name ILIKE $1`, pattern).Scan(&total); err != nil {
		return nil, 0, db.Classify(err)
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+cols+` FROM patient
		WHERE first_name ILIKE $1 OR last_name ILIKE $1
		ORDER BY last_name, first_name LIMIT $2 OFFSET $3`, pattern, limit, offset)
	if err != nil {
		return nil, 0, db.Classify(err)
	}
	defer rows.Close()
	return collect(rows, total)
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patient`).Scan(&total); err != nil {
		return nil, 0, db.Classify(err)
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+cols+` FROM patient ORDER BY last_name, first_name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, db.Classify(err)
	}
	defer rows.Close()
	return collect(rows, total)
}

func collect(rows pgx.Rows, total int) ([]*Patient, int, error) {
	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, db.Classify(err)
	}
	return items, total, nil
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient SET first_name=$2, last_name=$3, cin=$4, phone=$5, email=$6,
			address=$7, birth_date=$8, sex=$9, medical_history=$10, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.FirstName, p.LastName, p.CIN, p.Phone, p.Email,
		p.Address, p.BirthDate, p.Sex, p.MedicalHistory)
	if err != nil {
		return db.Classify(err)
	}
	return db.NotFoundIfZero(tag)
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	if err != nil {
		return db.Classify(err)
	}
	return db.NotFoundIfZero(tag)
}
