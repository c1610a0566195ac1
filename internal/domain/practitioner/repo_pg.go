package practitioner

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

const cols = `id, first_name, last_name, specialty, phone, email,
	hire_date, department_id, created_at, updated_at`

func scanPractitioner(row pgx.Row) (*Practitioner, error) {
	var p Practitioner
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Specialty, &p.Phone, &p.Email,
		&p.HireDate, &p.DepartmentID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, db.Classify(err)
	}
	return &p, nil
}

func (r *repoPG) Create(ctx context.Context, p *Practitioner) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO practitioner (first_name, last_name, specialty, phone, email,
			hire_date, department_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at, updated_at`,
		p.FirstName, p.LastName, p.Specialty, p.Phone, p.Email,
		p.HireDate, p.DepartmentID).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return db.Classify(err)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Practitioner, error) {
	return scanPractitioner(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM practitioner WHERE id = $1`, id))
}

func (r *repoPG) ListBySpecialty(ctx context.Context, specialty string, limit, offset int) ([]*Practitioner, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM practitioner WHERE specialty ILIKE $1`, specialty).Scan(&total); err != nil {
		return nil, 0, db.Classify(err)
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+cols+` FROM practitioner WHERE specialty ILIKE $1
		ORDER BY last_name, first_name LIMIT $2 OFFSET $3`, specialty, limit, offset)
	if err != nil {
		return nil, 0, db.Classify(err)
	}
	defer rows.Close()
	return collect(rows, total)
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Practitioner, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM practitioner`).Scan(&total); err != nil {
		return nil, 0, db.Classify(err)
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+cols+` FROM practitioner ORDER BY last_name, first_name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, db.Classify(err)
	}
	defer rows.Close()
	return collect(rows, total)
}

func collect(rows pgx.Rows, total int) ([]*Practitioner, int, error) {
	var items []*Practitioner
	for rows.Next() {
		p, err := scanPractitioner(rows)
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

func (r *repoPG) Update(ctx context.Context, p *Practitioner) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE practitioner SET first_name=$2, last_name=$3, specialty=$4, phone=$5,
			email=$6, hire_date=$7, department_id=$8, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.FirstName, p.LastName, p.Specialty, p.Phone,
		p.Email, p.HireDate, p.DepartmentID)
	if err != nil {
		return db.Classify(err)
	}
	return db.NotFoundIfZero(tag)
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM practitioner WHERE id = $1`, id)
	if err != nil {
		return db.Classify(err)
	}
	return db.NotFoundIfZero(tag)
}

// -- Department --

type deptRepoPG struct{ pool *pgxpool.Pool }

func NewDepartmentRepoPG(pool *pgxpool.Pool) DepartmentRepository { return &deptRepoPG{pool: pool} }

func (r *deptRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *deptRepoPG) Create(ctx context.Context, d *Department) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO department (name, description) VALUES ($1,$2)
		RETURNING id, created_at`,
		d.Name, d.Description).Scan(&d.ID, &d.CreatedAt)
	return db.Classify(err)
}

func (r *deptRepoPG) GetByID(ctx context.Context, id int64) (*Department, error) {
	var d Department
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id, name, description, created_at FROM department WHERE id = $1`, id).
		Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt)
	if err != nil {
		return nil, db.Classify(err)
	}
	return &d, nil
}

func (r *deptRepoPG) List(ctx context.Context) ([]*Department, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT id, name, description, created_at FROM department ORDER BY name`)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()
	var items []*Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt); err != nil {
			return nil, db.Classify(err)
		}
		items = append(items, &d)
	}
	return items, rows.Err()
}

func (r *deptRepoPG) Update(ctx context.Context, d *Department) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE department SET name=$2, description=$3 WHERE id = $1`,
		d.ID, d.Name, d.Description)
	if err != nil {
		return db.Classify(err)
	}
	return db.NotFoundIfZero(tag)
}

func (r *deptRepoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM department WHERE id = $1`, id)
	if err != nil {
		return db.Classify(err)
	}
	return db.NotFoundIfZero(tag)
}
