package appointment

import (
	"context"
	"time"

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

const cols = `id, patient_id, practitioner_id, date_time, reason, status, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.PractitionerID, &a.DateTime, &a.Reason,
		&a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, db.Classify(err)
	}
	return &a, nil
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointment (patient_id, practitioner_id, date_time, reason, status)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at, updated_at`,
		a.PatientID, a.PractitionerID, a.DateTime, a.Reason, a.Status).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return db.Classify(err)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	return scanAppointment(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM appointment WHERE id = $1`, id))
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID int64, limit, offset int) ([]*Appointment, int, error) {
	return r.listWhere(ctx, `patient_id = $1`, patientID, limit, offset)
}

func (r *repoPG) ListByPractitioner(ctx context.Context, practitionerID int64, limit, offset int) ([]*Appointment, int, error) {
	return r.listWhere(ctx, `practitioner_id = $1`, practitionerID, limit, offset)
}

func (r *repoPG) listWhere(ctx context.Context, cond string, arg int64, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointment WHERE `+cond, arg).Scan(&total); err != nil {
		return nil, 0, db.Classify(err)
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+cols+` FROM appointment WHERE `+cond+`
		ORDER BY date_time DESC LIMIT $2 OFFSET $3`, arg, limit, offset)
	if err != nil {
		return nil, 0, db.Classify(err)
	}
	defer rows.Close()
	return collect(rows, total)
}

func (r *repoPG) ListByDay(ctx context.Context, day time.Time) ([]*Appointment, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+cols+` FROM appointment
		WHERE date_time >= $1 AND date_time < $2
		ORDER BY date_time`, start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()
	items, _, err := collect(rows, 0)
	return items, err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointment`).Scan(&total); err != nil {
		return nil, 0, db.Classify(err)
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+cols+` FROM appointment ORDER BY date_time DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, db.Classify(err)
	}
	defer rows.Close()
	return collect(rows, total)
}

func collect(rows pgx.Rows, total int) ([]*Appointment, int, error) {
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
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

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointment SET patient_id=$2, practitioner_id=$3, date_time=$4,
			reason=$5, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.PatientID, a.PractitionerID, a.DateTime, a.Reason)
	if err != nil {
		return db.Classify(err)
	}
	return db.NotFoundIfZero(tag)
}

// UpdateStatus moves an appointment between states with a status guard in
// the WHERE clause, so concurrent transitions cannot both win.
func (r *repoPG) UpdateStatus(ctx context.Context, id int64, from, to Status) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointment SET status=$3, updated_at=NOW()
		WHERE id = $1 AND status = $2`, id, from, to)
	if err != nil {
		return db.Classify(err)
	}
	return db.NotFoundIfZero(tag)
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointment WHERE id = $1`, id)
	if err != nil {
		return db.Classify(err)
	}
	return db.NotFoundIfZero(tag)
}
