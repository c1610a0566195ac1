package consultation

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

const cols = `id, appointment_id, date, diagnostic, symptoms, notes, prescription,
	tariff, created_at, updated_at`

func scanConsultation(row pgx.Row) (*Consultation, error) {
	var c Consultation
	err := row.Scan(&c.ID, &c.AppointmentID, &c.Date, &c.Diagnostic, &c.Symptoms,
		&c.Notes, &c.Prescription, &c.Tariff, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, db.Classify(err)
	}
	return &c, nil
}

func (r *repoPG) Create(ctx context.Context, c *Consultation) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO consultation (appointment_id, date, diagnostic, symptoms, notes,
			prescription, tariff)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at, updated_at`,
		c.AppointmentID, c.Date, c.Diagnostic, c.Symptoms, c.Notes,
		c.Prescription, c.Tariff).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return db.Classify(err)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Consultation, error) {
	return scanConsultation(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM consultation WHERE id = $1`, id))
}

func (r *repoPG) GetByAppointmentID(ctx context.Context, appointmentID int64) (*Consultation, error) {
	return scanConsultation(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cols+` FROM consultation WHERE appointment_id = $1`, appointmentID))
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Consultation, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM consultation`).Scan(&total); err != nil {
		return nil, 0, db.Classify(err)
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+cols+` FROM consultation ORDER BY date DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, db.Classify(err)
	}
	defer rows.Close()
	var items []*Consultation
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, db.Classify(err)
	}
	return items, total, nil
}

func (r *repoPG) Update(ctx context.Context, c *Consultation) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE consultation SET date=$2, diagnostic=$3, symptoms=$4, notes=$5,
			prescription=$6, tariff=$7, updated_at=NOW()
		WHERE id = $1`,
		c.ID, c.Date, c.Diagnostic, c.Symptoms, c.Notes, c.Prescription, c.Tariff)
	if err != nil {
		return db.Classify(err)
	}
	return db.NotFoundIfZero(tag)
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM consultation WHERE id = $1`, id)
	if err != nil {
		return db.Classify(err)
	}
	return db.NotFoundIfZero(tag)
}

func (r *repoPG) AddTreatment(ctx context.Context, t *Treatment) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO treatment (consultation_id, medication_id, dosage, duration_days)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at`,
		t.ConsultationID, t.MedicationID, t.Dosage, t.DurationDays).
		Scan(&t.ID, &t.CreatedAt)
	return db.Classify(err)
}

func (r *repoPG) ListTreatments(ctx context.Context, consultationID int64) ([]*Treatment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, consultation_id, medication_id, dosage, duration_days, created_at
		FROM treatment WHERE consultation_id = $1 ORDER BY id`, consultationID)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()
	var items []*Treatment
	for rows.Next() {
		var t Treatment
		if err := rows.Scan(&t.ID, &t.ConsultationID, &t.MedicationID,
			&t.Dosage, &t.DurationDays, &t.CreatedAt); err != nil {
			return nil, db.Classify(err)
		}
		items = append(items, &t)
	}
	return items, rows.Err()
}

func (r *repoPG) RemoveTreatment(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM treatment WHERE id = $1`, id)
	if err != nil {
		return db.Classify(err)
	}
	return db.NotFoundIfZero(tag)
}
