package billing

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

const cols = `id, number, patient_id, consultation_id, consultation_amount,
	medication_amount, total, paid, status, payment_mode, payment_date,
	created_at, updated_at`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(&inv.ID, &inv.Number, &inv.PatientID, &inv.ConsultationID,
		&inv.ConsultationAmount, &inv.MedicationAmount, &inv.Total, &inv.Paid,
		&inv.Status, &inv.PaymentMode, &inv.PaymentDate, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, db.Classify(err)
	}
	return &inv, nil
}

func (r *repoPG) Create(ctx context.Context, inv *Invoice) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO invoice (number, patient_id, consultation_id, consultation_amount,
			medication_amount, total, paid, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at, updated_at`,
		inv.Number, inv.PatientID, inv.ConsultationID, inv.ConsultationAmount,
		inv.MedicationAmount, inv.Total, inv.Paid, inv.Status).
		Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	return db.Classify(err)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Invoice, error) {
	return scanInvoice(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM invoice WHERE id = $1`, id))
}

func (r *repoPG) GetByNumber(ctx context.Context, number string) (*Invoice, error) {
	return scanInvoice(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM invoice WHERE number = $1`, number))
}

func (r *repoPG) GetByConsultationID(ctx context.Context, consultationID int64) (*Invoice, error) {
	return scanInvoice(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cols+` FROM invoice WHERE consultation_id = $1`, consultationID))
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID int64, limit, offset int) ([]*Invoice, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM invoice WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, db.Classify(err)
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+cols+` FROM invoice WHERE patient_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, db.Classify(err)
	}
	defer rows.Close()
	return collect(rows, total)
}

func (r *repoPG) ListByStatus(ctx context.Context, status Status, limit, offset int) ([]*Invoice, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM invoice WHERE status = $1`, status).Scan(&total); err != nil {
		return nil, 0, db.Classify(err)
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+cols+` FROM invoice WHERE status = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, status, limit, offset)
	if err != nil {
		return nil, 0, db.Classify(err)
	}
	defer rows.Close()
	return collect(rows, total)
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Invoice, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM invoice`).Scan(&total); err != nil {
		return nil, 0, db.Classify(err)
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+cols+` FROM invoice ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, db.Classify(err)
	}
	defer rows.Close()
	return collect(rows, total)
}

func collect(rows pgx.Rows, total int) ([]*Invoice, int, error) {
	var items []*Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, db.Classify(err)
	}
	return items, total, nil
}

// RecordPayment writes the new paid amount and status, guarding against
// rows that are already fully paid so a double collect stays a no-op.
func (r *repoPG) RecordPayment(ctx context.Context, id int64, paid float64, status Status, mode string) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE invoice SET paid=$2, status=$3, payment_mode=$4, payment_date=NOW(),
			updated_at=NOW()
		WHERE id = $1 AND status <> 'paid'`, id, paid, status, mode)
	if err != nil {
		return db.Classify(err)
	}
	return db.NotFoundIfZero(tag)
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM invoice WHERE id = $1`, id)
	if err != nil {
		return db.Classify(err)
	}
	return db.NotFoundIfZero(tag)
}
