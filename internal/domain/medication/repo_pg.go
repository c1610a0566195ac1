package medication

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

const cols = `id, name, dosage, instructions, stock_quantity, alert_threshold, created_at, updated_at`

func scanMedication(row pgx.Row) (*Medication, error) {
	var m Medication
	err := row.Scan(&m.ID, &m.Name, &m.Dosage, &m.Instructions,
		&m.StockQuantity, &m.AlertThreshold, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, db.Classify(err)
	}
	return &m, nil
}

func (r *repoPG) Create(ctx context.Context, m *Medication) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO medication (name, dosage, instructions, stock_quantity, alert_threshold)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at, updated_at`,
		m.Name, m.Dosage, m.Instructions, m.StockQuantity, m.AlertThreshold).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	return db.Classify(err)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Medication, error) {
	return scanMedication(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM medication WHERE id = $1`, id))
}

func (r *repoPG) SearchByName(ctx context.Context, fragment string, limit, offset int) ([]*Medication, int, error) {
	pattern := "%" + fragment + "%"
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM medication WHERE name ILIKE $1`, pattern).Scan(&total); err != nil {
		return nil, 0, db.Classify(err)
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+cols+` FROM medication WHERE name ILIKE $1
		ORDER BY name LIMIT $2 OFFSET $3`, pattern, limit, offset)
	if err != nil {
		return nil, 0, db.Classify(err)
	}
	defer rows.Close()
	return collect(rows, total)
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Medication, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM medication`).Scan(&total); err != nil {
		return nil, 0, db.Classify(err)
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+cols+` FROM medication ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, db.Classify(err)
	}
	defer rows.Close()
	return collect(rows, total)
}

func (r *repoPG) ListLowStock(ctx context.Context) ([]*Medication, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+cols+` FROM medication
		WHERE alert_threshold > 0 AND stock_quantity <= alert_threshold
		ORDER BY name`)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()
	items, _, err := collect(rows, 0)
	return items, err
}

func collect(rows pgx.Rows, total int) ([]*Medication, int, error) {
	var items []*Medication
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, db.Classify(err)
	}
	return items, total, nil
}

func (r *repoPG) Update(ctx context.Context, m *Medication) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE medication SET name=$2, dosage=$3, instructions=$4,
			stock_quantity=$5, alert_threshold=$6, updated_at=NOW()
		WHERE id = $1`,
		m.ID, m.Name, m.Dosage, m.Instructions, m.StockQuantity, m.AlertThreshold)
	if err != nil {
		return db.Classify(err)
	}
	return db.NotFoundIfZero(tag)
}

// AdjustStock applies a relative stock change. The check constraint on
// stock_quantity rejects a dispensation that would go negative.
func (r *repoPG) AdjustStock(ctx context.Context, id int64, delta int) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE medication SET stock_quantity = stock_quantity + $2, updated_at=NOW()
		WHERE id = $1`, id, delta)
	if err != nil {
		return db.Classify(err)
	}
	return db.NotFoundIfZero(tag)
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM medication WHERE id = $1`, id)
	if err != nil {
		return db.Classify(err)
	}
	return db.NotFoundIfZero(tag)
}
