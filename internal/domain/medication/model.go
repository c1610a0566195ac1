package medication

import "time"

// Medication maps to the medication table (pharmacy catalog).
type Medication struct {
	ID             int64     `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Dosage         string    `db:"dosage" json:"dosage"`
	Instructions   *string   `db:"instructions" json:"instructions,omitempty"`
	StockQuantity  int       `db:"stock_quantity" json:"stock_quantity"`
	AlertThreshold int       `db:"alert_threshold" json:"alert_threshold"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// StockRatio returns stock relative to the alert threshold. Below 1.0 the
// pharmacy screen shows a warning. A zero threshold never alerts.
func (m *Medication) StockRatio() float64 {
	if m.AlertThreshold <= 0 {
		return 1
	}
	return float64(m.StockQuantity) / float64(m.AlertThreshold)
}

// LowStock reports whether the medication is at or under its alert threshold.
func (m *Medication) LowStock() bool {
	return m.AlertThreshold > 0 && m.StockQuantity <= m.AlertThreshold
}
