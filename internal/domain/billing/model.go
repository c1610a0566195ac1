package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the invoice payment state.
type Status string

const (
	StatusPending Status = "pending"
	StatusPartial Status = "partial"
	StatusPaid    Status = "paid"
)

// Invoice maps to the invoice table. Amounts are MAD.
type Invoice struct {
	ID                 int64      `db:"id" json:"id"`
	Number             string     `db:"number" json:"number"`
	PatientID          int64      `db:"patient_id" json:"patient_id"`
	ConsultationID     int64      `db:"consultation_id" json:"consultation_id"`
	ConsultationAmount float64    `db:"consultation_amount" json:"consultation_amount"`
	MedicationAmount   float64    `db:"medication_amount" json:"medication_amount"`
	Total              float64    `db:"total" json:"total"`
	Paid               float64    `db:"paid" json:"paid"`
	Status             Status     `db:"status" json:"status"`
	PaymentMode        *string    `db:"payment_mode" json:"payment_mode,omitempty"`
	PaymentDate        *time.Time `db:"payment_date" json:"payment_date,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// Remaining is the outstanding balance, always computed, never stored.
func (i *Invoice) Remaining() float64 {
	r := i.Total - i.Paid
	if r < 0 {
		return 0
	}
	return r
}

// statusFor derives the payment status from amounts.
func statusFor(total, paid float64) Status {
	switch {
	case paid <= 0:
		return StatusPending
	case paid < total:
		return StatusPartial
	default:
		return StatusPaid
	}
}

// GenerateNumber produces a business identifier like FAC-20260901-4F2A1C.
func GenerateNumber(now time.Time) string {
	id := uuid.New()
	return fmt.Sprintf("FAC-%s-%X", now.Format("20060102"), id[:3])
}
