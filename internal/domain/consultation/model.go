package consultation

import "time"

// Consultation maps to the consultation table. Exactly one consultation
// per appointment, enforced by a unique constraint.
type Consultation struct {
	ID            int64     `db:"id" json:"id"`
	AppointmentID int64     `db:"appointment_id" json:"appointment_id"`
	Date          time.Time `db:"date" json:"date"`
	Diagnostic    string    `db:"diagnostic" json:"diagnostic"`
	Symptoms      *string   `db:"symptoms" json:"symptoms,omitempty"`
	Notes         *string   `db:"notes" json:"notes,omitempty"`
	Prescription  *string   `db:"prescription" json:"prescription,omitempty"`
	Tariff        float64   `db:"tariff" json:"tariff"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Treatment is a prescribed medication line attached to a consultation.
type Treatment struct {
	ID             int64     `db:"id" json:"id"`
	ConsultationID int64     `db:"consultation_id" json:"consultation_id"`
	MedicationID   int64     `db:"medication_id" json:"medication_id"`
	Dosage         string    `db:"dosage" json:"dosage"`
	DurationDays   int       `db:"duration_days" json:"duration_days"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
