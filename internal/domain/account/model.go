package account

import "time"

// Roles recognised by the access layer. Admin bypasses all role checks.
const (
	RoleAdmin        = "admin"
	RoleDoctor       = "doctor"
	RoleReceptionist = "receptionist"
	RolePatient      = "patient"
)

var roles = map[string]bool{
	RoleAdmin:        true,
	RoleDoctor:       true,
	RoleReceptionist: true,
	RolePatient:      true,
}

func ValidRole(role string) bool { return roles[role] }

// Account is a login identity. Doctor accounts link to a practitioner
// record, patient accounts to a patient record.
type Account struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	PasswordHash   string    `json:"-"`
	Email          *string   `json:"email,omitempty"`
	Role           string    `json:"role"`
	Active         bool      `json:"active"`
	PractitionerID *int64    `json:"practitioner_id,omitempty"`
	PatientID      *int64    `json:"patient_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
