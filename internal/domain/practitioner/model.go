package practitioner

import (
	"strings"
	"time"
)

// Practitioner maps to the practitioner table.
type Practitioner struct {
	ID           int64      `db:"id" json:"id"`
	FirstName    string     `db:"first_name" json:"first_name"`
	LastName     string     `db:"last_name" json:"last_name"`
	Specialty    string     `db:"specialty" json:"specialty"`
	Phone        *string    `db:"phone" json:"phone,omitempty"`
	Email        *string    `db:"email" json:"email,omitempty"`
	HireDate     *time.Time `db:"hire_date" json:"hire_date,omitempty"`
	DepartmentID *int64     `db:"department_id" json:"department_id,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// DisplayName returns "Dr. Firstname LASTNAME" as shown on planning screens.
func (p *Practitioner) DisplayName() string {
	return strings.TrimSpace("Dr. " + p.FirstName + " " + strings.ToUpper(p.LastName))
}

// Department maps to the department table.
type Department struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
