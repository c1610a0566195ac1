package patient

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patient table.
type Patient struct {
	ID             int64      `db:"id" json:"id"`
	FirstName      string     `db:"first_name" json:"first_name"`
	LastName       string     `db:"last_name" json:"last_name"`
	CIN            string     `db:"cin" json:"cin"`
	Phone          *string    `db:"phone" json:"phone,omitempty"`
	Email          *string    `db:"email" json:"email,omitempty"`
	Address        *string    `db:"address" json:"address,omitempty"`
	BirthDate      *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Sex            string     `db:"sex" json:"sex"`
	MedicalHistory *string    `db:"medical_history" json:"medical_history,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// FullName returns "LASTNAME Firstname" as printed on planning screens.
func (p *Patient) FullName() string {
	return strings.TrimSpace(strings.ToUpper(p.LastName) + " " + p.FirstName)
}

// Age returns the patient age in full years, or -1 when the birth date
// is unknown.
func (p *Patient) Age(now time.Time) int {
	if p.BirthDate == nil {
		return -1
	}
	years := now.Year() - p.BirthDate.Year()
	anniversary := p.BirthDate.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}

// GenerateCIN produces a placeholder national ID for patients registered
// without papers. The P prefix keeps them distinguishable from real CINs.
func GenerateCIN() string {
	return fmt.Sprintf("P%08d", uuid.New().ID()%100000000)
}
