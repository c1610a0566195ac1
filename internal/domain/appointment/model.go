package appointment

import (
	"fmt"
	"time"
)

// Status is the appointment lifecycle state.
type Status string

const (
	StatusPlanned   Status = "planned"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// transitions is the allowed lifecycle graph. Completed and cancelled
// are terminal.
var transitions = map[Status][]Status{
	StatusPlanned:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether moving from s to next is allowed.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPlanned, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Appointment maps to the appointment table.
type Appointment struct {
	ID             int64     `db:"id" json:"id"`
	PatientID      int64     `db:"patient_id" json:"patient_id"`
	PractitionerID int64     `db:"practitioner_id" json:"practitioner_id"`
	DateTime       time.Time `db:"date_time" json:"date_time"`
	Reason         string    `db:"reason" json:"reason"`
	Status         Status    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Transition moves the appointment to next, or fails when the lifecycle
// graph forbids it.
func (a *Appointment) Transition(next Status) error {
	if !next.Valid() {
		return fmt.Errorf("unknown appointment status: %s", next)
	}
	if !a.Status.CanTransition(next) {
		return fmt.Errorf("cannot move appointment from %s to %s", a.Status, next)
	}
	a.Status = next
	return nil
}
