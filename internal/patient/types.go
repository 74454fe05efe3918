// Package patient maintains the patient-record collection: admitted contacts
// with a treatment plan, as opposed to leads still in intake.
package patient

import (
	"errors"
	"time"
)

var (
	// ErrNotFound signals an operation against an unknown patient id.
	ErrNotFound = errors.New("patient: not found")
	// ErrInvalidInput signals a malformed or missing required field.
	ErrInvalidInput = errors.New("patient: invalid input")
)

// Status is the treatment-journey stage.
type Status string

const (
	StatusConsultation Status = "consultation"
	StatusPlanning     Status = "planning"
	StatusInTreatment  Status = "in-treatment"
	StatusCompleted    Status = "completed"
)

// ValidStatus reports whether s is a member of the journey set.
func ValidStatus(s Status) bool {
	switch s {
	case StatusConsultation, StatusPlanning, StatusInTreatment, StatusCompleted:
		return true
	}
	return false
}

// Priority is the care-coordination triage level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Patient is an admitted-patient record.
type Patient struct {
	ID              string     `json:"id"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Email           string     `json:"email,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	Age             int        `json:"age,omitempty"`
	Country         string     `json:"country"`
	Treatment       string     `json:"treatment"`
	Status          Status     `json:"status"`
	Coordinator     string     `json:"coordinator,omitempty"`
	NextAppointment *time.Time `json:"next_appointment,omitempty"`
	Priority        Priority   `json:"priority"`
	MedicalHistory  string     `json:"medical_history,omitempty"`
	Insurance       string     `json:"insurance,omitempty"`
	Branch          string     `json:"branch,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// FullName joins the name fields for search and display.
func (p Patient) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Patch carries partial-update fields. Nil pointers leave the existing value
// untouched.
type Patch struct {
	FirstName       *string    `json:"first_name,omitempty"`
	LastName        *string    `json:"last_name,omitempty"`
	Email           *string    `json:"email,omitempty"`
	Phone           *string    `json:"phone,omitempty"`
	Age             *int       `json:"age,omitempty"`
	Country         *string    `json:"country,omitempty"`
	Treatment       *string    `json:"treatment,omitempty"`
	Status          *Status    `json:"status,omitempty"`
	Coordinator     *string    `json:"coordinator,omitempty"`
	NextAppointment *time.Time `json:"next_appointment,omitempty"`
	Priority        *Priority  `json:"priority,omitempty"`
	MedicalHistory  *string    `json:"medical_history,omitempty"`
	Insurance       *string    `json:"insurance,omitempty"`
	Branch          *string    `json:"branch,omitempty"`
}
