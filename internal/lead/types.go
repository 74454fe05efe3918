// Package lead maintains the lead collection and the lifecycle rules layered
// on top of it: creation defaults, patch updates, filtering, statistics and
// change events.
package lead

import (
	"errors"
	"time"
)

var (
	// ErrNotFound signals an update against an unknown lead id.
	ErrNotFound = errors.New("lead: not found")
	// ErrInvalidInput signals a malformed or missing required field.
	ErrInvalidInput = errors.New("lead: invalid input")
)

// Status is the closed lifecycle set. Closure is represented by a status
// transition; leads are never hard-deleted.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusConverted Status = "converted"
	StatusLost      Status = "lost"
)

// ValidStatus reports whether s is a member of the lifecycle set.
func ValidStatus(s Status) bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusConverted, StatusLost:
		return true
	}
	return false
}

// Temperature classifies engagement. It correlates with score under business
// usage but is independently settable.
type Temperature string

const (
	TemperatureCold Temperature = "cold"
	TemperatureWarm Temperature = "warm"
	TemperatureHot  Temperature = "hot"
)

// Priority is the triage level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Lead is a prospective-patient intake record.
type Lead struct {
	ID                    string      `json:"id"`
	LeadCode              string      `json:"lead_code"`
	FirstName             string      `json:"first_name"`
	LastName              string      `json:"last_name"`
	Email                 string      `json:"email"`
	Phone                 string      `json:"phone"`
	Country               string      `json:"country"`
	City                  string      `json:"city,omitempty"`
	TreatmentInterest     string      `json:"treatment_interest"`
	Source                string      `json:"source"`
	SourceDetails         string      `json:"source_details,omitempty"`
	Status                Status      `json:"status"`
	AssignedTo            string      `json:"assigned_to,omitempty"`
	AssignedName          string      `json:"assigned_name,omitempty"`
	AssignedPosition      string      `json:"assigned_position,omitempty"`
	BudgetRange           string      `json:"budget_range,omitempty"`
	Notes                 string      `json:"notes,omitempty"`
	Tags                  []string    `json:"tags,omitempty"`
	Language              string      `json:"language,omitempty"`
	Priority              Priority    `json:"priority"`
	Campaign              string      `json:"campaign,omitempty"`
	Score                 int         `json:"score"`
	Temperature           Temperature `json:"temperature"`
	ConversionProbability int         `json:"conversion_probability,omitempty"`
	InteractionCount      int         `json:"interaction_count"`
	CreatedAt             time.Time   `json:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at"`
	LastContactAt         *time.Time  `json:"last_contact_at,omitempty"`
	NextFollowUpAt        *time.Time  `json:"next_follow_up_at,omitempty"`
}

// FullName joins the contact name fields for search and display.
func (l Lead) FullName() string {
	if l.FirstName == "" {
		return l.LastName
	}
	if l.LastName == "" {
		return l.FirstName
	}
	return l.FirstName + " " + l.LastName
}

// Patch carries partial-update fields. Nil pointers leave the existing value
// untouched.
type Patch struct {
	FirstName             *string      `json:"first_name,omitempty"`
	LastName              *string      `json:"last_name,omitempty"`
	Email                 *string      `json:"email,omitempty"`
	Phone                 *string      `json:"phone,omitempty"`
	Country               *string      `json:"country,omitempty"`
	City                  *string      `json:"city,omitempty"`
	TreatmentInterest     *string      `json:"treatment_interest,omitempty"`
	Source                *string      `json:"source,omitempty"`
	SourceDetails         *string      `json:"source_details,omitempty"`
	Status                *Status      `json:"status,omitempty"`
	AssignedTo            *string      `json:"assigned_to,omitempty"`
	AssignedName          *string      `json:"assigned_name,omitempty"`
	AssignedPosition      *string      `json:"assigned_position,omitempty"`
	BudgetRange           *string      `json:"budget_range,omitempty"`
	Notes                 *string      `json:"notes,omitempty"`
	Tags                  *[]string    `json:"tags,omitempty"`
	Language              *string      `json:"language,omitempty"`
	Priority              *Priority    `json:"priority,omitempty"`
	Campaign              *string      `json:"campaign,omitempty"`
	Score                 *int         `json:"score,omitempty"`
	Temperature           *Temperature `json:"temperature,omitempty"`
	ConversionProbability *int         `json:"conversion_probability,omitempty"`
	InteractionCount      *int         `json:"interaction_count,omitempty"`
	LastContactAt         *time.Time   `json:"last_contact_at,omitempty"`
	NextFollowUpAt        *time.Time   `json:"next_follow_up_at,omitempty"`
}
