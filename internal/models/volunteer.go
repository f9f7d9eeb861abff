package models

import (
	"database/sql"

	"github.com/google/uuid"
)

// VolunteerStatus tracks where someone is in the volunteer program
type VolunteerStatus string

const (
	VolunteerApplied  VolunteerStatus = "applied"
	VolunteerActive   VolunteerStatus = "active"
	VolunteerInactive VolunteerStatus = "inactive"
	VolunteerAlumni   VolunteerStatus = "alumni"
)

// IsValid checks membership in the closed set
func (s VolunteerStatus) IsValid() bool {
	switch s {
	case VolunteerApplied, VolunteerActive, VolunteerInactive, VolunteerAlumni:
		return true
	}
	return false
}

// Volunteer is a participant in one of the volunteer programs.
// LeadID links back to the lead record they converted from, if any.
type Volunteer struct {
	ID     uuid.UUID `json:"id"`
	LeadID uuid.UUID `json:"lead_id,omitempty"`

	Name    string `json:"name"`
	Email   string `json:"email"`
	Program string `json:"program"` // tutoring, events, outreach, etc.

	Status    VolunteerStatus `json:"status"`
	StartDate sql.NullTime    `json:"start_date,omitempty"`

	// timestamps
	CreatedAt sql.NullTime `json:"created_at,omitempty"`
	UpdatedAt sql.NullTime `json:"updated_at,omitempty"`
}

// CreateVolunteerInput is what we expect when enrolling a volunteer
type CreateVolunteerInput struct {
	LeadID  uuid.UUID `json:"lead_id,omitempty"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Program string    `json:"program"`
}

// UpdateVolunteerInput is what edit forms send - nil means leave alone
type UpdateVolunteerInput struct {
	Name    *string          `json:"name,omitempty"`
	Email   *string          `json:"email,omitempty"`
	Program *string          `json:"program,omitempty"`
	Status  *VolunteerStatus `json:"status,omitempty"`
}

// VolunteerHours is one logged block of volunteer time
type VolunteerHours struct {
	ID          uuid.UUID    `json:"id"`
	VolunteerID uuid.UUID    `json:"volunteer_id"`
	Hours       float64      `json:"hours"`
	Activity    string       `json:"activity,omitempty"`
	LoggedOn    sql.NullTime `json:"logged_on,omitempty"`
	CreatedAt   sql.NullTime `json:"created_at,omitempty"`
}

// LogHoursInput is what we expect when logging time
type LogHoursInput struct {
	Hours    float64 `json:"hours"`
	Activity string  `json:"activity,omitempty"`
	LoggedOn string  `json:"logged_on,omitempty"` // date, defaults to today
}

// VolunteerHoursSummary totals a volunteer's logged time
type VolunteerHoursSummary struct {
	VolunteerID uuid.UUID        `json:"volunteer_id"`
	TotalHours  float64          `json:"total_hours"`
	Entries     []VolunteerHours `json:"entries"`
}
