package models

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LeadStatus tracks where a lead sits in the working pipeline
type LeadStatus string

const (
	LeadActive       LeadStatus = "active"
	LeadNurture      LeadStatus = "nurture"
	LeadDisqualified LeadStatus = "disqualified"
	LeadUnresponsive LeadStatus = "unresponsive"
)

// IsValid checks membership in the closed set
func (s LeadStatus) IsValid() bool {
	switch s {
	case LeadActive, LeadNurture, LeadDisqualified, LeadUnresponsive:
		return true
	}
	return false
}

// Lead represents a prospective contact captured via a lead magnet, quiz or form
type Lead struct {
	ID uuid.UUID `json:"id"` // unique identifier

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`

	Persona     Persona     `json:"persona"`
	FunnelStage FunnelStage `json:"funnel_stage"`

	EngagementScore int        `json:"engagement_score"` // bumped by interaction events
	LeadStatus      LeadStatus `json:"lead_status"`

	Source string `json:"source,omitempty"` // lead_magnet, quiz, contact_form, etc.
	Notes  string `json:"notes,omitempty"`  // free text for staff

	// timestamps
	CreatedAt sql.NullTime `json:"created_at,omitempty"`
	UpdatedAt sql.NullTime `json:"updated_at,omitempty"`
}

// String is useful for logging and debugging
func (l *Lead) String() string {
	return fmt.Sprintf("Lead(ID=%s, Email=%s, Stage=%s, Score=%d)",
		l.ID, l.Email, l.FunnelStage, l.EngagementScore)
}

// CreateLeadInput is what the public capture endpoint expects
type CreateLeadInput struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name,omitempty"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone,omitempty"`
	Persona   Persona `json:"persona"`
	Source    string  `json:"source,omitempty"`
}

// UpdateLeadInput is what admin edit forms send - nil means leave alone
type UpdateLeadInput struct {
	FirstName *string     `json:"first_name,omitempty"`
	LastName  *string     `json:"last_name,omitempty"`
	Email     *string     `json:"email,omitempty"`
	Phone     *string     `json:"phone,omitempty"`
	Persona   *Persona    `json:"persona,omitempty"`
	Status    *LeadStatus `json:"lead_status,omitempty"`
	Notes     *string     `json:"notes,omitempty"`
}

// LeadFilter narrows admin lead listings
type LeadFilter struct {
	Persona     *Persona     `json:"persona,omitempty"`
	FunnelStage *FunnelStage `json:"funnel_stage,omitempty"`
	Status      *LeadStatus  `json:"lead_status,omitempty"`
}

// Interaction is one entry in a lead's append-only event log
type Interaction struct {
	ID     uuid.UUID `json:"id"`
	LeadID uuid.UUID `json:"lead_id"`

	InteractionType string `json:"interaction_type"` // email_open, download, event_rsvp, etc.
	Description     string `json:"description,omitempty"`
	ScoreDelta      int    `json:"score_delta"` // how much this event moves the engagement score
	HighValue       bool   `json:"high_value"`  // flags events that justify immediate advancement

	OccurredAt sql.NullTime `json:"occurred_at,omitempty"`
}

// CreateInteractionInput is what we expect when recording an event
type CreateInteractionInput struct {
	InteractionType string `json:"interaction_type"`
	Description     string `json:"description,omitempty"`
	ScoreDelta      int    `json:"score_delta"`
	HighValue       bool   `json:"high_value,omitempty"`
}

// ProgressionReason explains why a lead changed funnel stage
type ProgressionReason string

const (
	ReasonThresholdMet   ProgressionReason = "threshold_met"
	ReasonHighValueEvent ProgressionReason = "high_value_event"
	ReasonManualOverride ProgressionReason = "manual_override"
)

// FunnelProgression is one stage transition in a lead's history (append-only)
type FunnelProgression struct {
	ID     uuid.UUID `json:"id"`
	LeadID uuid.UUID `json:"lead_id"`

	FromStage FunnelStage       `json:"from_stage"`
	ToStage   FunnelStage       `json:"to_stage"`
	Reason    ProgressionReason `json:"reason"`

	EngagementScoreAtChange int    `json:"engagement_score_at_change"`
	TriggerEvent            string `json:"trigger_event,omitempty"` // interaction type that tripped it

	CreatedAt sql.NullTime `json:"created_at,omitempty"`
}

// StageOverrideInput is what admins send to move a lead manually.
// Reason is mandatory - we always want to know why someone was moved.
type StageOverrideInput struct {
	Stage  FunnelStage `json:"stage"`
	Reason string      `json:"reason"`
}

// Assignment links a lead to the staff member working it
type Assignment struct {
	ID     uuid.UUID `json:"id"`
	LeadID uuid.UUID `json:"lead_id"`
	UserID uuid.UUID `json:"user_id"`

	Active       bool         `json:"active"`
	AssignedAt   time.Time    `json:"assigned_at"`
	UnassignedAt sql.NullTime `json:"unassigned_at,omitempty"`
}

// CreateAssignmentInput is what we expect when assigning a lead
type CreateAssignmentInput struct {
	UserID uuid.UUID `json:"user_id"`
}
