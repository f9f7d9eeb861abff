package models

import (
	"database/sql"

	"github.com/google/uuid"
)

// MessageChannel is how an outreach template gets delivered
type MessageChannel string

const (
	ChannelEmail MessageChannel = "email"
	ChannelSMS   MessageChannel = "sms"
)

// IsValid checks membership in the closed set
func (c MessageChannel) IsValid() bool {
	return c == ChannelEmail || c == ChannelSMS
}

// MessageTemplate is a reusable outreach message with {{placeholder}} fields.
// Persona/FunnelStage narrow which leads the template is meant for; nil = any.
type MessageTemplate struct {
	ID uuid.UUID `json:"id"`

	Channel MessageChannel `json:"channel"`
	Name    string         `json:"name"`
	Subject string         `json:"subject,omitempty"` // email only
	Body    string         `json:"body"`

	Persona     *Persona     `json:"persona,omitempty"`
	FunnelStage *FunnelStage `json:"funnel_stage,omitempty"`

	IsActive bool `json:"is_active"`

	// timestamps
	CreatedAt sql.NullTime `json:"created_at,omitempty"`
	UpdatedAt sql.NullTime `json:"updated_at,omitempty"`
}

// CreateTemplateInput is what we expect when creating a template
type CreateTemplateInput struct {
	Channel     MessageChannel `json:"channel"`
	Name        string         `json:"name"`
	Subject     string         `json:"subject,omitempty"`
	Body        string         `json:"body"`
	Persona     *Persona       `json:"persona,omitempty"`
	FunnelStage *FunnelStage   `json:"funnel_stage,omitempty"`
}

// UpdateTemplateInput is what edit forms send - nil means leave alone
type UpdateTemplateInput struct {
	Name        *string      `json:"name,omitempty"`
	Subject     *string      `json:"subject,omitempty"`
	Body        *string      `json:"body,omitempty"`
	Persona     *Persona     `json:"persona,omitempty"`
	FunnelStage *FunnelStage `json:"funnel_stage,omitempty"`
	IsActive    *bool        `json:"is_active,omitempty"`
}

// RenderedMessage is a template after placeholder substitution for one lead
type RenderedMessage struct {
	LeadID  uuid.UUID      `json:"lead_id"`
	Channel MessageChannel `json:"channel"`
	To      string         `json:"to"` // email address or phone number
	Subject string         `json:"subject,omitempty"`
	Body    string         `json:"body"`
}
