package models

import (
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
)

// ContentType identifies what kind of site content an item is
type ContentType string

const (
	ContentHero               ContentType = "hero"
	ContentCTA                ContentType = "cta"
	ContentService            ContentType = "service"
	ContentEvent              ContentType = "event"
	ContentTestimonial        ContentType = "testimonial"
	ContentLeadMagnet         ContentType = "lead_magnet"
	ContentProgramDetail      ContentType = "program_detail"
	ContentVolunteerDashboard ContentType = "volunteer_dashboard_card"
)

// IsValid checks membership in the closed set
func (t ContentType) IsValid() bool {
	switch t {
	case ContentHero, ContentCTA, ContentService, ContentEvent, ContentTestimonial,
		ContentLeadMagnet, ContentProgramDetail, ContentVolunteerDashboard:
		return true
	}
	return false
}

// HasPersonaDimension reports whether content of this type is targeted by
// persona and funnel stage. Events and testimonials show uniformly.
func (t ContentType) HasPersonaDimension() bool {
	return t != ContentEvent && t != ContentTestimonial
}

// ContentItem represents a unit of displayable site content
type ContentItem struct {
	ID uuid.UUID `json:"id"` // unique identifier

	Type        ContentType `json:"type"`                  // hero, cta, service, etc.
	Title       string      `json:"title"`                 // headline text
	Description string      `json:"description,omitempty"` // body text
	ImageName   string      `json:"image_name,omitempty"`  // key into the image host

	Order    int  `json:"order"`     // default display position
	IsActive bool `json:"is_active"` // soft delete flag - items are deactivated, not removed

	// open-ended payload whose shape depends on Type
	// (a hero carries persona, funnelStage, subtitle, button labels/links)
	Metadata json.RawMessage `json:"metadata,omitempty"`

	// timestamps
	CreatedAt sql.NullTime `json:"created_at,omitempty"`
	UpdatedAt sql.NullTime `json:"updated_at,omitempty"`
}

// CreateContentItemInput is what we expect when creating new content
type CreateContentItemInput struct {
	Type        ContentType     `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	ImageName   string          `json:"image_name,omitempty"`
	Order       int             `json:"order,omitempty"`
	IsActive    *bool           `json:"is_active,omitempty"` // defaults to true
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

// UpdateContentItemInput is what we expect on edits - nil means leave alone
type UpdateContentItemInput struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	ImageName   *string         `json:"image_name,omitempty"`
	Order       *int            `json:"order,omitempty"`
	IsActive    *bool           `json:"is_active,omitempty"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

// ContentVisibility is a per-item override for one persona×stage cell.
// A nil Persona or FunnelStage is a wildcard: "applies to all".
type ContentVisibility struct {
	ID            uuid.UUID `json:"id"`
	ContentItemID uuid.UUID `json:"content_item_id"`

	Persona     *Persona     `json:"persona,omitempty"`      // nil = all personas
	FunnelStage *FunnelStage `json:"funnel_stage,omitempty"` // nil = all stages

	IsVisible bool `json:"is_visible"`
	Order     *int `json:"order,omitempty"` // overrides the item's default order

	TitleOverride       *string `json:"title_override,omitempty"`
	DescriptionOverride *string `json:"description_override,omitempty"`
	ImageNameOverride   *string `json:"image_name_override,omitempty"`

	CreatedAt sql.NullTime `json:"created_at,omitempty"`
	UpdatedAt sql.NullTime `json:"updated_at,omitempty"`
}

// UpsertContentVisibilityInput is what admin forms send for an override cell
type UpsertContentVisibilityInput struct {
	ContentItemID       uuid.UUID    `json:"content_item_id"`
	Persona             *Persona     `json:"persona,omitempty"`
	FunnelStage         *FunnelStage `json:"funnel_stage,omitempty"`
	IsVisible           bool         `json:"is_visible"`
	Order               *int         `json:"order,omitempty"`
	TitleOverride       *string      `json:"title_override,omitempty"`
	DescriptionOverride *string      `json:"description_override,omitempty"`
	ImageNameOverride   *string      `json:"image_name_override,omitempty"`
}

// ResolvedContent is a content item after visibility resolution - the
// base fields with the winning override's text/image/order applied
type ResolvedContent struct {
	ID          uuid.UUID       `json:"id"`
	Type        ContentType     `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	ImageName   string          `json:"image_name,omitempty"`
	Order       int             `json:"order"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}
