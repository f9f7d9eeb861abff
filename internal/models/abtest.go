package models

import (
	"database/sql"

	"github.com/google/uuid"
)

// ABTestStatus tracks an experiment's lifecycle
type ABTestStatus string

const (
	ABTestDraft     ABTestStatus = "draft"
	ABTestRunning   ABTestStatus = "running"
	ABTestCompleted ABTestStatus = "completed"
	ABTestArchived  ABTestStatus = "archived"
)

// IsValid checks membership in the closed set
func (s ABTestStatus) IsValid() bool {
	switch s {
	case ABTestDraft, ABTestRunning, ABTestCompleted, ABTestArchived:
		return true
	}
	return false
}

// ABTestArm identifies which side of the experiment an event belongs to
type ABTestArm string

const (
	ArmControl ABTestArm = "control"
	ArmVariant ABTestArm = "variant"
)

// ABTest is an experiment comparing two content items on the live site
type ABTest struct {
	ID uuid.UUID `json:"id"`

	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	ContentType ContentType  `json:"content_type"` // what kind of content is being tested
	Status      ABTestStatus `json:"status"`

	ControlContentID uuid.UUID `json:"control_content_id,omitempty"`
	VariantContentID uuid.UUID `json:"variant_content_id,omitempty"`

	// raw counters, incremented as events come in
	ControlVisitors    int `json:"control_visitors"`
	ControlConversions int `json:"control_conversions"`
	VariantVisitors    int `json:"variant_visitors"`
	VariantConversions int `json:"variant_conversions"`

	Winner string `json:"winner,omitempty"` // control or variant, set on completion

	StartedAt   sql.NullTime `json:"started_at,omitempty"`
	CompletedAt sql.NullTime `json:"completed_at,omitempty"`
	CreatedAt   sql.NullTime `json:"created_at,omitempty"`
	UpdatedAt   sql.NullTime `json:"updated_at,omitempty"`
}

// CreateABTestInput is what we expect when setting up an experiment
type CreateABTestInput struct {
	Name             string      `json:"name"`
	Description      string      `json:"description,omitempty"`
	ContentType      ContentType `json:"content_type"`
	ControlContentID uuid.UUID   `json:"control_content_id,omitempty"`
	VariantContentID uuid.UUID   `json:"variant_content_id,omitempty"`
}

// RecordABTestEventInput records one visitor or conversion on one arm
type RecordABTestEventInput struct {
	Arm        ABTestArm `json:"arm"`
	Conversion bool      `json:"conversion,omitempty"` // false = just a visitor
}

// ABTestResults is the computed view returned by the results endpoint
type ABTestResults struct {
	Test          *ABTest `json:"test"`
	ControlRate   float64 `json:"control_rate"` // conversions / visitors
	VariantRate   float64 `json:"variant_rate"`
	Lift          float64 `json:"lift"`            // relative change, variant vs control
	Confidence    float64 `json:"confidence"`      // percent, 0-100
	Significant   bool    `json:"significant"`     // confidence >= 95
	SuggestedArm  string  `json:"suggested_arm"`   // which arm is ahead
	SamplesPerArm int     `json:"samples_per_arm"` // required size to detect the observed lift
}
