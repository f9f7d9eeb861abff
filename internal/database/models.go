package database

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Row types mirror the schema one-to-one. Nullable columns use sql.Null*.

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Role         string
	PasswordHash string
	CreatedAt    sql.NullTime
	UpdatedAt    sql.NullTime
}

type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	CreatedAt sql.NullTime
	ExpiresAt time.Time
}

type Lead struct {
	ID              uuid.UUID
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Persona         string
	FunnelStage     string
	EngagementScore int32
	LeadStatus      string
	Source          string
	Notes           string
	CreatedAt       sql.NullTime
	UpdatedAt       sql.NullTime
}

type Interaction struct {
	ID              uuid.UUID
	LeadID          uuid.UUID
	InteractionType string
	Description     string
	ScoreDelta      int32
	HighValue       bool
	OccurredAt      sql.NullTime
}

type LeadAssignment struct {
	ID           uuid.UUID
	LeadID       uuid.UUID
	UserID       uuid.UUID
	Active       bool
	AssignedAt   time.Time
	UnassignedAt sql.NullTime
}

type Task struct {
	ID          uuid.UUID
	LeadID      uuid.NullUUID
	AssigneeID  uuid.NullUUID
	Title       string
	Description string
	DueDate     sql.NullTime
	Priority    string
	Status      string
	CreatedAt   sql.NullTime
	UpdatedAt   sql.NullTime
}

type FunnelProgression struct {
	ID                      uuid.UUID
	LeadID                  uuid.UUID
	FromStage               string
	ToStage                 string
	Reason                  string
	EngagementScoreAtChange int32
	TriggerEvent            sql.NullString
	CreatedAt               sql.NullTime
}

type ContentItem struct {
	ID          uuid.UUID
	ContentType string
	Title       string
	Description string
	ImageName   string
	Ord         int32
	IsActive    bool
	Metadata    []byte
	CreatedAt   sql.NullTime
	UpdatedAt   sql.NullTime
}

type ContentVisibility struct {
	ID                  uuid.UUID
	ContentItemID       uuid.UUID
	Persona             sql.NullString
	FunnelStage         sql.NullString
	IsVisible           bool
	Ord                 sql.NullInt32
	TitleOverride       sql.NullString
	DescriptionOverride sql.NullString
	ImageNameOverride   sql.NullString
	CreatedAt           sql.NullTime
	UpdatedAt           sql.NullTime
}

type ABTest struct {
	ID                 uuid.UUID
	Name               string
	Description        string
	ContentType        string
	Status             string
	ControlContentID   uuid.NullUUID
	VariantContentID   uuid.NullUUID
	ControlVisitors    int32
	ControlConversions int32
	VariantVisitors    int32
	VariantConversions int32
	Winner             sql.NullString
	StartedAt          sql.NullTime
	CompletedAt        sql.NullTime
	CreatedAt          sql.NullTime
	UpdatedAt          sql.NullTime
}

type MessageTemplate struct {
	ID          uuid.UUID
	Channel     string
	Name        string
	Subject     string
	Body        string
	Persona     sql.NullString
	FunnelStage sql.NullString
	IsActive    bool
	CreatedAt   sql.NullTime
	UpdatedAt   sql.NullTime
}

type Volunteer struct {
	ID        uuid.UUID
	LeadID    uuid.NullUUID
	Name      string
	Email     string
	Program   string
	Status    string
	StartDate sql.NullTime
	CreatedAt sql.NullTime
	UpdatedAt sql.NullTime
}

type VolunteerHours struct {
	ID          uuid.UUID
	VolunteerID uuid.UUID
	Hours       float64
	Activity    string
	LoggedOn    sql.NullTime
	CreatedAt   sql.NullTime
}
