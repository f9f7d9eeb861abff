package models

import (
	"database/sql"

	"github.com/google/uuid"
)

// TaskStatus tracks a CRM to-do item's state
type TaskStatus string

const (
	TaskOpen       TaskStatus = "open"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
	TaskCancelled  TaskStatus = "cancelled"
)

// IsValid checks membership in the closed set
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskOpen, TaskInProgress, TaskDone, TaskCancelled:
		return true
	}
	return false
}

// TaskPriority is low/medium/high - kept as a string for easy display
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// IsValid checks membership in the closed set
func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a follow-up item for staff, usually tied to a lead
type Task struct {
	ID uuid.UUID `json:"id"`

	LeadID     uuid.UUID `json:"lead_id,omitempty"`     // which lead this is about (optional)
	AssigneeID uuid.UUID `json:"assignee_id,omitempty"` // which staff member owns it

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	DueDate  sql.NullTime `json:"due_date,omitempty"`
	Priority TaskPriority `json:"priority"`
	Status   TaskStatus   `json:"status"`

	// timestamps
	CreatedAt sql.NullTime `json:"created_at,omitempty"`
	UpdatedAt sql.NullTime `json:"updated_at,omitempty"`
}

// CreateTaskInput is what we expect when creating a task
type CreateTaskInput struct {
	LeadID      uuid.UUID    `json:"lead_id,omitempty"`
	AssigneeID  uuid.UUID    `json:"assignee_id,omitempty"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	DueDate     string       `json:"due_date,omitempty"` // RFC 3339, optional
	Priority    TaskPriority `json:"priority,omitempty"` // defaults to medium
}

// UpdateTaskInput is what PATCH sends - nil means leave alone
type UpdateTaskInput struct {
	AssigneeID  *uuid.UUID    `json:"assignee_id,omitempty"`
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	DueDate     *string       `json:"due_date,omitempty"`
	Priority    *TaskPriority `json:"priority,omitempty"`
	Status      *TaskStatus   `json:"status,omitempty"`
}
