package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/familybridge/crm-backend/internal/database"
	"github.com/familybridge/crm-backend/internal/models"
	"github.com/google/uuid"
)

// TaskService handles the staff to-do workflow
type TaskService struct {
	DB *database.Queries // database access
}

// NewTaskService creates service with db dependency
func NewTaskService(db *database.Queries) *TaskService {
	return &TaskService{DB: db}
}

// parseDueDate accepts RFC 3339 or bare dates from the admin forms
func parseDueDate(raw string) (sql.NullTime, error) {
	if raw == "" {
		return sql.NullTime{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		t, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return sql.NullTime{}, fmt.Errorf("invalid due date %q", raw)
		}
	}
	return sql.NullTime{Time: t, Valid: true}, nil
}

// CreateTask makes a new task with validation
func (s *TaskService) CreateTask(ctx context.Context, input models.CreateTaskInput) (models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return models.Task{}, errors.New("task title cannot be empty")
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.IsValid() {
		return models.Task{}, fmt.Errorf("unknown priority: %s", priority)
	}

	dueDate, err := parseDueDate(input.DueDate)
	if err != nil {
		return models.Task{}, err
	}

	params := database.CreateTaskParams{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		DueDate:     dueDate,
		Priority:    string(priority),
	}
	if input.LeadID != uuid.Nil {
		params.LeadID = uuid.NullUUID{UUID: input.LeadID, Valid: true}
	}
	if input.AssigneeID != uuid.Nil {
		params.AssigneeID = uuid.NullUUID{UUID: input.AssigneeID, Valid: true}
	}

	created, err := s.DB.CreateTask(ctx, params)
	if err != nil {
		log.Printf("Error creating task: %v", err)
		return models.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return taskFromDB(created), nil
}

// GetTask retrieves one task by ID
func (s *TaskService) GetTask(ctx context.Context, id uuid.UUID) (models.Task, error) {
	t, err := s.DB.GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, fmt.Errorf("task not found: %w", err)
		}
		return models.Task{}, fmt.Errorf("failed to get task: %w", err)
	}
	return taskFromDB(t), nil
}

// TaskFilter narrows task listings
type TaskFilter struct {
	LeadID     uuid.UUID
	AssigneeID uuid.UUID
	Status     *models.TaskStatus
}

// ListTasks returns tasks matching the filters, soonest due first
func (s *TaskService) ListTasks(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	params := database.ListTasksParams{}
	if filter.LeadID != uuid.Nil {
		params.LeadID = uuid.NullUUID{UUID: filter.LeadID, Valid: true}
	}
	if filter.AssigneeID != uuid.Nil {
		params.AssigneeID = uuid.NullUUID{UUID: filter.AssigneeID, Valid: true}
	}
	if filter.Status != nil {
		if !filter.Status.IsValid() {
			return nil, fmt.Errorf("unknown task status: %s", *filter.Status)
		}
		params.Status = sql.NullString{String: string(*filter.Status), Valid: true}
	}

	rows, err := s.DB.ListTasks(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	out := make([]models.Task, len(rows))
	for i, t := range rows {
		out[i] = taskFromDB(t)
	}
	return out, nil
}

// UpdateTask applies a partial edit (the PATCH endpoint)
func (s *TaskService) UpdateTask(ctx context.Context, id uuid.UUID, input models.UpdateTaskInput) (models.Task, error) {
	current, err := s.DB.GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, fmt.Errorf("task not found: %w", err)
		}
		return models.Task{}, fmt.Errorf("failed to load task: %w", err)
	}

	params := database.UpdateTaskParams{
		ID:          id,
		AssigneeID:  current.AssigneeID,
		Title:       current.Title,
		Description: current.Description,
		DueDate:     current.DueDate,
		Priority:    current.Priority,
		Status:      current.Status,
	}
	if input.AssigneeID != nil {
		params.AssigneeID = uuid.NullUUID{UUID: *input.AssigneeID, Valid: *input.AssigneeID != uuid.Nil}
	}
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return models.Task{}, errors.New("task title cannot be empty")
		}
		params.Title = *input.Title
	}
	if input.Description != nil {
		params.Description = *input.Description
	}
	if input.DueDate != nil {
		dueDate, err := parseDueDate(*input.DueDate)
		if err != nil {
			return models.Task{}, err
		}
		params.DueDate = dueDate
	}
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return models.Task{}, fmt.Errorf("unknown priority: %s", *input.Priority)
		}
		params.Priority = string(*input.Priority)
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return models.Task{}, fmt.Errorf("unknown task status: %s", *input.Status)
		}
		params.Status = string(*input.Status)
	}

	updated, err := s.DB.UpdateTask(ctx, params)
	if err != nil {
		log.Printf("Error updating task: %v", err)
		return models.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	return taskFromDB(updated), nil
}

// DeleteTask removes a task
func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if err := s.DB.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// convert db row to app model

func taskFromDB(t database.Task) models.Task {
	out := models.Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    models.TaskPriority(t.Priority),
		Status:      models.TaskStatus(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.LeadID.Valid {
		out.LeadID = t.LeadID.UUID
	}
	if t.AssigneeID.Valid {
		out.AssigneeID = t.AssigneeID.UUID
	}
	return out
}
