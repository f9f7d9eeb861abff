package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

const taskColumns = `id, lead_id, assignee_id, title, description, due_date, priority, status, created_at, updated_at`

func scanTask(row interface{ Scan(...interface{}) error }) (Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.LeadID, &t.AssigneeID, &t.Title, &t.Description,
		&t.DueDate, &t.Priority, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

type CreateTaskParams struct {
	ID          uuid.UUID
	LeadID      uuid.NullUUID
	AssigneeID  uuid.NullUUID
	Title       string
	Description string
	DueDate     sql.NullTime
	Priority    string
}

func (q *Queries) CreateTask(ctx context.Context, arg CreateTaskParams) (Task, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO tasks (id, lead_id, assignee_id, title, description, due_date, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+taskColumns,
		arg.ID, arg.LeadID, arg.AssigneeID, arg.Title, arg.Description, arg.DueDate, arg.Priority)
	return scanTask(row)
}

func (q *Queries) GetTask(ctx context.Context, id uuid.UUID) (Task, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	return scanTask(row)
}

type ListTasksParams struct {
	LeadID     uuid.NullUUID
	AssigneeID uuid.NullUUID
	Status     sql.NullString
}

func (q *Queries) ListTasks(ctx context.Context, arg ListTasksParams) ([]Task, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE ($1::uuid IS NULL OR lead_id = $1)
		  AND ($2::uuid IS NULL OR assignee_id = $2)
		  AND ($3::text IS NULL OR status = $3)
		ORDER BY due_date ASC NULLS LAST, created_at DESC`,
		arg.LeadID, arg.AssigneeID, arg.Status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

type UpdateTaskParams struct {
	ID          uuid.UUID
	AssigneeID  uuid.NullUUID
	Title       string
	Description string
	DueDate     sql.NullTime
	Priority    string
	Status      string
}

func (q *Queries) UpdateTask(ctx context.Context, arg UpdateTaskParams) (Task, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE tasks
		SET assignee_id = $2, title = $3, description = $4, due_date = $5,
		    priority = $6, status = $7, updated_at = now()
		WHERE id = $1
		RETURNING `+taskColumns,
		arg.ID, arg.AssigneeID, arg.Title, arg.Description, arg.DueDate, arg.Priority, arg.Status)
	return scanTask(row)
}

func (q *Queries) DeleteTask(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}

func (q *Queries) CountTasks(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT count(*) FROM tasks`).Scan(&count)
	return count, err
}
