package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

const templateColumns = `id, channel, name, subject, body, persona, funnel_stage, is_active, created_at, updated_at`

func scanTemplate(row interface{ Scan(...interface{}) error }) (MessageTemplate, error) {
	var t MessageTemplate
	err := row.Scan(&t.ID, &t.Channel, &t.Name, &t.Subject, &t.Body,
		&t.Persona, &t.FunnelStage, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

type CreateMessageTemplateParams struct {
	ID          uuid.UUID
	Channel     string
	Name        string
	Subject     string
	Body        string
	Persona     sql.NullString
	FunnelStage sql.NullString
}

func (q *Queries) CreateMessageTemplate(ctx context.Context, arg CreateMessageTemplateParams) (MessageTemplate, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO message_templates (id, channel, name, subject, body, persona, funnel_stage)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+templateColumns,
		arg.ID, arg.Channel, arg.Name, arg.Subject, arg.Body, arg.Persona, arg.FunnelStage)
	return scanTemplate(row)
}

func (q *Queries) GetMessageTemplate(ctx context.Context, id uuid.UUID) (MessageTemplate, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM message_templates WHERE id = $1`, id)
	return scanTemplate(row)
}

func (q *Queries) ListMessageTemplates(ctx context.Context, channel sql.NullString) ([]MessageTemplate, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+templateColumns+` FROM message_templates
		WHERE ($1::text IS NULL OR channel = $1)
		ORDER BY name ASC`, channel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []MessageTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

type UpdateMessageTemplateParams struct {
	ID          uuid.UUID
	Name        string
	Subject     string
	Body        string
	Persona     sql.NullString
	FunnelStage sql.NullString
	IsActive    bool
}

func (q *Queries) UpdateMessageTemplate(ctx context.Context, arg UpdateMessageTemplateParams) (MessageTemplate, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE message_templates
		SET name = $2, subject = $3, body = $4, persona = $5, funnel_stage = $6,
		    is_active = $7, updated_at = now()
		WHERE id = $1
		RETURNING `+templateColumns,
		arg.ID, arg.Name, arg.Subject, arg.Body, arg.Persona, arg.FunnelStage, arg.IsActive)
	return scanTemplate(row)
}

func (q *Queries) DeleteMessageTemplate(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM message_templates WHERE id = $1`, id)
	return err
}

func (q *Queries) CountMessageTemplates(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT count(*) FROM message_templates`).Scan(&count)
	return count, err
}
