package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

const leadColumns = `id, first_name, last_name, email, phone, persona, funnel_stage,
	engagement_score, lead_status, source, notes, created_at, updated_at`

func scanLead(row interface{ Scan(...interface{}) error }) (Lead, error) {
	var l Lead
	err := row.Scan(&l.ID, &l.FirstName, &l.LastName, &l.Email, &l.Phone, &l.Persona,
		&l.FunnelStage, &l.EngagementScore, &l.LeadStatus, &l.Source, &l.Notes,
		&l.CreatedAt, &l.UpdatedAt)
	return l, err
}

type CreateLeadParams struct {
	ID          uuid.UUID
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Persona     string
	FunnelStage string
	LeadStatus  string
	Source      string
}

func (q *Queries) CreateLead(ctx context.Context, arg CreateLeadParams) (Lead, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO leads (id, first_name, last_name, email, phone, persona, funnel_stage, lead_status, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+leadColumns,
		arg.ID, arg.FirstName, arg.LastName, arg.Email, arg.Phone, arg.Persona,
		arg.FunnelStage, arg.LeadStatus, arg.Source)
	return scanLead(row)
}

func (q *Queries) GetLead(ctx context.Context, id uuid.UUID) (Lead, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	return scanLead(row)
}

type ListLeadsParams struct {
	Persona     sql.NullString
	FunnelStage sql.NullString
	LeadStatus  sql.NullString
}

// ListLeads returns leads matching the given filters; null params match everything
func (q *Queries) ListLeads(ctx context.Context, arg ListLeadsParams) ([]Lead, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+leadColumns+` FROM leads
		WHERE ($1::text IS NULL OR persona = $1)
		  AND ($2::text IS NULL OR funnel_stage = $2)
		  AND ($3::text IS NULL OR lead_status = $3)
		ORDER BY created_at DESC`,
		arg.Persona, arg.FunnelStage, arg.LeadStatus)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

type UpdateLeadParams struct {
	ID         uuid.UUID
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Persona    string
	LeadStatus string
	Notes      string
}

func (q *Queries) UpdateLead(ctx context.Context, arg UpdateLeadParams) (Lead, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE leads
		SET first_name = $2, last_name = $3, email = $4, phone = $5,
		    persona = $6, lead_status = $7, notes = $8, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns,
		arg.ID, arg.FirstName, arg.LastName, arg.Email, arg.Phone,
		arg.Persona, arg.LeadStatus, arg.Notes)
	return scanLead(row)
}

type UpdateLeadProgressParams struct {
	ID              uuid.UUID
	FunnelStage     string
	EngagementScore int32
}

// UpdateLeadProgress writes the score and stage together so they never drift apart
func (q *Queries) UpdateLeadProgress(ctx context.Context, arg UpdateLeadProgressParams) (Lead, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE leads
		SET funnel_stage = $2, engagement_score = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns,
		arg.ID, arg.FunnelStage, arg.EngagementScore)
	return scanLead(row)
}

type AppendLeadNotesParams struct {
	ID    uuid.UUID
	Notes string
}

func (q *Queries) AppendLeadNotes(ctx context.Context, arg AppendLeadNotesParams) (Lead, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE leads
		SET notes = CASE WHEN notes = '' THEN $2 ELSE notes || E'\n\n' || $2 END,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns,
		arg.ID, arg.Notes)
	return scanLead(row)
}

func (q *Queries) DeleteLead(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	return err
}

func (q *Queries) CountLeads(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT count(*) FROM leads`).Scan(&count)
	return count, err
}

type CreateInteractionParams struct {
	ID              uuid.UUID
	LeadID          uuid.UUID
	InteractionType string
	Description     string
	ScoreDelta      int32
	HighValue       bool
}

func (q *Queries) CreateInteraction(ctx context.Context, arg CreateInteractionParams) (Interaction, error) {
	var i Interaction
	err := q.db.QueryRowContext(ctx, `
		INSERT INTO interactions (id, lead_id, interaction_type, description, score_delta, high_value)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, lead_id, interaction_type, description, score_delta, high_value, occurred_at`,
		arg.ID, arg.LeadID, arg.InteractionType, arg.Description, arg.ScoreDelta, arg.HighValue).
		Scan(&i.ID, &i.LeadID, &i.InteractionType, &i.Description, &i.ScoreDelta, &i.HighValue, &i.OccurredAt)
	return i, err
}

func (q *Queries) ListInteractionsByLead(ctx context.Context, leadID uuid.UUID) ([]Interaction, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, lead_id, interaction_type, description, score_delta, high_value, occurred_at
		FROM interactions WHERE lead_id = $1 ORDER BY occurred_at ASC`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Interaction
	for rows.Next() {
		var i Interaction
		if err := rows.Scan(&i.ID, &i.LeadID, &i.InteractionType, &i.Description,
			&i.ScoreDelta, &i.HighValue, &i.OccurredAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

type CreateFunnelProgressionParams struct {
	ID                      uuid.UUID
	LeadID                  uuid.UUID
	FromStage               string
	ToStage                 string
	Reason                  string
	EngagementScoreAtChange int32
	TriggerEvent            sql.NullString
}

func (q *Queries) CreateFunnelProgression(ctx context.Context, arg CreateFunnelProgressionParams) (FunnelProgression, error) {
	var p FunnelProgression
	err := q.db.QueryRowContext(ctx, `
		INSERT INTO funnel_progression_history
			(id, lead_id, from_stage, to_stage, reason, engagement_score_at_change, trigger_event)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, lead_id, from_stage, to_stage, reason, engagement_score_at_change, trigger_event, created_at`,
		arg.ID, arg.LeadID, arg.FromStage, arg.ToStage, arg.Reason,
		arg.EngagementScoreAtChange, arg.TriggerEvent).
		Scan(&p.ID, &p.LeadID, &p.FromStage, &p.ToStage, &p.Reason,
			&p.EngagementScoreAtChange, &p.TriggerEvent, &p.CreatedAt)
	return p, err
}

func (q *Queries) ListFunnelProgressionByLead(ctx context.Context, leadID uuid.UUID) ([]FunnelProgression, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, lead_id, from_stage, to_stage, reason, engagement_score_at_change, trigger_event, created_at
		FROM funnel_progression_history WHERE lead_id = $1 ORDER BY created_at ASC`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []FunnelProgression
	for rows.Next() {
		var p FunnelProgression
		if err := rows.Scan(&p.ID, &p.LeadID, &p.FromStage, &p.ToStage, &p.Reason,
			&p.EngagementScoreAtChange, &p.TriggerEvent, &p.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

type CreateAssignmentParams struct {
	ID     uuid.UUID
	LeadID uuid.UUID
	UserID uuid.UUID
}

func (q *Queries) CreateAssignment(ctx context.Context, arg CreateAssignmentParams) (LeadAssignment, error) {
	var a LeadAssignment
	err := q.db.QueryRowContext(ctx, `
		INSERT INTO lead_assignments (id, lead_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, lead_id, user_id, active, assigned_at, unassigned_at`,
		arg.ID, arg.LeadID, arg.UserID).
		Scan(&a.ID, &a.LeadID, &a.UserID, &a.Active, &a.AssignedAt, &a.UnassignedAt)
	return a, err
}

// DeactivateAssignments closes out any currently active assignment for the lead
func (q *Queries) DeactivateAssignments(ctx context.Context, leadID uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE lead_assignments
		SET active = false, unassigned_at = now()
		WHERE lead_id = $1 AND active = true`, leadID)
	return err
}

func (q *Queries) ListAssignmentsByLead(ctx context.Context, leadID uuid.UUID) ([]LeadAssignment, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, lead_id, user_id, active, assigned_at, unassigned_at
		FROM lead_assignments WHERE lead_id = $1 ORDER BY assigned_at DESC`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []LeadAssignment
	for rows.Next() {
		var a LeadAssignment
		if err := rows.Scan(&a.ID, &a.LeadID, &a.UserID, &a.Active, &a.AssignedAt, &a.UnassignedAt); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
