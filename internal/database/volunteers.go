package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

const volunteerColumns = `id, lead_id, name, email, program, status, start_date, created_at, updated_at`

func scanVolunteer(row interface{ Scan(...interface{}) error }) (Volunteer, error) {
	var v Volunteer
	err := row.Scan(&v.ID, &v.LeadID, &v.Name, &v.Email, &v.Program, &v.Status,
		&v.StartDate, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

type CreateVolunteerParams struct {
	ID      uuid.UUID
	LeadID  uuid.NullUUID
	Name    string
	Email   string
	Program string
}

func (q *Queries) CreateVolunteer(ctx context.Context, arg CreateVolunteerParams) (Volunteer, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO volunteers (id, lead_id, name, email, program)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+volunteerColumns,
		arg.ID, arg.LeadID, arg.Name, arg.Email, arg.Program)
	return scanVolunteer(row)
}

func (q *Queries) GetVolunteer(ctx context.Context, id uuid.UUID) (Volunteer, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+volunteerColumns+` FROM volunteers WHERE id = $1`, id)
	return scanVolunteer(row)
}

func (q *Queries) ListVolunteers(ctx context.Context, status sql.NullString) ([]Volunteer, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+volunteerColumns+` FROM volunteers
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var volunteers []Volunteer
	for rows.Next() {
		v, err := scanVolunteer(rows)
		if err != nil {
			return nil, err
		}
		volunteers = append(volunteers, v)
	}
	return volunteers, rows.Err()
}

type UpdateVolunteerParams struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Program   string
	Status    string
	StartDate sql.NullTime
}

func (q *Queries) UpdateVolunteer(ctx context.Context, arg UpdateVolunteerParams) (Volunteer, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE volunteers
		SET name = $2, email = $3, program = $4, status = $5, start_date = $6, updated_at = now()
		WHERE id = $1
		RETURNING `+volunteerColumns,
		arg.ID, arg.Name, arg.Email, arg.Program, arg.Status, arg.StartDate)
	return scanVolunteer(row)
}

type CreateVolunteerHoursParams struct {
	ID          uuid.UUID
	VolunteerID uuid.UUID
	Hours       float64
	Activity    string
	LoggedOn    sql.NullTime
}

func (q *Queries) CreateVolunteerHours(ctx context.Context, arg CreateVolunteerHoursParams) (VolunteerHours, error) {
	var h VolunteerHours
	err := q.db.QueryRowContext(ctx, `
		INSERT INTO volunteer_hours (id, volunteer_id, hours, activity, logged_on)
		VALUES ($1, $2, $3, $4, COALESCE($5, now()))
		RETURNING id, volunteer_id, hours, activity, logged_on, created_at`,
		arg.ID, arg.VolunteerID, arg.Hours, arg.Activity, arg.LoggedOn).
		Scan(&h.ID, &h.VolunteerID, &h.Hours, &h.Activity, &h.LoggedOn, &h.CreatedAt)
	return h, err
}

func (q *Queries) ListVolunteerHours(ctx context.Context, volunteerID uuid.UUID) ([]VolunteerHours, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, volunteer_id, hours, activity, logged_on, created_at
		FROM volunteer_hours WHERE volunteer_id = $1 ORDER BY logged_on DESC`, volunteerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []VolunteerHours
	for rows.Next() {
		var h VolunteerHours
		if err := rows.Scan(&h.ID, &h.VolunteerID, &h.Hours, &h.Activity, &h.LoggedOn, &h.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, h)
	}
	return entries, rows.Err()
}

func (q *Queries) SumVolunteerHours(ctx context.Context, volunteerID uuid.UUID) (float64, error) {
	var total float64
	err := q.db.QueryRowContext(ctx,
		`SELECT COALESCE(sum(hours), 0) FROM volunteer_hours WHERE volunteer_id = $1`, volunteerID).
		Scan(&total)
	return total, err
}

func (q *Queries) CountVolunteers(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT count(*) FROM volunteers`).Scan(&count)
	return count, err
}
