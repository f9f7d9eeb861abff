package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

const abTestColumns = `id, name, description, content_type, status,
	control_content_id, variant_content_id,
	control_visitors, control_conversions, variant_visitors, variant_conversions,
	winner, started_at, completed_at, created_at, updated_at`

func scanABTest(row interface{ Scan(...interface{}) error }) (ABTest, error) {
	var t ABTest
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.ContentType, &t.Status,
		&t.ControlContentID, &t.VariantContentID,
		&t.ControlVisitors, &t.ControlConversions, &t.VariantVisitors, &t.VariantConversions,
		&t.Winner, &t.StartedAt, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

type CreateABTestParams struct {
	ID               uuid.UUID
	Name             string
	Description      string
	ContentType      string
	ControlContentID uuid.NullUUID
	VariantContentID uuid.NullUUID
}

func (q *Queries) CreateABTest(ctx context.Context, arg CreateABTestParams) (ABTest, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO ab_tests (id, name, description, content_type, control_content_id, variant_content_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+abTestColumns,
		arg.ID, arg.Name, arg.Description, arg.ContentType, arg.ControlContentID, arg.VariantContentID)
	return scanABTest(row)
}

func (q *Queries) GetABTest(ctx context.Context, id uuid.UUID) (ABTest, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+abTestColumns+` FROM ab_tests WHERE id = $1`, id)
	return scanABTest(row)
}

func (q *Queries) ListABTests(ctx context.Context) ([]ABTest, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+abTestColumns+` FROM ab_tests ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tests []ABTest
	for rows.Next() {
		t, err := scanABTest(rows)
		if err != nil {
			return nil, err
		}
		tests = append(tests, t)
	}
	return tests, rows.Err()
}

type UpdateABTestStatusParams struct {
	ID     uuid.UUID
	Status string
}

// UpdateABTestStatus also stamps started_at / completed_at on the matching transitions
func (q *Queries) UpdateABTestStatus(ctx context.Context, arg UpdateABTestStatusParams) (ABTest, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE ab_tests
		SET status = $2,
		    started_at = CASE WHEN $2 = 'running' AND started_at IS NULL THEN now() ELSE started_at END,
		    completed_at = CASE WHEN $2 = 'completed' THEN now() ELSE completed_at END,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+abTestColumns,
		arg.ID, arg.Status)
	return scanABTest(row)
}

type RecordABTestEventParams struct {
	ID         uuid.UUID
	Arm        string
	Conversion bool
}

// RecordABTestEvent bumps the visitor counter for the arm, plus the
// conversion counter when the event converted
func (q *Queries) RecordABTestEvent(ctx context.Context, arg RecordABTestEventParams) (ABTest, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE ab_tests
		SET control_visitors = control_visitors + CASE WHEN $2 = 'control' THEN 1 ELSE 0 END,
		    control_conversions = control_conversions + CASE WHEN $2 = 'control' AND $3 THEN 1 ELSE 0 END,
		    variant_visitors = variant_visitors + CASE WHEN $2 = 'variant' THEN 1 ELSE 0 END,
		    variant_conversions = variant_conversions + CASE WHEN $2 = 'variant' AND $3 THEN 1 ELSE 0 END,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+abTestColumns,
		arg.ID, arg.Arm, arg.Conversion)
	return scanABTest(row)
}

type SetABTestWinnerParams struct {
	ID     uuid.UUID
	Winner sql.NullString
}

func (q *Queries) SetABTestWinner(ctx context.Context, arg SetABTestWinnerParams) (ABTest, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE ab_tests SET winner = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+abTestColumns,
		arg.ID, arg.Winner)
	return scanABTest(row)
}

func (q *Queries) DeleteABTest(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM ab_tests WHERE id = $1`, id)
	return err
}

func (q *Queries) CountABTests(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT count(*) FROM ab_tests`).Scan(&count)
	return count, err
}
