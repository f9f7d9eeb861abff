package database

import "context"

// FactoryResetDatabase clears every table. TRUNCATE with CASCADE so the
// foreign keys don't get in the way; order doesn't matter.
func (q *Queries) FactoryResetDatabase(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, `
		TRUNCATE TABLE
			volunteer_hours, volunteers,
			funnel_progression_history, lead_assignments, interactions, tasks, leads,
			content_visibility, content_items,
			ab_tests, message_templates,
			sessions, users
		CASCADE`)
	return err
}
