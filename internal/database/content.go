package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

const contentItemColumns = `id, content_type, title, description, image_name, ord, is_active, metadata, created_at, updated_at`

func scanContentItem(row interface{ Scan(...interface{}) error }) (ContentItem, error) {
	var c ContentItem
	err := row.Scan(&c.ID, &c.ContentType, &c.Title, &c.Description, &c.ImageName,
		&c.Ord, &c.IsActive, &c.Metadata, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

type CreateContentItemParams struct {
	ID          uuid.UUID
	ContentType string
	Title       string
	Description string
	ImageName   string
	Ord         int32
	IsActive    bool
	Metadata    []byte
}

func (q *Queries) CreateContentItem(ctx context.Context, arg CreateContentItemParams) (ContentItem, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO content_items (id, content_type, title, description, image_name, ord, is_active, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+contentItemColumns,
		arg.ID, arg.ContentType, arg.Title, arg.Description, arg.ImageName,
		arg.Ord, arg.IsActive, arg.Metadata)
	return scanContentItem(row)
}

func (q *Queries) GetContentItem(ctx context.Context, id uuid.UUID) (ContentItem, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+contentItemColumns+` FROM content_items WHERE id = $1`, id)
	return scanContentItem(row)
}

// ListContentItemsByType returns items of one type in creation order so that
// resolution tie-breaking is stable
func (q *Queries) ListContentItemsByType(ctx context.Context, contentType string) ([]ContentItem, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+contentItemColumns+` FROM content_items
		WHERE content_type = $1 ORDER BY created_at ASC, id ASC`, contentType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ContentItem
	for rows.Next() {
		c, err := scanContentItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (q *Queries) ListContentItems(ctx context.Context) ([]ContentItem, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+contentItemColumns+` FROM content_items ORDER BY content_type ASC, ord ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ContentItem
	for rows.Next() {
		c, err := scanContentItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

type UpdateContentItemParams struct {
	ID          uuid.UUID
	Title       string
	Description string
	ImageName   string
	Ord         int32
	IsActive    bool
	Metadata    []byte
}

func (q *Queries) UpdateContentItem(ctx context.Context, arg UpdateContentItemParams) (ContentItem, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE content_items
		SET title = $2, description = $3, image_name = $4, ord = $5,
		    is_active = $6, metadata = $7, updated_at = now()
		WHERE id = $1
		RETURNING `+contentItemColumns,
		arg.ID, arg.Title, arg.Description, arg.ImageName, arg.Ord, arg.IsActive, arg.Metadata)
	return scanContentItem(row)
}

// DeleteContentItem hard-deletes - cascades to visibility rows. Normal flow
// deactivates via UpdateContentItem instead.
func (q *Queries) DeleteContentItem(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM content_items WHERE id = $1`, id)
	return err
}

func (q *Queries) CountContentItems(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT count(*) FROM content_items`).Scan(&count)
	return count, err
}

const visibilityColumns = `id, content_item_id, persona, funnel_stage, is_visible, ord,
	title_override, description_override, image_name_override, created_at, updated_at`

func scanVisibility(row interface{ Scan(...interface{}) error }) (ContentVisibility, error) {
	var v ContentVisibility
	err := row.Scan(&v.ID, &v.ContentItemID, &v.Persona, &v.FunnelStage, &v.IsVisible,
		&v.Ord, &v.TitleOverride, &v.DescriptionOverride, &v.ImageNameOverride,
		&v.CreatedAt, &v.UpdatedAt)
	return v, err
}

type UpsertContentVisibilityParams struct {
	ID                  uuid.UUID
	ContentItemID       uuid.UUID
	Persona             sql.NullString
	FunnelStage         sql.NullString
	IsVisible           bool
	Ord                 sql.NullInt32
	TitleOverride       sql.NullString
	DescriptionOverride sql.NullString
	ImageNameOverride   sql.NullString
}

// UpsertContentVisibility inserts or replaces the one override row allowed
// per (item, persona, stage) cell
func (q *Queries) UpsertContentVisibility(ctx context.Context, arg UpsertContentVisibilityParams) (ContentVisibility, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO content_visibility
			(id, content_item_id, persona, funnel_stage, is_visible, ord,
			 title_override, description_override, image_name_override)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (content_item_id, COALESCE(persona, '*'), COALESCE(funnel_stage, '*'))
		DO UPDATE SET is_visible = EXCLUDED.is_visible, ord = EXCLUDED.ord,
			title_override = EXCLUDED.title_override,
			description_override = EXCLUDED.description_override,
			image_name_override = EXCLUDED.image_name_override,
			updated_at = now()
		RETURNING `+visibilityColumns,
		arg.ID, arg.ContentItemID, arg.Persona, arg.FunnelStage, arg.IsVisible,
		arg.Ord, arg.TitleOverride, arg.DescriptionOverride, arg.ImageNameOverride)
	return scanVisibility(row)
}

// ListVisibilityByType returns every override row attached to items of one
// content type - the resolver matches them to items in memory
func (q *Queries) ListVisibilityByType(ctx context.Context, contentType string) ([]ContentVisibility, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT v.id, v.content_item_id, v.persona, v.funnel_stage, v.is_visible, v.ord,
		       v.title_override, v.description_override, v.image_name_override,
		       v.created_at, v.updated_at
		FROM content_visibility v
		JOIN content_items c ON c.id = v.content_item_id
		WHERE c.content_type = $1`, contentType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ContentVisibility
	for rows.Next() {
		v, err := scanVisibility(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

func (q *Queries) ListVisibilityByContentItem(ctx context.Context, contentItemID uuid.UUID) ([]ContentVisibility, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+visibilityColumns+` FROM content_visibility
		WHERE content_item_id = $1`, contentItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ContentVisibility
	for rows.Next() {
		v, err := scanVisibility(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

func (q *Queries) DeleteContentVisibility(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM content_visibility WHERE id = $1`, id)
	return err
}
