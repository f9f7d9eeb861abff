package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/familybridge/crm-backend/internal/database"
	"github.com/familybridge/crm-backend/internal/models"
	"github.com/google/uuid"
)

// ErrUnknownContentType marks requests for a content type outside the closed
// set. Handlers check for it to separate caller mistakes from store failures.
var ErrUnknownContentType = errors.New("unknown content type")

// ContentStore is the slice of the database layer the content service needs.
// *database.Queries satisfies it; tests substitute an in-memory store.
type ContentStore interface {
	CreateContentItem(ctx context.Context, arg database.CreateContentItemParams) (database.ContentItem, error)
	GetContentItem(ctx context.Context, id uuid.UUID) (database.ContentItem, error)
	ListContentItems(ctx context.Context) ([]database.ContentItem, error)
	ListContentItemsByType(ctx context.Context, contentType string) ([]database.ContentItem, error)
	UpdateContentItem(ctx context.Context, arg database.UpdateContentItemParams) (database.ContentItem, error)
	DeleteContentItem(ctx context.Context, id uuid.UUID) error
	UpsertContentVisibility(ctx context.Context, arg database.UpsertContentVisibilityParams) (database.ContentVisibility, error)
	ListVisibilityByType(ctx context.Context, contentType string) ([]database.ContentVisibility, error)
	ListVisibilityByContentItem(ctx context.Context, contentItemID uuid.UUID) ([]database.ContentVisibility, error)
	DeleteContentVisibility(ctx context.Context, id uuid.UUID) error
}

// ContentService handles content CRUD and the visibility resolution engine
type ContentService struct {
	DB ContentStore // database access
}

// NewContentService creates service with db dependency
func NewContentService(db ContentStore) *ContentService {
	return &ContentService{DB: db}
}

// lookupKey is one step in the override precedence chain. Nil persona/stage
// means the wildcard column value.
type lookupKey struct {
	Persona     *models.Persona
	FunnelStage *models.FunnelStage
}

// precedenceChain returns the override lookup keys most-specific first:
// exact cell, persona row, stage column, then the global wildcard. Kept as
// an explicit ordered list so the precedence stays auditable.
func precedenceChain(persona models.Persona, stage models.FunnelStage) []lookupKey {
	return []lookupKey{
		{Persona: &persona, FunnelStage: &stage},
		{Persona: &persona, FunnelStage: nil},
		{Persona: nil, FunnelStage: &stage},
		{Persona: nil, FunnelStage: nil},
	}
}

// matches reports whether an override row occupies exactly this lookup cell
func (k lookupKey) matches(v models.ContentVisibility) bool {
	if (k.Persona == nil) != (v.Persona == nil) {
		return false
	}
	if k.Persona != nil && *k.Persona != *v.Persona {
		return false
	}
	if (k.FunnelStage == nil) != (v.FunnelStage == nil) {
		return false
	}
	if k.FunnelStage != nil && *k.FunnelStage != *v.FunnelStage {
		return false
	}
	return true
}

// findOverride walks the precedence chain and returns the first matching
// override row for the item, or nil when no row applies
func findOverride(overrides []models.ContentVisibility, itemID uuid.UUID,
	persona models.Persona, stage models.FunnelStage) *models.ContentVisibility {

	for _, key := range precedenceChain(persona, stage) {
		for i := range overrides {
			if overrides[i].ContentItemID != itemID {
				continue
			}
			if key.matches(overrides[i]) {
				return &overrides[i]
			}
		}
	}
	return nil
}

// ResolveContent merges static defaults with database overrides and returns
// the ordered, filtered list of content to show a (persona, stage) visitor.
// Items must be in creation order - that order breaks ties. Pure function,
// no database access.
func ResolveContent(items []models.ContentItem, overrides []models.ContentVisibility,
	persona models.Persona, stage models.FunnelStage) []models.ResolvedContent {

	type candidate struct {
		resolved models.ResolvedContent
		order    int
		insertAt int // creation-order index, tie break
	}

	var visible []candidate
	for i, item := range items {
		if !item.IsActive {
			continue
		}

		override := findOverride(overrides, item.ID, persona, stage)

		// effective visibility: override > static default > fail open
		isVisible := true
		effectiveOrder := item.Order
		if def, ok := lookupDefault(item.Type, persona, stage); ok {
			isVisible = def.Visible
			effectiveOrder = def.Order
		}
		if override != nil {
			isVisible = override.IsVisible
			if override.Order != nil {
				effectiveOrder = *override.Order
			}
		}
		if !isVisible {
			continue
		}

		resolved := models.ResolvedContent{
			ID:          item.ID,
			Type:        item.Type,
			Title:       item.Title,
			Description: item.Description,
			ImageName:   item.ImageName,
			Order:       effectiveOrder,
			Metadata:    item.Metadata,
		}
		if override != nil {
			if override.TitleOverride != nil {
				resolved.Title = *override.TitleOverride
			}
			if override.DescriptionOverride != nil {
				resolved.Description = *override.DescriptionOverride
			}
			if override.ImageNameOverride != nil {
				resolved.ImageName = *override.ImageNameOverride
			}
		}

		visible = append(visible, candidate{resolved: resolved, order: effectiveOrder, insertAt: i})
	}

	sort.SliceStable(visible, func(a, b int) bool {
		if visible[a].order != visible[b].order {
			return visible[a].order < visible[b].order
		}
		return visible[a].insertAt < visible[b].insertAt
	})

	out := make([]models.ResolvedContent, len(visible))
	for i, c := range visible {
		out[i] = c.resolved
	}
	return out
}

// GetVisibleContent resolves what a visitor should see for one content type.
// Unknown persona/stage values are passed through - they simply never match
// an exact cell, so wildcards and fail-open defaults decide.
func (s *ContentService) GetVisibleContent(ctx context.Context, contentType models.ContentType,
	persona models.Persona, stage models.FunnelStage) ([]models.ResolvedContent, error) {

	if !contentType.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownContentType, contentType)
	}

	dbItems, err := s.DB.ListContentItemsByType(ctx, string(contentType))
	if err != nil {
		return nil, fmt.Errorf("failed to load content items: %w", err)
	}

	dbOverrides, err := s.DB.ListVisibilityByType(ctx, string(contentType))
	if err != nil {
		return nil, fmt.Errorf("failed to load visibility overrides: %w", err)
	}

	items := make([]models.ContentItem, len(dbItems))
	for i, it := range dbItems {
		items[i] = contentItemFromDB(it)
	}
	overrides := make([]models.ContentVisibility, len(dbOverrides))
	for i, v := range dbOverrides {
		overrides[i] = visibilityFromDB(v)
	}

	return ResolveContent(items, overrides, persona, stage), nil
}

// CreateContentItem makes a new content item with validation
func (s *ContentService) CreateContentItem(ctx context.Context, input models.CreateContentItemInput) (models.ContentItem, error) {
	if !input.Type.IsValid() {
		return models.ContentItem{}, fmt.Errorf("%w: %s", ErrUnknownContentType, input.Type)
	}
	if strings.TrimSpace(input.Title) == "" {
		return models.ContentItem{}, errors.New("content title cannot be empty")
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	created, err := s.DB.CreateContentItem(ctx, database.CreateContentItemParams{
		ID:          uuid.New(),
		ContentType: string(input.Type),
		Title:       input.Title,
		Description: input.Description,
		ImageName:   input.ImageName,
		Ord:         int32(input.Order),
		IsActive:    isActive,
		Metadata:    input.Metadata,
	})
	if err != nil {
		log.Printf("Error creating content item: %v", err)
		return models.ContentItem{}, fmt.Errorf("failed to create content item: %w", err)
	}

	return contentItemFromDB(created), nil
}

// GetContentItem retrieves one item by ID
func (s *ContentService) GetContentItem(ctx context.Context, id uuid.UUID) (models.ContentItem, error) {
	item, err := s.DB.GetContentItem(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ContentItem{}, fmt.Errorf("content item not found: %w", err)
		}
		return models.ContentItem{}, fmt.Errorf("failed to get content item: %w", err)
	}
	return contentItemFromDB(item), nil
}

// ListContentItems returns every item, active or not, for the admin grid
func (s *ContentService) ListContentItems(ctx context.Context) ([]models.ContentItem, error) {
	dbItems, err := s.DB.ListContentItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list content items: %w", err)
	}

	items := make([]models.ContentItem, len(dbItems))
	for i, it := range dbItems {
		items[i] = contentItemFromDB(it)
	}
	return items, nil
}

// UpdateContentItem applies a partial edit. Soft deactivation happens here
// via IsActive - items are never hard-deleted by the edit flow.
func (s *ContentService) UpdateContentItem(ctx context.Context, id uuid.UUID, input models.UpdateContentItemInput) (models.ContentItem, error) {
	current, err := s.DB.GetContentItem(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ContentItem{}, fmt.Errorf("content item not found: %w", err)
		}
		return models.ContentItem{}, fmt.Errorf("failed to load content item: %w", err)
	}

	// overlay only the fields the caller sent
	params := database.UpdateContentItemParams{
		ID:          id,
		Title:       current.Title,
		Description: current.Description,
		ImageName:   current.ImageName,
		Ord:         current.Ord,
		IsActive:    current.IsActive,
		Metadata:    current.Metadata,
	}
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return models.ContentItem{}, errors.New("content title cannot be empty")
		}
		params.Title = *input.Title
	}
	if input.Description != nil {
		params.Description = *input.Description
	}
	if input.ImageName != nil {
		params.ImageName = *input.ImageName
	}
	if input.Order != nil {
		params.Ord = int32(*input.Order)
	}
	if input.IsActive != nil {
		params.IsActive = *input.IsActive
	}
	if input.Metadata != nil {
		params.Metadata = input.Metadata
	}

	updated, err := s.DB.UpdateContentItem(ctx, params)
	if err != nil {
		log.Printf("Error updating content item: %v", err)
		return models.ContentItem{}, fmt.Errorf("failed to update content item: %w", err)
	}
	return contentItemFromDB(updated), nil
}

// DeleteContentItem hard-deletes an item; visibility rows cascade away
func (s *ContentService) DeleteContentItem(ctx context.Context, id uuid.UUID) error {
	if err := s.DB.DeleteContentItem(ctx, id); err != nil {
		return fmt.Errorf("failed to delete content item: %w", err)
	}
	return nil
}

// UpsertVisibility writes one override cell for an item
func (s *ContentService) UpsertVisibility(ctx context.Context, input models.UpsertContentVisibilityInput) (models.ContentVisibility, error) {
	if input.ContentItemID == uuid.Nil {
		return models.ContentVisibility{}, errors.New("content item ID is required")
	}
	if input.Persona != nil && !input.Persona.IsValid() {
		return models.ContentVisibility{}, fmt.Errorf("unknown persona: %s", *input.Persona)
	}
	if input.FunnelStage != nil && !input.FunnelStage.IsValid() {
		return models.ContentVisibility{}, fmt.Errorf("unknown funnel stage: %s", *input.FunnelStage)
	}

	params := database.UpsertContentVisibilityParams{
		ID:            uuid.New(),
		ContentItemID: input.ContentItemID,
		IsVisible:     input.IsVisible,
	}
	if input.Persona != nil {
		params.Persona = sql.NullString{String: string(*input.Persona), Valid: true}
	}
	if input.FunnelStage != nil {
		params.FunnelStage = sql.NullString{String: string(*input.FunnelStage), Valid: true}
	}
	if input.Order != nil {
		params.Ord = sql.NullInt32{Int32: int32(*input.Order), Valid: true}
	}
	if input.TitleOverride != nil {
		params.TitleOverride = sql.NullString{String: *input.TitleOverride, Valid: true}
	}
	if input.DescriptionOverride != nil {
		params.DescriptionOverride = sql.NullString{String: *input.DescriptionOverride, Valid: true}
	}
	if input.ImageNameOverride != nil {
		params.ImageNameOverride = sql.NullString{String: *input.ImageNameOverride, Valid: true}
	}

	row, err := s.DB.UpsertContentVisibility(ctx, params)
	if err != nil {
		log.Printf("Error upserting content visibility: %v", err)
		return models.ContentVisibility{}, fmt.Errorf("failed to save visibility override: %w", err)
	}
	return visibilityFromDB(row), nil
}

// ListVisibility returns every override cell for one item (admin matrix view)
func (s *ContentService) ListVisibility(ctx context.Context, contentItemID uuid.UUID) ([]models.ContentVisibility, error) {
	rows, err := s.DB.ListVisibilityByContentItem(ctx, contentItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list visibility overrides: %w", err)
	}
	out := make([]models.ContentVisibility, len(rows))
	for i, v := range rows {
		out[i] = visibilityFromDB(v)
	}
	return out, nil
}

// DeleteVisibility removes one override cell
func (s *ContentService) DeleteVisibility(ctx context.Context, id uuid.UUID) error {
	if err := s.DB.DeleteContentVisibility(ctx, id); err != nil {
		return fmt.Errorf("failed to delete visibility override: %w", err)
	}
	return nil
}

// convert db rows to app models

func contentItemFromDB(c database.ContentItem) models.ContentItem {
	return models.ContentItem{
		ID:          c.ID,
		Type:        models.ContentType(c.ContentType),
		Title:       c.Title,
		Description: c.Description,
		ImageName:   c.ImageName,
		Order:       int(c.Ord),
		IsActive:    c.IsActive,
		Metadata:    c.Metadata,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func visibilityFromDB(v database.ContentVisibility) models.ContentVisibility {
	out := models.ContentVisibility{
		ID:            v.ID,
		ContentItemID: v.ContentItemID,
		IsVisible:     v.IsVisible,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
	if v.Persona.Valid {
		p := models.Persona(v.Persona.String)
		out.Persona = &p
	}
	if v.FunnelStage.Valid {
		s := models.FunnelStage(v.FunnelStage.String)
		out.FunnelStage = &s
	}
	if v.Ord.Valid {
		o := int(v.Ord.Int32)
		out.Order = &o
	}
	if v.TitleOverride.Valid {
		t := v.TitleOverride.String
		out.TitleOverride = &t
	}
	if v.DescriptionOverride.Valid {
		d := v.DescriptionOverride.String
		out.DescriptionOverride = &d
	}
	if v.ImageNameOverride.Valid {
		n := v.ImageNameOverride.String
		out.ImageNameOverride = &n
	}
	return out
}
