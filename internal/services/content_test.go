package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/familybridge/crm-backend/internal/database"
	"github.com/familybridge/crm-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// test helpers for building items and override cells

func testItem(t models.ContentType, title string, order int) models.ContentItem {
	return models.ContentItem{
		ID:       uuid.New(),
		Type:     t,
		Title:    title,
		Order:    order,
		IsActive: true,
	}
}

func personaPtr(p models.Persona) *models.Persona       { return &p }
func stagePtr(s models.FunnelStage) *models.FunnelStage { return &s }
func intPtr(i int) *int                                 { return &i }
func strPtr(s string) *string                           { return &s }

func testOverride(itemID uuid.UUID, persona *models.Persona, stage *models.FunnelStage,
	visible bool) models.ContentVisibility {
	return models.ContentVisibility{
		ID:            uuid.New(),
		ContentItemID: itemID,
		Persona:       persona,
		FunnelStage:   stage,
		IsVisible:     visible,
	}
}

func TestResolveContentFullMatrixNeverFails(t *testing.T) {
	// every persona×stage cell for every content type must resolve without
	// blowing up, with or without overrides present
	types := []models.ContentType{
		models.ContentHero, models.ContentCTA, models.ContentService,
		models.ContentEvent, models.ContentTestimonial, models.ContentLeadMagnet,
		models.ContentProgramDetail, models.ContentVolunteerDashboard,
	}

	for _, ct := range types {
		items := []models.ContentItem{testItem(ct, "a", 1), testItem(ct, "b", 2)}
		overrides := []models.ContentVisibility{
			testOverride(items[0].ID, personaPtr(models.PersonaParent), nil, true),
		}
		for _, p := range models.AllPersonas {
			for _, s := range models.AllFunnelStages {
				assert.NotPanics(t, func() {
					ResolveContent(items, overrides, p, s)
				}, "type=%s persona=%s stage=%s", ct, p, s)
			}
		}
	}
}

func TestResolveContentUnknownPersonaFailsOpen(t *testing.T) {
	// a persona outside the closed set never matches a defaults cell, so
	// hero content still renders rather than leaving the page blank
	items := []models.ContentItem{testItem(models.ContentHero, "welcome", 1)}

	got := ResolveContent(items, nil, models.Persona("martian"), models.StageAwareness)
	require.Len(t, got, 1)
	assert.Equal(t, "welcome", got[0].Title)
}

func TestResolveContentOverridePrecedence(t *testing.T) {
	// most specific override wins: exact > persona wildcard > stage wildcard > global
	item := testItem(models.ContentCTA, "join us", 10)
	items := []models.ContentItem{item}

	parent := models.PersonaParent
	decision := models.StageDecision

	global := testOverride(item.ID, nil, nil, true)
	global.TitleOverride = strPtr("global")
	stageOnly := testOverride(item.ID, nil, &decision, true)
	stageOnly.TitleOverride = strPtr("stage")
	personaOnly := testOverride(item.ID, &parent, nil, true)
	personaOnly.TitleOverride = strPtr("persona")
	exact := testOverride(item.ID, &parent, &decision, true)
	exact.TitleOverride = strPtr("exact")

	tests := []struct {
		name      string
		overrides []models.ContentVisibility
		want      string
	}{
		{"exact beats everything", []models.ContentVisibility{global, stageOnly, personaOnly, exact}, "exact"},
		{"persona beats stage", []models.ContentVisibility{global, stageOnly, personaOnly}, "persona"},
		{"stage beats global", []models.ContentVisibility{global, stageOnly}, "stage"},
		{"global as last resort", []models.ContentVisibility{global}, "global"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveContent(items, tt.overrides, parent, decision)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Title)
		})
	}
}

func TestResolveContentInvisibleOverrideSuppresses(t *testing.T) {
	item := testItem(models.ContentCTA, "join us", 10)
	hide := testOverride(item.ID, personaPtr(models.PersonaDonor), nil, false)

	// hidden for donors, still there for parents
	gone := ResolveContent([]models.ContentItem{item}, []models.ContentVisibility{hide},
		models.PersonaDonor, models.StageAwareness)
	assert.Empty(t, gone)

	there := ResolveContent([]models.ContentItem{item}, []models.ContentVisibility{hide},
		models.PersonaParent, models.StageAwareness)
	assert.Len(t, there, 1)
}

func TestResolveContentOverrideBeatsStaticDefault(t *testing.T) {
	// lead magnets default to hidden at decision stage; an override flips that
	item := testItem(models.ContentLeadMagnet, "free guide", 5)

	none := ResolveContent([]models.ContentItem{item}, nil,
		models.PersonaParent, models.StageDecision)
	assert.Empty(t, none, "static default should hide lead magnets at decision")

	show := testOverride(item.ID, personaPtr(models.PersonaParent), stagePtr(models.StageDecision), true)
	got := ResolveContent([]models.ContentItem{item}, []models.ContentVisibility{show},
		models.PersonaParent, models.StageDecision)
	assert.Len(t, got, 1)
}

func TestResolveContentInactiveItemsSkipped(t *testing.T) {
	active := testItem(models.ContentCTA, "live", 1)
	inactive := testItem(models.ContentCTA, "retired", 2)
	inactive.IsActive = false

	got := ResolveContent([]models.ContentItem{active, inactive}, nil,
		models.PersonaParent, models.StageAwareness)
	require.Len(t, got, 1)
	assert.Equal(t, "live", got[0].Title)
}

func TestResolveContentOrdering(t *testing.T) {
	// heroes keep per-item order (no defaults table entry); override order
	// beats the item's own, and ties break by creation order
	first := testItem(models.ContentHero, "first", 3)
	second := testItem(models.ContentHero, "second", 1)
	third := testItem(models.ContentHero, "third", 3) // ties with first, created later

	bump := testOverride(second.ID, nil, nil, true)
	bump.Order = intPtr(9)

	got := ResolveContent(
		[]models.ContentItem{first, second, third},
		[]models.ContentVisibility{bump},
		models.PersonaStudent, models.StageAwareness)

	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Title)  // order 3, created before third
	assert.Equal(t, "third", got[1].Title)  // order 3
	assert.Equal(t, "second", got[2].Title) // override pushed it to 9
}

func TestResolveContentTextOverrides(t *testing.T) {
	item := testItem(models.ContentCTA, "original", 1)
	item.Description = "original body"
	item.ImageName = "original.png"

	ov := testOverride(item.ID, personaPtr(models.PersonaDonor), nil, true)
	ov.TitleOverride = strPtr("give today")
	ov.ImageNameOverride = strPtr("donate.png")

	got := ResolveContent([]models.ContentItem{item}, []models.ContentVisibility{ov},
		models.PersonaDonor, models.StageAwareness)
	require.Len(t, got, 1)
	assert.Equal(t, "give today", got[0].Title)
	assert.Equal(t, "original body", got[0].Description) // untouched fields carry through
	assert.Equal(t, "donate.png", got[0].ImageName)
}

func TestStaticDefaultsScoping(t *testing.T) {
	tests := []struct {
		name    string
		item    models.ContentItem
		persona models.Persona
		stage   models.FunnelStage
		visible bool
	}{
		{"cta shows everywhere", testItem(models.ContentCTA, "x", 1), models.PersonaStudent, models.StageAwareness, true},
		{"service hidden at awareness", testItem(models.ContentService, "x", 1), models.PersonaParent, models.StageAwareness, false},
		{"service shows at consideration", testItem(models.ContentService, "x", 1), models.PersonaParent, models.StageConsideration, true},
		{"lead magnet hidden at retention", testItem(models.ContentLeadMagnet, "x", 1), models.PersonaParent, models.StageRetention, false},
		{"no lead magnets for providers", testItem(models.ContentLeadMagnet, "x", 1), models.PersonaProvider, models.StageAwareness, false},
		{"program detail early for donors", testItem(models.ContentProgramDetail, "x", 1), models.PersonaDonor, models.StageAwareness, true},
		{"program detail late for parents", testItem(models.ContentProgramDetail, "x", 1), models.PersonaParent, models.StageAwareness, false},
		{"volunteer dashboard for volunteers", testItem(models.ContentVolunteerDashboard, "x", 1), models.PersonaVolunteer, models.StageRetention, true},
		{"volunteer dashboard hidden for others", testItem(models.ContentVolunteerDashboard, "x", 1), models.PersonaParent, models.StageRetention, false},
		{"events show uniformly", testItem(models.ContentEvent, "x", 1), models.PersonaStudent, models.StageAwareness, true},
		{"testimonials show uniformly", testItem(models.ContentTestimonial, "x", 1), models.PersonaDonor, models.StageRetention, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveContent([]models.ContentItem{tt.item}, nil, tt.persona, tt.stage)
			if tt.visible {
				assert.Len(t, got, 1)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

// fakeContentStore backs the service with in-memory slices so the end-to-end
// resolution path can run without postgres
type fakeContentStore struct {
	items      []database.ContentItem
	visibility []database.ContentVisibility
}

func (f *fakeContentStore) CreateContentItem(ctx context.Context, arg database.CreateContentItemParams) (database.ContentItem, error) {
	row := database.ContentItem{
		ID:          arg.ID,
		ContentType: arg.ContentType,
		Title:       arg.Title,
		Description: arg.Description,
		ImageName:   arg.ImageName,
		Ord:         arg.Ord,
		IsActive:    arg.IsActive,
		Metadata:    arg.Metadata,
	}
	f.items = append(f.items, row)
	return row, nil
}

func (f *fakeContentStore) GetContentItem(ctx context.Context, id uuid.UUID) (database.ContentItem, error) {
	for _, it := range f.items {
		if it.ID == id {
			return it, nil
		}
	}
	return database.ContentItem{}, fmt.Errorf("not found")
}

func (f *fakeContentStore) ListContentItems(ctx context.Context) ([]database.ContentItem, error) {
	return f.items, nil
}

func (f *fakeContentStore) ListContentItemsByType(ctx context.Context, contentType string) ([]database.ContentItem, error) {
	var out []database.ContentItem
	for _, it := range f.items {
		if it.ContentType == contentType {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeContentStore) UpdateContentItem(ctx context.Context, arg database.UpdateContentItemParams) (database.ContentItem, error) {
	for i := range f.items {
		if f.items[i].ID == arg.ID {
			f.items[i].Title = arg.Title
			f.items[i].Description = arg.Description
			f.items[i].ImageName = arg.ImageName
			f.items[i].Ord = arg.Ord
			f.items[i].IsActive = arg.IsActive
			f.items[i].Metadata = arg.Metadata
			return f.items[i], nil
		}
	}
	return database.ContentItem{}, fmt.Errorf("not found")
}

func (f *fakeContentStore) DeleteContentItem(ctx context.Context, id uuid.UUID) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("not found")
}

func (f *fakeContentStore) UpsertContentVisibility(ctx context.Context, arg database.UpsertContentVisibilityParams) (database.ContentVisibility, error) {
	row := database.ContentVisibility{
		ID:                  arg.ID,
		ContentItemID:       arg.ContentItemID,
		Persona:             arg.Persona,
		FunnelStage:         arg.FunnelStage,
		IsVisible:           arg.IsVisible,
		Ord:                 arg.Ord,
		TitleOverride:       arg.TitleOverride,
		DescriptionOverride: arg.DescriptionOverride,
		ImageNameOverride:   arg.ImageNameOverride,
	}
	f.visibility = append(f.visibility, row)
	return row, nil
}

func (f *fakeContentStore) ListVisibilityByType(ctx context.Context, contentType string) ([]database.ContentVisibility, error) {
	byID := make(map[uuid.UUID]bool)
	for _, it := range f.items {
		if it.ContentType == contentType {
			byID[it.ID] = true
		}
	}
	var out []database.ContentVisibility
	for _, v := range f.visibility {
		if byID[v.ContentItemID] {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeContentStore) ListVisibilityByContentItem(ctx context.Context, contentItemID uuid.UUID) ([]database.ContentVisibility, error) {
	var out []database.ContentVisibility
	for _, v := range f.visibility {
		if v.ContentItemID == contentItemID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeContentStore) DeleteContentVisibility(ctx context.Context, id uuid.UUID) error {
	for i := range f.visibility {
		if f.visibility[i].ID == id {
			f.visibility = append(f.visibility[:i], f.visibility[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("not found")
}

func TestGetVisibleContentEndToEnd(t *testing.T) {
	ctx := context.Background()
	svc := NewContentService(&fakeContentStore{})

	hero, err := svc.CreateContentItem(ctx, models.CreateContentItemInput{
		Type:  models.ContentHero,
		Title: "Learning together",
		Order: 1,
	})
	require.NoError(t, err)

	_, err = svc.CreateContentItem(ctx, models.CreateContentItemInput{
		Type:  models.ContentHero,
		Title: "Volunteer with us",
		Order: 2,
	})
	require.NoError(t, err)

	// every valid cell gets at least the fail-open heroes
	for _, p := range models.AllPersonas {
		for _, s := range models.AllFunnelStages {
			got, err := svc.GetVisibleContent(ctx, models.ContentHero, p, s)
			require.NoError(t, err)
			assert.Len(t, got, 2, "persona=%s stage=%s", p, s)
		}
	}

	// hide the first hero for students and confirm only they lose it
	_, err = svc.UpsertVisibility(ctx, models.UpsertContentVisibilityInput{
		ContentItemID: hero.ID,
		Persona:       personaPtr(models.PersonaStudent),
		IsVisible:     false,
	})
	require.NoError(t, err)

	students, err := svc.GetVisibleContent(ctx, models.ContentHero, models.PersonaStudent, models.StageAwareness)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Volunteer with us", students[0].Title)

	parents, err := svc.GetVisibleContent(ctx, models.ContentHero, models.PersonaParent, models.StageAwareness)
	require.NoError(t, err)
	assert.Len(t, parents, 2)
}

func TestGetVisibleContentRejectsUnknownType(t *testing.T) {
	svc := NewContentService(&fakeContentStore{})
	_, err := svc.GetVisibleContent(context.Background(), "banner", models.PersonaParent, models.StageAwareness)
	assert.Error(t, err)
}

func TestUpsertVisibilityValidation(t *testing.T) {
	svc := NewContentService(&fakeContentStore{})
	ctx := context.Background()

	_, err := svc.UpsertVisibility(ctx, models.UpsertContentVisibilityInput{})
	assert.Error(t, err, "missing content item ID")

	bad := models.Persona("alien")
	_, err = svc.UpsertVisibility(ctx, models.UpsertContentVisibilityInput{
		ContentItemID: uuid.New(),
		Persona:       &bad,
	})
	assert.Error(t, err, "unknown persona")
}
