package services

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/familybridge/crm-backend/internal/database"
	"github.com/familybridge/crm-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageForScore(t *testing.T) {
	tests := []struct {
		score int
		want  models.FunnelStage
	}{
		{0, models.StageAwareness},
		{19, models.StageAwareness},
		{20, models.StageConsideration},
		{49, models.StageConsideration},
		{50, models.StageDecision},
		{79, models.StageDecision},
		{80, models.StageRetention},
		{500, models.StageRetention},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, stageForScore(tt.score), "score %d", tt.score)
	}
}

func TestPlanProgressionSingleStep(t *testing.T) {
	steps := planProgression(models.StageAwareness, 25)
	require.Len(t, steps, 1)
	assert.Equal(t, models.StageAwareness, steps[0].From)
	assert.Equal(t, models.StageConsideration, steps[0].To)
}

func TestPlanProgressionMultipleSteps(t *testing.T) {
	// a big score jump still records every intermediate transition
	steps := planProgression(models.StageAwareness, 85)
	require.Len(t, steps, 3)
	assert.Equal(t, models.StageAwareness, steps[0].From)
	assert.Equal(t, models.StageConsideration, steps[0].To)
	assert.Equal(t, models.StageConsideration, steps[1].From)
	assert.Equal(t, models.StageDecision, steps[1].To)
	assert.Equal(t, models.StageDecision, steps[2].From)
	assert.Equal(t, models.StageRetention, steps[2].To)
}

func TestPlanProgressionNeverRegresses(t *testing.T) {
	// dropping scores plan nothing - regression only happens via manual override
	assert.Nil(t, planProgression(models.StageRetention, 0))
	assert.Nil(t, planProgression(models.StageDecision, 25))
	assert.Nil(t, planProgression(models.StageConsideration, 5))
}

func TestPlanProgressionNoOpAtThresholdAlreadyMet(t *testing.T) {
	assert.Nil(t, planProgression(models.StageConsideration, 20))
	assert.Nil(t, planProgression(models.StageRetention, 100))
}

func TestPlanProgressionUnknownStage(t *testing.T) {
	// corrupt data shouldn't plan anything
	assert.Nil(t, planProgression(models.FunnelStage("limbo"), 90))
}

func TestPlanProgressionChainIsContiguous(t *testing.T) {
	// property: the steps always chain From->To with no gaps, for any
	// starting stage and score
	for _, start := range models.AllFunnelStages {
		for score := 0; score <= 100; score += 5 {
			steps := planProgression(start, score)
			prev := start
			for _, step := range steps {
				assert.Equal(t, prev, step.From)
				assert.Equal(t, prev.NextStage(), step.To)
				prev = step.To
			}
		}
	}
}

// fakeLeadStore is an in-memory LeadStore. ExecTx runs fn against a copy of
// the state and keeps the copy's writes only when fn succeeds, matching the
// commit/rollback behavior of the real store.
type fakeLeadStore struct {
	leads              map[uuid.UUID]database.Lead
	interactions       []database.Interaction
	progressions       []database.FunnelProgression
	assignments        []database.LeadAssignment
	failProgressUpdate bool
}

func newFakeLeadStore() *fakeLeadStore {
	return &fakeLeadStore{leads: make(map[uuid.UUID]database.Lead)}
}

func (f *fakeLeadStore) clone() *fakeLeadStore {
	c := newFakeLeadStore()
	c.failProgressUpdate = f.failProgressUpdate
	for id, l := range f.leads {
		c.leads[id] = l
	}
	c.interactions = append([]database.Interaction(nil), f.interactions...)
	c.progressions = append([]database.FunnelProgression(nil), f.progressions...)
	c.assignments = append([]database.LeadAssignment(nil), f.assignments...)
	return c
}

func (f *fakeLeadStore) ExecTx(ctx context.Context, fn func(LeadStore) error) error {
	tx := f.clone()
	if err := fn(tx); err != nil {
		return err
	}
	f.leads = tx.leads
	f.interactions = tx.interactions
	f.progressions = tx.progressions
	f.assignments = tx.assignments
	return nil
}

func (f *fakeLeadStore) CreateLead(ctx context.Context, arg database.CreateLeadParams) (database.Lead, error) {
	row := database.Lead{
		ID:          arg.ID,
		FirstName:   arg.FirstName,
		LastName:    arg.LastName,
		Email:       arg.Email,
		Phone:       arg.Phone,
		Persona:     arg.Persona,
		FunnelStage: arg.FunnelStage,
		LeadStatus:  arg.LeadStatus,
		Source:      arg.Source,
	}
	f.leads[arg.ID] = row
	return row, nil
}

func (f *fakeLeadStore) GetLead(ctx context.Context, id uuid.UUID) (database.Lead, error) {
	l, ok := f.leads[id]
	if !ok {
		return database.Lead{}, sql.ErrNoRows
	}
	return l, nil
}

func (f *fakeLeadStore) ListLeads(ctx context.Context, arg database.ListLeadsParams) ([]database.Lead, error) {
	var out []database.Lead
	for _, l := range f.leads {
		if arg.Persona.Valid && l.Persona != arg.Persona.String {
			continue
		}
		if arg.FunnelStage.Valid && l.FunnelStage != arg.FunnelStage.String {
			continue
		}
		if arg.LeadStatus.Valid && l.LeadStatus != arg.LeadStatus.String {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeLeadStore) UpdateLead(ctx context.Context, arg database.UpdateLeadParams) (database.Lead, error) {
	l, ok := f.leads[arg.ID]
	if !ok {
		return database.Lead{}, sql.ErrNoRows
	}
	l.FirstName = arg.FirstName
	l.LastName = arg.LastName
	l.Email = arg.Email
	l.Phone = arg.Phone
	l.Persona = arg.Persona
	l.LeadStatus = arg.LeadStatus
	l.Notes = arg.Notes
	f.leads[arg.ID] = l
	return l, nil
}

func (f *fakeLeadStore) UpdateLeadProgress(ctx context.Context, arg database.UpdateLeadProgressParams) (database.Lead, error) {
	if f.failProgressUpdate {
		return database.Lead{}, fmt.Errorf("connection reset")
	}
	l, ok := f.leads[arg.ID]
	if !ok {
		return database.Lead{}, sql.ErrNoRows
	}
	l.FunnelStage = arg.FunnelStage
	l.EngagementScore = arg.EngagementScore
	f.leads[arg.ID] = l
	return l, nil
}

func (f *fakeLeadStore) DeleteLead(ctx context.Context, id uuid.UUID) error {
	delete(f.leads, id)
	return nil
}

func (f *fakeLeadStore) CreateInteraction(ctx context.Context, arg database.CreateInteractionParams) (database.Interaction, error) {
	row := database.Interaction{
		ID:              arg.ID,
		LeadID:          arg.LeadID,
		InteractionType: arg.InteractionType,
		Description:     arg.Description,
		ScoreDelta:      arg.ScoreDelta,
		HighValue:       arg.HighValue,
	}
	f.interactions = append(f.interactions, row)
	return row, nil
}

func (f *fakeLeadStore) ListInteractionsByLead(ctx context.Context, leadID uuid.UUID) ([]database.Interaction, error) {
	var out []database.Interaction
	for _, i := range f.interactions {
		if i.LeadID == leadID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (f *fakeLeadStore) CreateFunnelProgression(ctx context.Context, arg database.CreateFunnelProgressionParams) (database.FunnelProgression, error) {
	row := database.FunnelProgression{
		ID:                      arg.ID,
		LeadID:                  arg.LeadID,
		FromStage:               arg.FromStage,
		ToStage:                 arg.ToStage,
		Reason:                  arg.Reason,
		EngagementScoreAtChange: arg.EngagementScoreAtChange,
		TriggerEvent:            arg.TriggerEvent,
	}
	f.progressions = append(f.progressions, row)
	return row, nil
}

func (f *fakeLeadStore) ListFunnelProgressionByLead(ctx context.Context, leadID uuid.UUID) ([]database.FunnelProgression, error) {
	var out []database.FunnelProgression
	for _, p := range f.progressions {
		if p.LeadID == leadID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeLeadStore) CreateAssignment(ctx context.Context, arg database.CreateAssignmentParams) (database.LeadAssignment, error) {
	row := database.LeadAssignment{
		ID:     arg.ID,
		LeadID: arg.LeadID,
		UserID: arg.UserID,
		Active: true,
	}
	f.assignments = append(f.assignments, row)
	return row, nil
}

func (f *fakeLeadStore) DeactivateAssignments(ctx context.Context, leadID uuid.UUID) error {
	for i := range f.assignments {
		if f.assignments[i].LeadID == leadID {
			f.assignments[i].Active = false
		}
	}
	return nil
}

func (f *fakeLeadStore) ListAssignmentsByLead(ctx context.Context, leadID uuid.UUID) ([]database.LeadAssignment, error) {
	var out []database.LeadAssignment
	for _, a := range f.assignments {
		if a.LeadID == leadID {
			out = append(out, a)
		}
	}
	return out, nil
}

func captureTestLead(t *testing.T, svc *LeadService) models.Lead {
	t.Helper()
	lead, err := svc.CaptureLead(context.Background(), models.CreateLeadInput{
		FirstName: "Dana",
		LastName:  "Rivera",
		Email:     "dana@example.com",
		Persona:   models.PersonaParent,
		Source:    "quiz",
	})
	require.NoError(t, err)
	return lead
}

func TestRecordInteractionHighValueAdvancesOneStage(t *testing.T) {
	ctx := context.Background()
	svc := NewLeadService(newFakeLeadStore())
	lead := captureTestLead(t, svc)

	// score stays under the consideration threshold, but the event is
	// high value so the lead advances one stage anyway
	updated, err := svc.RecordInteraction(ctx, lead.ID, models.CreateInteractionInput{
		InteractionType: "event_registration",
		ScoreDelta:      5,
		HighValue:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StageConsideration, updated.FunnelStage)
	assert.Equal(t, 5, updated.EngagementScore)

	history, err := svc.ListProgressionHistory(ctx, lead.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.ReasonHighValueEvent, history[0].Reason)
	assert.Equal(t, "event_registration", history[0].TriggerEvent)
}

func TestRecordInteractionThresholdReason(t *testing.T) {
	ctx := context.Background()
	svc := NewLeadService(newFakeLeadStore())
	lead := captureTestLead(t, svc)

	updated, err := svc.RecordInteraction(ctx, lead.ID, models.CreateInteractionInput{
		InteractionType: "email_click",
		ScoreDelta:      25,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StageConsideration, updated.FunnelStage)

	history, err := svc.ListProgressionHistory(ctx, lead.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.ReasonThresholdMet, history[0].Reason)
	assert.Equal(t, "email_click", history[0].TriggerEvent)
}

func TestRecordInteractionHighValueMultiStepKeepsReason(t *testing.T) {
	ctx := context.Background()
	svc := NewLeadService(newFakeLeadStore())
	lead := captureTestLead(t, svc)

	// a high-value event that also crosses two thresholds tags every
	// resulting history row with the high-value reason
	updated, err := svc.RecordInteraction(ctx, lead.ID, models.CreateInteractionInput{
		InteractionType: "program_enrollment",
		ScoreDelta:      55,
		HighValue:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StageDecision, updated.FunnelStage)

	history, err := svc.ListProgressionHistory(ctx, lead.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	for _, h := range history {
		assert.Equal(t, models.ReasonHighValueEvent, h.Reason)
	}
}

func TestRecordInteractionHighValueAtRetentionStays(t *testing.T) {
	ctx := context.Background()
	svc := NewLeadService(newFakeLeadStore())
	lead := captureTestLead(t, svc)

	_, err := svc.RecordInteraction(ctx, lead.ID, models.CreateInteractionInput{
		InteractionType: "donation",
		ScoreDelta:      85,
	})
	require.NoError(t, err)

	// already at the last stage - high value has nowhere to advance to
	updated, err := svc.RecordInteraction(ctx, lead.ID, models.CreateInteractionInput{
		InteractionType: "donation",
		ScoreDelta:      1,
		HighValue:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StageRetention, updated.FunnelStage)

	history, err := svc.ListProgressionHistory(ctx, lead.ID)
	require.NoError(t, err)
	assert.Len(t, history, 3) // only the awareness->retention climb
}

func TestRecordInteractionRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	store := newFakeLeadStore()
	svc := NewLeadService(store)
	lead := captureTestLead(t, svc)

	// when the lead-row update fails, the interaction and history writes
	// from the same request must not survive either
	store.failProgressUpdate = true
	_, err := svc.RecordInteraction(ctx, lead.ID, models.CreateInteractionInput{
		InteractionType: "email_click",
		ScoreDelta:      25,
	})
	require.Error(t, err)

	assert.Empty(t, store.interactions)
	assert.Empty(t, store.progressions)
	assert.Equal(t, string(models.StageAwareness), store.leads[lead.ID].FunnelStage)
	assert.Zero(t, store.leads[lead.ID].EngagementScore)
}

func TestOverrideStageNoOpWritesNoHistory(t *testing.T) {
	ctx := context.Background()
	svc := NewLeadService(newFakeLeadStore())
	lead := captureTestLead(t, svc)

	updated, err := svc.OverrideFunnelStage(ctx, lead.ID, models.StageOverrideInput{
		Stage:  models.StageAwareness,
		Reason: "already correct",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StageAwareness, updated.FunnelStage)

	history, err := svc.ListProgressionHistory(ctx, lead.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestOverrideStageRegressesWithReason(t *testing.T) {
	ctx := context.Background()
	svc := NewLeadService(newFakeLeadStore())
	lead := captureTestLead(t, svc)

	_, err := svc.RecordInteraction(ctx, lead.ID, models.CreateInteractionInput{
		InteractionType: "email_click",
		ScoreDelta:      50,
	})
	require.NoError(t, err)

	updated, err := svc.OverrideFunnelStage(ctx, lead.ID, models.StageOverrideInput{
		Stage:  models.StageAwareness,
		Reason: "went cold after the open house",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StageAwareness, updated.FunnelStage)
	assert.Equal(t, 50, updated.EngagementScore) // override leaves the score alone

	history, err := svc.ListProgressionHistory(ctx, lead.ID)
	require.NoError(t, err)
	require.NotEmpty(t, history)
	last := history[len(history)-1]
	assert.Equal(t, models.ReasonManualOverride, last.Reason)
	assert.Equal(t, models.StageDecision, last.FromStage)
	assert.Equal(t, models.StageAwareness, last.ToStage)
	assert.Equal(t, "went cold after the open house", last.TriggerEvent)
}

func TestOverrideStageRequiresReason(t *testing.T) {
	svc := NewLeadService(newFakeLeadStore())
	lead := captureTestLead(t, svc)

	_, err := svc.OverrideFunnelStage(context.Background(), lead.ID, models.StageOverrideInput{
		Stage: models.StageDecision,
	})
	assert.Error(t, err)

	_, err = svc.OverrideFunnelStage(context.Background(), lead.ID, models.StageOverrideInput{
		Stage:  models.FunnelStage("limbo"),
		Reason: "bad stage",
	})
	assert.Error(t, err)
}
