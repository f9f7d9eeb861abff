package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/familybridge/crm-backend/internal/database"
	"github.com/familybridge/crm-backend/internal/models"
	"github.com/google/uuid"
)

// Engagement score thresholds for automatic stage advancement. A lead moves
// forward one stage at a time as its score crosses these.
const (
	considerationThreshold = 20
	decisionThreshold      = 50
	retentionThreshold     = 80
)

// stageForScore returns the highest stage the score qualifies for
func stageForScore(score int) models.FunnelStage {
	switch {
	case score >= retentionThreshold:
		return models.StageRetention
	case score >= decisionThreshold:
		return models.StageDecision
	case score >= considerationThreshold:
		return models.StageConsideration
	default:
		return models.StageAwareness
	}
}

// progressionStep is one stage advance the score change earned
type progressionStep struct {
	From models.FunnelStage
	To   models.FunnelStage
}

// planProgression computes the forward steps a new score earns from the
// current stage. Never plans a regression - scores only move leads forward;
// going backward takes a manual override. Pure function.
func planProgression(current models.FunnelStage, newScore int) []progressionStep {
	target := stageForScore(newScore)
	curIdx := current.Index()
	targetIdx := target.Index()
	if curIdx < 0 || targetIdx <= curIdx {
		return nil
	}

	// advance one stage at a time so history shows every transition
	var steps []progressionStep
	for i := curIdx; i < targetIdx; i++ {
		steps = append(steps, progressionStep{
			From: models.AllFunnelStages[i],
			To:   models.AllFunnelStages[i+1],
		})
	}
	return steps
}

// LeadStore is the slice of the database layer the lead service needs.
// SQLLeadStore satisfies it; tests substitute an in-memory store.
type LeadStore interface {
	CreateLead(ctx context.Context, arg database.CreateLeadParams) (database.Lead, error)
	GetLead(ctx context.Context, id uuid.UUID) (database.Lead, error)
	ListLeads(ctx context.Context, arg database.ListLeadsParams) ([]database.Lead, error)
	UpdateLead(ctx context.Context, arg database.UpdateLeadParams) (database.Lead, error)
	UpdateLeadProgress(ctx context.Context, arg database.UpdateLeadProgressParams) (database.Lead, error)
	DeleteLead(ctx context.Context, id uuid.UUID) error
	CreateInteraction(ctx context.Context, arg database.CreateInteractionParams) (database.Interaction, error)
	ListInteractionsByLead(ctx context.Context, leadID uuid.UUID) ([]database.Interaction, error)
	CreateFunnelProgression(ctx context.Context, arg database.CreateFunnelProgressionParams) (database.FunnelProgression, error)
	ListFunnelProgressionByLead(ctx context.Context, leadID uuid.UUID) ([]database.FunnelProgression, error)
	CreateAssignment(ctx context.Context, arg database.CreateAssignmentParams) (database.LeadAssignment, error)
	DeactivateAssignments(ctx context.Context, leadID uuid.UUID) error
	ListAssignmentsByLead(ctx context.Context, leadID uuid.UUID) ([]database.LeadAssignment, error)

	// ExecTx runs fn against a store bound to a single transaction, so a
	// group of writes commits together or not at all.
	ExecTx(ctx context.Context, fn func(LeadStore) error) error
}

// SQLLeadStore is the production LeadStore. It keeps the raw handle next to
// the query methods so ExecTx can open real transactions.
type SQLLeadStore struct {
	*database.Queries
	db *sql.DB
}

// NewSQLLeadStore wraps the database handle for the lead service
func NewSQLLeadStore(db *sql.DB) *SQLLeadStore {
	return &SQLLeadStore{Queries: database.New(db), db: db}
}

// ExecTx runs fn inside a transaction, rolling back if fn errors
func (s *SQLLeadStore) ExecTx(ctx context.Context, fn func(LeadStore) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(&SQLLeadStore{Queries: s.Queries.WithTx(tx), db: s.db}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Printf("Error rolling back transaction: %v", rbErr)
		}
		return err
	}
	return tx.Commit()
}

// LeadService handles lead capture, qualification, and funnel progression
type LeadService struct {
	DB LeadStore // database access
}

// NewLeadService creates service with db dependency
func NewLeadService(db LeadStore) *LeadService {
	return &LeadService{DB: db}
}

// CaptureLead creates a lead from a public form/quiz/lead magnet submission.
// New leads always start at awareness with an active status.
func (s *LeadService) CaptureLead(ctx context.Context, input models.CreateLeadInput) (models.Lead, error) {
	if strings.TrimSpace(input.Email) == "" {
		return models.Lead{}, errors.New("email is required")
	}
	if strings.TrimSpace(input.FirstName) == "" {
		return models.Lead{}, errors.New("first name is required")
	}
	if !input.Persona.IsValid() {
		return models.Lead{}, fmt.Errorf("unknown persona: %s", input.Persona)
	}

	created, err := s.DB.CreateLead(ctx, database.CreateLeadParams{
		ID:          uuid.New(),
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       input.Email,
		Phone:       input.Phone,
		Persona:     string(input.Persona),
		FunnelStage: string(models.StageAwareness),
		LeadStatus:  string(models.LeadActive),
		Source:      input.Source,
	})
	if err != nil {
		log.Printf("Error creating lead: %v", err)
		return models.Lead{}, fmt.Errorf("failed to create lead: %w", err)
	}

	return leadFromDB(created), nil
}

// GetLead retrieves one lead by ID
func (s *LeadService) GetLead(ctx context.Context, id uuid.UUID) (models.Lead, error) {
	lead, err := s.DB.GetLead(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Lead{}, fmt.Errorf("lead not found: %w", err)
		}
		return models.Lead{}, fmt.Errorf("failed to get lead: %w", err)
	}
	return leadFromDB(lead), nil
}

// ListLeads returns leads matching the admin filters
func (s *LeadService) ListLeads(ctx context.Context, filter models.LeadFilter) ([]models.Lead, error) {
	params := database.ListLeadsParams{}
	if filter.Persona != nil {
		params.Persona = sql.NullString{String: string(*filter.Persona), Valid: true}
	}
	if filter.FunnelStage != nil {
		params.FunnelStage = sql.NullString{String: string(*filter.FunnelStage), Valid: true}
	}
	if filter.Status != nil {
		params.LeadStatus = sql.NullString{String: string(*filter.Status), Valid: true}
	}

	leads, err := s.DB.ListLeads(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}

	out := make([]models.Lead, len(leads))
	for i, l := range leads {
		out[i] = leadFromDB(l)
	}
	return out, nil
}

// UpdateLead applies a partial admin edit to contact fields, status, notes
func (s *LeadService) UpdateLead(ctx context.Context, id uuid.UUID, input models.UpdateLeadInput) (models.Lead, error) {
	current, err := s.DB.GetLead(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Lead{}, fmt.Errorf("lead not found: %w", err)
		}
		return models.Lead{}, fmt.Errorf("failed to load lead: %w", err)
	}

	params := database.UpdateLeadParams{
		ID:         id,
		FirstName:  current.FirstName,
		LastName:   current.LastName,
		Email:      current.Email,
		Phone:      current.Phone,
		Persona:    current.Persona,
		LeadStatus: current.LeadStatus,
		Notes:      current.Notes,
	}
	if input.FirstName != nil {
		params.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		params.LastName = *input.LastName
	}
	if input.Email != nil {
		if strings.TrimSpace(*input.Email) == "" {
			return models.Lead{}, errors.New("email cannot be empty")
		}
		params.Email = *input.Email
	}
	if input.Phone != nil {
		params.Phone = *input.Phone
	}
	if input.Persona != nil {
		if !input.Persona.IsValid() {
			return models.Lead{}, fmt.Errorf("unknown persona: %s", *input.Persona)
		}
		params.Persona = string(*input.Persona)
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return models.Lead{}, fmt.Errorf("unknown lead status: %s", *input.Status)
		}
		params.LeadStatus = string(*input.Status)
	}
	if input.Notes != nil {
		params.Notes = *input.Notes
	}

	updated, err := s.DB.UpdateLead(ctx, params)
	if err != nil {
		log.Printf("Error updating lead: %v", err)
		return models.Lead{}, fmt.Errorf("failed to update lead: %w", err)
	}
	return leadFromDB(updated), nil
}

// RecordInteraction appends an event to the lead's log, adjusts the
// engagement score, and advances the funnel stage when a threshold is
// crossed. Every stage transition gets its own history row. The event, the
// history rows, and the lead update run in one transaction so the history
// can never claim a transition the lead row missed.
func (s *LeadService) RecordInteraction(ctx context.Context, leadID uuid.UUID,
	input models.CreateInteractionInput) (models.Lead, error) {

	if strings.TrimSpace(input.InteractionType) == "" {
		return models.Lead{}, errors.New("interaction type is required")
	}

	var result models.Lead
	err := s.DB.ExecTx(ctx, func(q LeadStore) error {
		lead, err := q.GetLead(ctx, leadID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("lead not found: %w", err)
			}
			return fmt.Errorf("failed to load lead: %w", err)
		}

		_, err = q.CreateInteraction(ctx, database.CreateInteractionParams{
			ID:              uuid.New(),
			LeadID:          leadID,
			InteractionType: input.InteractionType,
			Description:     input.Description,
			ScoreDelta:      int32(input.ScoreDelta),
			HighValue:       input.HighValue,
		})
		if err != nil {
			log.Printf("Error recording interaction: %v", err)
			return fmt.Errorf("failed to record interaction: %w", err)
		}

		newScore := int(lead.EngagementScore) + input.ScoreDelta
		if newScore < 0 {
			newScore = 0 // score floor - negative engagement doesn't make sense
		}

		currentStage := models.FunnelStage(lead.FunnelStage)
		steps := planProgression(currentStage, newScore)

		// a high-value event advances one stage immediately even if the score
		// hasn't crossed the next threshold yet
		if len(steps) == 0 && input.HighValue && currentStage != models.StageRetention {
			steps = []progressionStep{{From: currentStage, To: currentStage.NextStage()}}
		}

		finalStage := currentStage
		for _, step := range steps {
			reason := models.ReasonThresholdMet
			if input.HighValue {
				reason = models.ReasonHighValueEvent
			}
			_, err := q.CreateFunnelProgression(ctx, database.CreateFunnelProgressionParams{
				ID:                      uuid.New(),
				LeadID:                  leadID,
				FromStage:               string(step.From),
				ToStage:                 string(step.To),
				Reason:                  string(reason),
				EngagementScoreAtChange: int32(newScore),
				TriggerEvent:            sql.NullString{String: input.InteractionType, Valid: true},
			})
			if err != nil {
				log.Printf("Error recording funnel progression: %v", err)
				return fmt.Errorf("failed to record progression: %w", err)
			}
			finalStage = step.To
		}

		updated, err := q.UpdateLeadProgress(ctx, database.UpdateLeadProgressParams{
			ID:              leadID,
			FunnelStage:     string(finalStage),
			EngagementScore: int32(newScore),
		})
		if err != nil {
			log.Printf("Error updating lead progress: %v", err)
			return fmt.Errorf("failed to update lead: %w", err)
		}

		result = leadFromDB(updated)
		return nil
	})
	if err != nil {
		return models.Lead{}, err
	}

	return result, nil
}

// OverrideFunnelStage moves a lead to any stage, forward or backward. The
// only path that can regress a lead, and it always demands a reason. The
// history row and the lead update commit together.
func (s *LeadService) OverrideFunnelStage(ctx context.Context, leadID uuid.UUID,
	input models.StageOverrideInput) (models.Lead, error) {

	if !input.Stage.IsValid() {
		return models.Lead{}, fmt.Errorf("unknown funnel stage: %s", input.Stage)
	}
	if strings.TrimSpace(input.Reason) == "" {
		return models.Lead{}, errors.New("a reason is required for manual stage changes")
	}

	var result models.Lead
	err := s.DB.ExecTx(ctx, func(q LeadStore) error {
		lead, err := q.GetLead(ctx, leadID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("lead not found: %w", err)
			}
			return fmt.Errorf("failed to load lead: %w", err)
		}

		currentStage := models.FunnelStage(lead.FunnelStage)
		if currentStage == input.Stage {
			// nothing to do, and no history row for a no-op
			result = leadFromDB(lead)
			return nil
		}

		_, err = q.CreateFunnelProgression(ctx, database.CreateFunnelProgressionParams{
			ID:                      uuid.New(),
			LeadID:                  leadID,
			FromStage:               string(currentStage),
			ToStage:                 string(input.Stage),
			Reason:                  string(models.ReasonManualOverride),
			EngagementScoreAtChange: lead.EngagementScore,
			TriggerEvent:            sql.NullString{String: input.Reason, Valid: true},
		})
		if err != nil {
			log.Printf("Error recording manual override: %v", err)
			return fmt.Errorf("failed to record override: %w", err)
		}

		updated, err := q.UpdateLeadProgress(ctx, database.UpdateLeadProgressParams{
			ID:              leadID,
			FunnelStage:     string(input.Stage),
			EngagementScore: lead.EngagementScore,
		})
		if err != nil {
			return fmt.Errorf("failed to update lead: %w", err)
		}

		result = leadFromDB(updated)
		return nil
	})
	if err != nil {
		return models.Lead{}, err
	}

	return result, nil
}

// ListInteractions returns the lead's full event log
func (s *LeadService) ListInteractions(ctx context.Context, leadID uuid.UUID) ([]models.Interaction, error) {
	rows, err := s.DB.ListInteractionsByLead(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to list interactions: %w", err)
	}

	out := make([]models.Interaction, len(rows))
	for i, r := range rows {
		out[i] = models.Interaction{
			ID:              r.ID,
			LeadID:          r.LeadID,
			InteractionType: r.InteractionType,
			Description:     r.Description,
			ScoreDelta:      int(r.ScoreDelta),
			HighValue:       r.HighValue,
			OccurredAt:      r.OccurredAt,
		}
	}
	return out, nil
}

// ListProgressionHistory returns every stage transition for a lead
func (s *LeadService) ListProgressionHistory(ctx context.Context, leadID uuid.UUID) ([]models.FunnelProgression, error) {
	rows, err := s.DB.ListFunnelProgressionByLead(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to list progression history: %w", err)
	}

	out := make([]models.FunnelProgression, len(rows))
	for i, r := range rows {
		out[i] = models.FunnelProgression{
			ID:                      r.ID,
			LeadID:                  r.LeadID,
			FromStage:               models.FunnelStage(r.FromStage),
			ToStage:                 models.FunnelStage(r.ToStage),
			Reason:                  models.ProgressionReason(r.Reason),
			EngagementScoreAtChange: int(r.EngagementScoreAtChange),
			TriggerEvent:            r.TriggerEvent.String,
			CreatedAt:               r.CreatedAt,
		}
	}
	return out, nil
}

// AssignLead gives the lead to a staff member, retiring any previous active
// assignment. The old assignment stays around as history.
func (s *LeadService) AssignLead(ctx context.Context, leadID uuid.UUID, input models.CreateAssignmentInput) (models.Assignment, error) {
	if input.UserID == uuid.Nil {
		return models.Assignment{}, errors.New("user ID is required")
	}

	if _, err := s.DB.GetLead(ctx, leadID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Assignment{}, fmt.Errorf("lead not found: %w", err)
		}
		return models.Assignment{}, fmt.Errorf("failed to load lead: %w", err)
	}

	if err := s.DB.DeactivateAssignments(ctx, leadID); err != nil {
		return models.Assignment{}, fmt.Errorf("failed to retire previous assignment: %w", err)
	}

	created, err := s.DB.CreateAssignment(ctx, database.CreateAssignmentParams{
		ID:     uuid.New(),
		LeadID: leadID,
		UserID: input.UserID,
	})
	if err != nil {
		log.Printf("Error creating assignment: %v", err)
		return models.Assignment{}, fmt.Errorf("failed to assign lead: %w", err)
	}

	return assignmentFromDB(created), nil
}

// ListAssignments returns a lead's assignment history, newest first
func (s *LeadService) ListAssignments(ctx context.Context, leadID uuid.UUID) ([]models.Assignment, error) {
	rows, err := s.DB.ListAssignmentsByLead(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	out := make([]models.Assignment, len(rows))
	for i, r := range rows {
		out[i] = assignmentFromDB(r)
	}
	return out, nil
}

// DeleteLead removes a lead and everything hanging off it (cascades)
func (s *LeadService) DeleteLead(ctx context.Context, id uuid.UUID) error {
	if err := s.DB.DeleteLead(ctx, id); err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	return nil
}

// convert db rows to app models

func leadFromDB(l database.Lead) models.Lead {
	return models.Lead{
		ID:              l.ID,
		FirstName:       l.FirstName,
		LastName:        l.LastName,
		Email:           l.Email,
		Phone:           l.Phone,
		Persona:         models.Persona(l.Persona),
		FunnelStage:     models.FunnelStage(l.FunnelStage),
		EngagementScore: int(l.EngagementScore),
		LeadStatus:      models.LeadStatus(l.LeadStatus),
		Source:          l.Source,
		Notes:           l.Notes,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

func assignmentFromDB(a database.LeadAssignment) models.Assignment {
	return models.Assignment{
		ID:           a.ID,
		LeadID:       a.LeadID,
		UserID:       a.UserID,
		Active:       a.Active,
		AssignedAt:   a.AssignedAt,
		UnassignedAt: a.UnassignedAt,
	}
}
