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
	"github.com/familybridge/crm-backend/pkg/stats"
	"github.com/google/uuid"
)

// a test needs this much confidence before we call a winner
const significanceThreshold = 95.0

// legal lifecycle moves for an experiment
var abTestTransitions = map[models.ABTestStatus][]models.ABTestStatus{
	models.ABTestDraft:     {models.ABTestRunning, models.ABTestArchived},
	models.ABTestRunning:   {models.ABTestCompleted, models.ABTestArchived},
	models.ABTestCompleted: {models.ABTestArchived},
	models.ABTestArchived:  {},
}

// canTransition checks a lifecycle move against the table
func canTransition(from, to models.ABTestStatus) bool {
	for _, allowed := range abTestTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ABTestService handles experiment lifecycle and result computation
type ABTestService struct {
	DB *database.Queries // database access
}

// NewABTestService creates service with db dependency
func NewABTestService(db *database.Queries) *ABTestService {
	return &ABTestService{DB: db}
}

// CreateTest sets up a new experiment in draft
func (s *ABTestService) CreateTest(ctx context.Context, input models.CreateABTestInput) (models.ABTest, error) {
	if strings.TrimSpace(input.Name) == "" {
		return models.ABTest{}, errors.New("test name cannot be empty")
	}
	if !input.ContentType.IsValid() {
		return models.ABTest{}, fmt.Errorf("unknown content type: %s", input.ContentType)
	}

	params := database.CreateABTestParams{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		ContentType: string(input.ContentType),
	}
	if input.ControlContentID != uuid.Nil {
		params.ControlContentID = uuid.NullUUID{UUID: input.ControlContentID, Valid: true}
	}
	if input.VariantContentID != uuid.Nil {
		params.VariantContentID = uuid.NullUUID{UUID: input.VariantContentID, Valid: true}
	}

	created, err := s.DB.CreateABTest(ctx, params)
	if err != nil {
		log.Printf("Error creating A/B test: %v", err)
		return models.ABTest{}, fmt.Errorf("failed to create test: %w", err)
	}
	return abTestFromDB(created), nil
}

// GetTest retrieves one experiment by ID
func (s *ABTestService) GetTest(ctx context.Context, id uuid.UUID) (models.ABTest, error) {
	t, err := s.DB.GetABTest(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ABTest{}, fmt.Errorf("test not found: %w", err)
		}
		return models.ABTest{}, fmt.Errorf("failed to get test: %w", err)
	}
	return abTestFromDB(t), nil
}

// ListTests returns every experiment, newest first
func (s *ABTestService) ListTests(ctx context.Context) ([]models.ABTest, error) {
	rows, err := s.DB.ListABTests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tests: %w", err)
	}
	out := make([]models.ABTest, len(rows))
	for i, t := range rows {
		out[i] = abTestFromDB(t)
	}
	return out, nil
}

// ChangeStatus moves an experiment through its lifecycle. Completing a
// running test stamps the winner if the results are significant.
func (s *ABTestService) ChangeStatus(ctx context.Context, id uuid.UUID, status models.ABTestStatus) (models.ABTest, error) {
	if !status.IsValid() {
		return models.ABTest{}, fmt.Errorf("unknown test status: %s", status)
	}

	current, err := s.DB.GetABTest(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ABTest{}, fmt.Errorf("test not found: %w", err)
		}
		return models.ABTest{}, fmt.Errorf("failed to load test: %w", err)
	}

	from := models.ABTestStatus(current.Status)
	if !canTransition(from, status) {
		return models.ABTest{}, fmt.Errorf("cannot move test from %s to %s", from, status)
	}

	updated, err := s.DB.UpdateABTestStatus(ctx, database.UpdateABTestStatusParams{
		ID:     id,
		Status: string(status),
	})
	if err != nil {
		log.Printf("Error updating test status: %v", err)
		return models.ABTest{}, fmt.Errorf("failed to update test: %w", err)
	}

	if status == models.ABTestCompleted {
		results := computeResults(abTestFromDB(updated))
		if results.Significant {
			updated, err = s.DB.SetABTestWinner(ctx, database.SetABTestWinnerParams{
				ID:     id,
				Winner: sql.NullString{String: results.SuggestedArm, Valid: true},
			})
			if err != nil {
				log.Printf("Error stamping test winner: %v", err)
				return models.ABTest{}, fmt.Errorf("failed to record winner: %w", err)
			}
		}
	}

	return abTestFromDB(updated), nil
}

// RecordEvent bumps the counters for one arm. Only running tests accept events.
func (s *ABTestService) RecordEvent(ctx context.Context, id uuid.UUID, input models.RecordABTestEventInput) (models.ABTest, error) {
	if input.Arm != models.ArmControl && input.Arm != models.ArmVariant {
		return models.ABTest{}, fmt.Errorf("unknown test arm: %s", input.Arm)
	}

	current, err := s.DB.GetABTest(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ABTest{}, fmt.Errorf("test not found: %w", err)
		}
		return models.ABTest{}, fmt.Errorf("failed to load test: %w", err)
	}
	if models.ABTestStatus(current.Status) != models.ABTestRunning {
		return models.ABTest{}, fmt.Errorf("test is not running (status %s)", current.Status)
	}

	updated, err := s.DB.RecordABTestEvent(ctx, database.RecordABTestEventParams{
		ID:         id,
		Arm:        string(input.Arm),
		Conversion: input.Conversion,
	})
	if err != nil {
		log.Printf("Error recording test event: %v", err)
		return models.ABTest{}, fmt.Errorf("failed to record event: %w", err)
	}
	return abTestFromDB(updated), nil
}

// GetResults computes rates, confidence, and the suggested winner
func (s *ABTestService) GetResults(ctx context.Context, id uuid.UUID) (models.ABTestResults, error) {
	t, err := s.GetTest(ctx, id)
	if err != nil {
		return models.ABTestResults{}, err
	}
	return computeResults(t), nil
}

// DeleteTest removes an experiment outright. Archiving is the normal path;
// deletion is for drafts created by mistake.
func (s *ABTestService) DeleteTest(ctx context.Context, id uuid.UUID) error {
	if err := s.DB.DeleteABTest(ctx, id); err != nil {
		return fmt.Errorf("failed to delete test: %w", err)
	}
	return nil
}

// computeResults derives the stats view from raw counters. Pure function.
func computeResults(t models.ABTest) models.ABTestResults {
	results := models.ABTestResults{Test: &t}

	if t.ControlVisitors > 0 {
		results.ControlRate = float64(t.ControlConversions) / float64(t.ControlVisitors)
	}
	if t.VariantVisitors > 0 {
		results.VariantRate = float64(t.VariantConversions) / float64(t.VariantVisitors)
	}
	if results.ControlRate > 0 {
		results.Lift = (results.VariantRate - results.ControlRate) / results.ControlRate
	}

	results.Confidence = stats.Confidence(
		t.ControlConversions, t.ControlVisitors,
		t.VariantConversions, t.VariantVisitors)
	results.Significant = results.Confidence >= significanceThreshold

	if results.VariantRate >= results.ControlRate {
		results.SuggestedArm = string(models.ArmVariant)
	} else {
		results.SuggestedArm = string(models.ArmControl)
	}

	// how many samples per arm it would take to confirm the observed lift
	if results.ControlRate > 0 && results.Lift != 0 {
		mde := results.Lift
		if mde < 0 {
			mde = -mde
		}
		results.SamplesPerArm = stats.RequiredSampleSize(results.ControlRate, mde, 0.80, 0.05)
	}

	return results
}

// convert db row to app model

func abTestFromDB(t database.ABTest) models.ABTest {
	out := models.ABTest{
		ID:                 t.ID,
		Name:               t.Name,
		Description:        t.Description,
		ContentType:        models.ContentType(t.ContentType),
		Status:             models.ABTestStatus(t.Status),
		ControlVisitors:    int(t.ControlVisitors),
		ControlConversions: int(t.ControlConversions),
		VariantVisitors:    int(t.VariantVisitors),
		VariantConversions: int(t.VariantConversions),
		Winner:             t.Winner.String,
		StartedAt:          t.StartedAt,
		CompletedAt:        t.CompletedAt,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
	if t.ControlContentID.Valid {
		out.ControlContentID = t.ControlContentID.UUID
	}
	if t.VariantContentID.Valid {
		out.VariantContentID = t.VariantContentID.UUID
	}
	return out
}
