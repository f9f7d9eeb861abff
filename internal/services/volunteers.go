package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/familybridge/crm-backend/internal/database"
	"github.com/familybridge/crm-backend/internal/models"
	"github.com/google/uuid"
)

// VolunteerService handles volunteer program tracking
type VolunteerService struct {
	DB    *database.Queries // database access
	Leads *LeadService      // for the lead-to-volunteer link
}

// NewVolunteerService creates service with its dependencies
func NewVolunteerService(db *database.Queries, leads *LeadService) *VolunteerService {
	return &VolunteerService{DB: db, Leads: leads}
}

// CreateVolunteer enrolls someone in a program. If the volunteer converted
// from a lead, the lead gets a high-value interaction logged against it.
func (s *VolunteerService) CreateVolunteer(ctx context.Context, input models.CreateVolunteerInput) (models.Volunteer, error) {
	if strings.TrimSpace(input.Name) == "" {
		return models.Volunteer{}, errors.New("volunteer name cannot be empty")
	}
	if strings.TrimSpace(input.Email) == "" {
		return models.Volunteer{}, errors.New("volunteer email cannot be empty")
	}
	if strings.TrimSpace(input.Program) == "" {
		return models.Volunteer{}, errors.New("program is required")
	}

	params := database.CreateVolunteerParams{
		ID:      uuid.New(),
		Name:    input.Name,
		Email:   input.Email,
		Program: input.Program,
	}
	if input.LeadID != uuid.Nil {
		params.LeadID = uuid.NullUUID{UUID: input.LeadID, Valid: true}
	}

	created, err := s.DB.CreateVolunteer(ctx, params)
	if err != nil {
		log.Printf("Error creating volunteer: %v", err)
		return models.Volunteer{}, fmt.Errorf("failed to create volunteer: %w", err)
	}

	// converting to a volunteer is about as engaged as a lead gets
	if input.LeadID != uuid.Nil {
		_, err := s.Leads.RecordInteraction(ctx, input.LeadID, models.CreateInteractionInput{
			InteractionType: "volunteer_signup",
			Description:     fmt.Sprintf("Joined the %s program", input.Program),
			ScoreDelta:      25,
			HighValue:       true,
		})
		if err != nil {
			// the volunteer record exists - don't fail enrollment over this
			log.Printf("Warning: failed to record volunteer signup interaction: %v", err)
		}
	}

	return volunteerFromDB(created), nil
}

// GetVolunteer retrieves one volunteer by ID
func (s *VolunteerService) GetVolunteer(ctx context.Context, id uuid.UUID) (models.Volunteer, error) {
	v, err := s.DB.GetVolunteer(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Volunteer{}, fmt.Errorf("volunteer not found: %w", err)
		}
		return models.Volunteer{}, fmt.Errorf("failed to get volunteer: %w", err)
	}
	return volunteerFromDB(v), nil
}

// ListVolunteers returns volunteers, optionally filtered by status
func (s *VolunteerService) ListVolunteers(ctx context.Context, status *models.VolunteerStatus) ([]models.Volunteer, error) {
	var st sql.NullString
	if status != nil {
		if !status.IsValid() {
			return nil, fmt.Errorf("unknown volunteer status: %s", *status)
		}
		st = sql.NullString{String: string(*status), Valid: true}
	}

	rows, err := s.DB.ListVolunteers(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("failed to list volunteers: %w", err)
	}
	out := make([]models.Volunteer, len(rows))
	for i, v := range rows {
		out[i] = volunteerFromDB(v)
	}
	return out, nil
}

// UpdateVolunteer applies a partial edit. Moving someone to active stamps
// their start date if it isn't set yet.
func (s *VolunteerService) UpdateVolunteer(ctx context.Context, id uuid.UUID, input models.UpdateVolunteerInput) (models.Volunteer, error) {
	current, err := s.DB.GetVolunteer(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Volunteer{}, fmt.Errorf("volunteer not found: %w", err)
		}
		return models.Volunteer{}, fmt.Errorf("failed to load volunteer: %w", err)
	}

	params := database.UpdateVolunteerParams{
		ID:        id,
		Name:      current.Name,
		Email:     current.Email,
		Program:   current.Program,
		Status:    current.Status,
		StartDate: current.StartDate,
	}
	if input.Name != nil {
		params.Name = *input.Name
	}
	if input.Email != nil {
		params.Email = *input.Email
	}
	if input.Program != nil {
		params.Program = *input.Program
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return models.Volunteer{}, fmt.Errorf("unknown volunteer status: %s", *input.Status)
		}
		params.Status = string(*input.Status)
		if *input.Status == models.VolunteerActive && !current.StartDate.Valid {
			params.StartDate = sql.NullTime{Time: time.Now(), Valid: true}
		}
	}

	updated, err := s.DB.UpdateVolunteer(ctx, params)
	if err != nil {
		log.Printf("Error updating volunteer: %v", err)
		return models.Volunteer{}, fmt.Errorf("failed to update volunteer: %w", err)
	}
	return volunteerFromDB(updated), nil
}

// LogHours records a block of volunteer time
func (s *VolunteerService) LogHours(ctx context.Context, volunteerID uuid.UUID, input models.LogHoursInput) (models.VolunteerHours, error) {
	if input.Hours <= 0 {
		return models.VolunteerHours{}, errors.New("hours must be positive")
	}

	if _, err := s.DB.GetVolunteer(ctx, volunteerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.VolunteerHours{}, fmt.Errorf("volunteer not found: %w", err)
		}
		return models.VolunteerHours{}, fmt.Errorf("failed to load volunteer: %w", err)
	}

	var loggedOn sql.NullTime
	if input.LoggedOn != "" {
		t, err := time.Parse("2006-01-02", input.LoggedOn)
		if err != nil {
			return models.VolunteerHours{}, fmt.Errorf("invalid date %q", input.LoggedOn)
		}
		loggedOn = sql.NullTime{Time: t, Valid: true}
	}

	created, err := s.DB.CreateVolunteerHours(ctx, database.CreateVolunteerHoursParams{
		ID:          uuid.New(),
		VolunteerID: volunteerID,
		Hours:       input.Hours,
		Activity:    input.Activity,
		LoggedOn:    loggedOn,
	})
	if err != nil {
		log.Printf("Error logging volunteer hours: %v", err)
		return models.VolunteerHours{}, fmt.Errorf("failed to log hours: %w", err)
	}

	return models.VolunteerHours{
		ID:          created.ID,
		VolunteerID: created.VolunteerID,
		Hours:       created.Hours,
		Activity:    created.Activity,
		LoggedOn:    created.LoggedOn,
		CreatedAt:   created.CreatedAt,
	}, nil
}

// GetHoursSummary totals a volunteer's logged time with the full entry list
func (s *VolunteerService) GetHoursSummary(ctx context.Context, volunteerID uuid.UUID) (models.VolunteerHoursSummary, error) {
	total, err := s.DB.SumVolunteerHours(ctx, volunteerID)
	if err != nil {
		return models.VolunteerHoursSummary{}, fmt.Errorf("failed to total hours: %w", err)
	}

	rows, err := s.DB.ListVolunteerHours(ctx, volunteerID)
	if err != nil {
		return models.VolunteerHoursSummary{}, fmt.Errorf("failed to list hours: %w", err)
	}

	summary := models.VolunteerHoursSummary{
		VolunteerID: volunteerID,
		TotalHours:  total,
		Entries:     make([]models.VolunteerHours, len(rows)),
	}
	for i, h := range rows {
		summary.Entries[i] = models.VolunteerHours{
			ID:          h.ID,
			VolunteerID: h.VolunteerID,
			Hours:       h.Hours,
			Activity:    h.Activity,
			LoggedOn:    h.LoggedOn,
			CreatedAt:   h.CreatedAt,
		}
	}
	return summary, nil
}

// convert db row to app model

func volunteerFromDB(v database.Volunteer) models.Volunteer {
	out := models.Volunteer{
		ID:        v.ID,
		Name:      v.Name,
		Email:     v.Email,
		Program:   v.Program,
		Status:    models.VolunteerStatus(v.Status),
		StartDate: v.StartDate,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
	if v.LeadID.Valid {
		out.LeadID = v.LeadID.UUID
	}
	return out
}
