package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/familybridge/crm-backend/internal/database"
	"github.com/familybridge/crm-backend/internal/models"
	"github.com/familybridge/crm-backend/internal/providers"
	"github.com/familybridge/crm-backend/pkg/job"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// how many provider calls a bulk send runs at once
const bulkSendConcurrency = 4

// OutreachService handles message templates and bulk sends
type OutreachService struct {
	DB    *database.Queries // database access
	Leads *LeadService      // for logging sends as interactions
	Email providers.EmailSender
	SMS   providers.SMSSender
	AI    providers.TextGenerator
}

// NewOutreachService creates service with its dependencies
func NewOutreachService(db *database.Queries, leads *LeadService,
	email providers.EmailSender, sms providers.SMSSender, ai providers.TextGenerator) *OutreachService {
	return &OutreachService{
		DB:    db,
		Leads: leads,
		Email: email,
		SMS:   sms,
		AI:    ai,
	}
}

// CreateTemplate makes a new outreach template with validation
func (s *OutreachService) CreateTemplate(ctx context.Context, input models.CreateTemplateInput) (models.MessageTemplate, error) {
	if !input.Channel.IsValid() {
		return models.MessageTemplate{}, fmt.Errorf("unknown channel: %s", input.Channel)
	}
	if strings.TrimSpace(input.Name) == "" {
		return models.MessageTemplate{}, errors.New("template name cannot be empty")
	}
	if strings.TrimSpace(input.Body) == "" {
		return models.MessageTemplate{}, errors.New("template body cannot be empty")
	}
	if input.Persona != nil && !input.Persona.IsValid() {
		return models.MessageTemplate{}, fmt.Errorf("unknown persona: %s", *input.Persona)
	}
	if input.FunnelStage != nil && !input.FunnelStage.IsValid() {
		return models.MessageTemplate{}, fmt.Errorf("unknown funnel stage: %s", *input.FunnelStage)
	}

	params := database.CreateMessageTemplateParams{
		ID:      uuid.New(),
		Channel: string(input.Channel),
		Name:    input.Name,
		Subject: input.Subject,
		Body:    input.Body,
	}
	if input.Persona != nil {
		params.Persona = sql.NullString{String: string(*input.Persona), Valid: true}
	}
	if input.FunnelStage != nil {
		params.FunnelStage = sql.NullString{String: string(*input.FunnelStage), Valid: true}
	}

	created, err := s.DB.CreateMessageTemplate(ctx, params)
	if err != nil {
		log.Printf("Error creating template: %v", err)
		return models.MessageTemplate{}, fmt.Errorf("failed to create template: %w", err)
	}
	return templateFromDB(created), nil
}

// GetTemplate retrieves one template by ID
func (s *OutreachService) GetTemplate(ctx context.Context, id uuid.UUID) (models.MessageTemplate, error) {
	t, err := s.DB.GetMessageTemplate(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.MessageTemplate{}, fmt.Errorf("template not found: %w", err)
		}
		return models.MessageTemplate{}, fmt.Errorf("failed to get template: %w", err)
	}
	return templateFromDB(t), nil
}

// ListTemplates returns templates, optionally narrowed to one channel
func (s *OutreachService) ListTemplates(ctx context.Context, channel *models.MessageChannel) ([]models.MessageTemplate, error) {
	var ch sql.NullString
	if channel != nil {
		if !channel.IsValid() {
			return nil, fmt.Errorf("unknown channel: %s", *channel)
		}
		ch = sql.NullString{String: string(*channel), Valid: true}
	}

	rows, err := s.DB.ListMessageTemplates(ctx, ch)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	out := make([]models.MessageTemplate, len(rows))
	for i, t := range rows {
		out[i] = templateFromDB(t)
	}
	return out, nil
}

// UpdateTemplate applies a partial edit
func (s *OutreachService) UpdateTemplate(ctx context.Context, id uuid.UUID, input models.UpdateTemplateInput) (models.MessageTemplate, error) {
	current, err := s.DB.GetMessageTemplate(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.MessageTemplate{}, fmt.Errorf("template not found: %w", err)
		}
		return models.MessageTemplate{}, fmt.Errorf("failed to load template: %w", err)
	}

	params := database.UpdateMessageTemplateParams{
		ID:          id,
		Name:        current.Name,
		Subject:     current.Subject,
		Body:        current.Body,
		Persona:     current.Persona,
		FunnelStage: current.FunnelStage,
		IsActive:    current.IsActive,
	}
	if input.Name != nil {
		params.Name = *input.Name
	}
	if input.Subject != nil {
		params.Subject = *input.Subject
	}
	if input.Body != nil {
		if strings.TrimSpace(*input.Body) == "" {
			return models.MessageTemplate{}, errors.New("template body cannot be empty")
		}
		params.Body = *input.Body
	}
	if input.Persona != nil {
		if !input.Persona.IsValid() {
			return models.MessageTemplate{}, fmt.Errorf("unknown persona: %s", *input.Persona)
		}
		params.Persona = sql.NullString{String: string(*input.Persona), Valid: true}
	}
	if input.FunnelStage != nil {
		if !input.FunnelStage.IsValid() {
			return models.MessageTemplate{}, fmt.Errorf("unknown funnel stage: %s", *input.FunnelStage)
		}
		params.FunnelStage = sql.NullString{String: string(*input.FunnelStage), Valid: true}
	}
	if input.IsActive != nil {
		params.IsActive = *input.IsActive
	}

	updated, err := s.DB.UpdateMessageTemplate(ctx, params)
	if err != nil {
		log.Printf("Error updating template: %v", err)
		return models.MessageTemplate{}, fmt.Errorf("failed to update template: %w", err)
	}
	return templateFromDB(updated), nil
}

// DeleteTemplate removes a template
func (s *OutreachService) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	if err := s.DB.DeleteMessageTemplate(ctx, id); err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}

// RenderTemplate substitutes the lead's fields into the template body and
// subject. Unknown placeholders are left in place so they're easy to spot
// in a preview. Pure function.
func RenderTemplate(tmpl models.MessageTemplate, lead models.Lead) models.RenderedMessage {
	replacer := strings.NewReplacer(
		"{{firstName}}", lead.FirstName,
		"{{lastName}}", lead.LastName,
		"{{email}}", lead.Email,
		"{{persona}}", string(lead.Persona),
	)

	msg := models.RenderedMessage{
		LeadID:  lead.ID,
		Channel: tmpl.Channel,
		Subject: replacer.Replace(tmpl.Subject),
		Body:    replacer.Replace(tmpl.Body),
	}
	if tmpl.Channel == models.ChannelSMS {
		msg.To = lead.Phone
	} else {
		msg.To = lead.Email
	}
	return msg
}

// BulkSendResult summarizes one bulk outreach run
type BulkSendResult struct {
	Sent   int      `json:"sent"`
	Failed int      `json:"failed"`
	Errors []string `json:"errors,omitempty"`
}

// BulkSend renders the template for each selected lead and delivers it via
// the provider. Sends fan out with bounded concurrency; per-lead failures
// are collected rather than retried. Progress is tracked on the given job
// so the admin UI can poll.
func (s *OutreachService) BulkSend(ctx context.Context, jobID string, templateID uuid.UUID, leadIDs []uuid.UUID) (BulkSendResult, error) {
	tmpl, err := s.GetTemplate(ctx, templateID)
	if err != nil {
		job.SetError(jobID, err.Error())
		return BulkSendResult{}, err
	}
	if !tmpl.IsActive {
		err := errors.New("template is not active")
		job.SetError(jobID, err.Error())
		return BulkSendResult{}, err
	}

	job.UpdateStatus(jobID, job.StatusProcessing)

	var (
		mu     sync.Mutex
		result BulkSendResult
		done   int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkSendConcurrency)

	for _, leadID := range leadIDs {
		g.Go(func() error {
			sendErr := s.sendToLead(gctx, tmpl, leadID)

			mu.Lock()
			defer mu.Unlock()
			done++
			if sendErr != nil {
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", leadID, sendErr))
			} else {
				result.Sent++
			}
			job.UpdateProgress(jobID, float32(done)/float32(len(leadIDs))*100,
				fmt.Sprintf("sent %d of %d", done, len(leadIDs)))

			// individual failures don't abort the batch
			return nil
		})
	}

	// errors are collected per lead, so Wait only returns ctx cancellation
	if err := g.Wait(); err != nil {
		job.SetError(jobID, err.Error())
		return result, err
	}

	job.Complete(jobID, result)
	return result, nil
}

// sendToLead renders and delivers one message, then logs it as an interaction
func (s *OutreachService) sendToLead(ctx context.Context, tmpl models.MessageTemplate, leadID uuid.UUID) error {
	lead, err := s.Leads.GetLead(ctx, leadID)
	if err != nil {
		return err
	}

	msg := RenderTemplate(tmpl, lead)
	if msg.To == "" {
		return fmt.Errorf("lead has no %s address", tmpl.Channel)
	}

	switch tmpl.Channel {
	case models.ChannelEmail:
		err = s.Email.SendEmail(ctx, msg.To, msg.Subject, msg.Body)
	case models.ChannelSMS:
		err = s.SMS.SendSMS(ctx, msg.To, msg.Body)
	default:
		err = fmt.Errorf("unknown channel: %s", tmpl.Channel)
	}
	if err != nil {
		return err
	}

	// the send itself is an engagement touchpoint
	_, err = s.Leads.RecordInteraction(ctx, leadID, models.CreateInteractionInput{
		InteractionType: fmt.Sprintf("outreach_%s", tmpl.Channel),
		Description:     fmt.Sprintf("Sent template %q", tmpl.Name),
		ScoreDelta:      0,
	})
	if err != nil {
		// message went out - a failed log entry shouldn't fail the send
		log.Printf("Warning: failed to log outreach interaction for %s: %v", leadID, err)
	}
	return nil
}

// QualifyLead asks the AI provider for a qualification summary and appends
// it to the lead's notes. Runs synchronously inside the request - if the
// provider call fails the admin just sees the error and can retry.
func (s *OutreachService) QualifyLead(ctx context.Context, leadID uuid.UUID) (models.Lead, error) {
	lead, err := s.Leads.GetLead(ctx, leadID)
	if err != nil {
		return models.Lead{}, err
	}

	interactions, err := s.Leads.ListInteractions(ctx, leadID)
	if err != nil {
		return models.Lead{}, err
	}

	prompt := buildQualificationPrompt(lead, interactions)
	summary, err := s.AI.GenerateText(ctx, prompt)
	if err != nil {
		log.Printf("Error generating qualification for %s: %v", leadID, err)
		return models.Lead{}, fmt.Errorf("qualification failed: %w", err)
	}

	updated, err := s.DB.AppendLeadNotes(ctx, database.AppendLeadNotesParams{
		ID:    leadID,
		Notes: "AI qualification: " + summary,
	})
	if err != nil {
		return models.Lead{}, fmt.Errorf("failed to save qualification: %w", err)
	}

	_, err = s.Leads.RecordInteraction(ctx, leadID, models.CreateInteractionInput{
		InteractionType: "ai_qualification",
		Description:     "Automated qualification summary generated",
		ScoreDelta:      0,
	})
	if err != nil {
		log.Printf("Warning: failed to log qualification interaction for %s: %v", leadID, err)
	}

	return leadFromDB(updated), nil
}

// buildQualificationPrompt assembles what the AI provider sees
func buildQualificationPrompt(lead models.Lead, interactions []models.Interaction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Assess this nonprofit program lead and summarize fit in 2-3 sentences.\n")
	fmt.Fprintf(&b, "Persona: %s, funnel stage: %s, engagement score: %d, status: %s.\n",
		lead.Persona, lead.FunnelStage, lead.EngagementScore, lead.LeadStatus)
	if lead.Source != "" {
		fmt.Fprintf(&b, "Source: %s.\n", lead.Source)
	}
	if len(interactions) > 0 {
		b.WriteString("Recent interactions:\n")
		for _, i := range interactions {
			fmt.Fprintf(&b, "- %s: %s\n", i.InteractionType, i.Description)
		}
	}
	return b.String()
}

// convert db row to app model

func templateFromDB(t database.MessageTemplate) models.MessageTemplate {
	out := models.MessageTemplate{
		ID:        t.ID,
		Channel:   models.MessageChannel(t.Channel),
		Name:      t.Name,
		Subject:   t.Subject,
		Body:      t.Body,
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.Persona.Valid {
		p := models.Persona(t.Persona.String)
		out.Persona = &p
	}
	if t.FunnelStage.Valid {
		s := models.FunnelStage(t.FunnelStage.String)
		out.FunnelStage = &s
	}
	return out
}
