package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/familybridge/crm-backend/internal/models"
	"github.com/familybridge/crm-backend/internal/services"
	"github.com/familybridge/crm-backend/pkg/job"
	"github.com/google/uuid"
)

// Response structs for template and outreach endpoints
type TemplateListResponse struct {
	Message string                   `json:"message"`
	Data    []models.MessageTemplate `json:"data"`
}

type TemplateResponse struct {
	Message string                 `json:"message"`
	Data    models.MessageTemplate `json:"data"`
}

type PreviewResponse struct {
	Message string                 `json:"message"`
	Data    models.RenderedMessage `json:"data"`
}

type BulkSendStartResponse struct {
	Message string `json:"message"`
	JobID   string `json:"job_id"`
}

// request structs
type PreviewRequest struct {
	LeadID uuid.UUID `json:"lead_id"`
}

type BulkSendRequest struct {
	TemplateID uuid.UUID   `json:"template_id"`
	LeadIDs    []uuid.UUID `json:"lead_ids"`
}

// OutreachHandler processes template and messaging HTTP requests
type OutreachHandler struct {
	Service *services.OutreachService // rendering, delivery, AI qualification
}

// NewOutreachHandler creates handler with injected service
func NewOutreachHandler(service *services.OutreachService) *OutreachHandler {
	return &OutreachHandler{Service: service}
}

// ListTemplates handles GET /api/templates?channel=
func (h *OutreachHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	var channel *models.MessageChannel
	if v := r.URL.Query().Get("channel"); v != "" {
		c := models.MessageChannel(v)
		channel = &c
	}

	templates, err := h.Service.ListTemplates(r.Context(), channel)
	if err != nil {
		log.Printf("Error listing templates: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response := TemplateListResponse{
		Message: "Templates retrieved successfully",
		Data:    templates,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// CreateTemplate handles POST /api/templates
func (h *OutreachHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var input models.CreateTemplateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tmpl, err := h.Service.CreateTemplate(r.Context(), input)
	if err != nil {
		log.Printf("Error creating template: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	SendCreatedResponse(w, "Template created", tmpl, "Template created: "+tmpl.Name)
}

// GetTemplate handles GET /api/templates/{id}
func (h *OutreachHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid template ID", http.StatusBadRequest)
		return
	}

	tmpl, err := h.Service.GetTemplate(r.Context(), id)
	if err != nil {
		http.Error(w, "Template not found", http.StatusNotFound)
		return
	}

	response := TemplateResponse{
		Message: "Template retrieved",
		Data:    tmpl,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// UpdateTemplate handles PUT /api/templates/{id}
func (h *OutreachHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid template ID", http.StatusBadRequest)
		return
	}

	var input models.UpdateTemplateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tmpl, err := h.Service.UpdateTemplate(r.Context(), id, input)
	if err != nil {
		log.Printf("Error updating template: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response := TemplateResponse{
		Message: "Template updated",
		Data:    tmpl,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// DeleteTemplate handles DELETE /api/templates/{id}
func (h *OutreachHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid template ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteTemplate(r.Context(), id); err != nil {
		log.Printf("Error deleting template: %v", err)
		http.Error(w, "Failed to delete template", http.StatusInternalServerError)
		return
	}

	SendSuccessResponse(w, "Template deleted", nil, "Template deleted: "+id.String())
}

// Preview handles POST /api/templates/{id}/preview - renders the template
// against a real lead without sending anything
func (h *OutreachHandler) Preview(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid template ID", http.StatusBadRequest)
		return
	}

	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tmpl, err := h.Service.GetTemplate(r.Context(), id)
	if err != nil {
		http.Error(w, "Template not found", http.StatusNotFound)
		return
	}

	lead, err := h.Service.Leads.GetLead(r.Context(), req.LeadID)
	if err != nil {
		http.Error(w, "Lead not found", http.StatusNotFound)
		return
	}

	response := PreviewResponse{
		Message: "Preview rendered",
		Data:    services.RenderTemplate(tmpl, lead),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// BulkSend handles POST /api/outreach/bulk - kicks off an async send.
// Returns a job id immediately, progress is polled via /api/jobs.
func (h *OutreachHandler) BulkSend(w http.ResponseWriter, r *http.Request) {
	var req BulkSendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.TemplateID == uuid.Nil {
		http.Error(w, "template_id is required", http.StatusBadRequest)
		return
	}
	if len(req.LeadIDs) == 0 {
		http.Error(w, "lead_ids cannot be empty", http.StatusBadRequest)
		return
	}

	jobID := job.Create("bulk_send")
	log.Printf("Starting bulk send job %s for %d leads", jobID, len(req.LeadIDs))

	go func() {
		// detached from the request context so the send survives the response,
		// but still bounded so a stuck provider can't leak the goroutine
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		if _, err := h.Service.BulkSend(ctx, jobID, req.TemplateID, req.LeadIDs); err != nil {
			log.Printf("Bulk send job %s failed: %v", jobID, err)
		}
	}()

	response := BulkSendStartResponse{
		Message: "Bulk send started",
		JobID:   jobID,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(response)
}

// QualifyLead handles POST /api/leads/{id}/qualify - AI summary of the
// lead's interaction history, appended to the lead's notes
func (h *OutreachHandler) QualifyLead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid lead ID", http.StatusBadRequest)
		return
	}

	lead, err := h.Service.QualifyLead(r.Context(), id)
	if err != nil {
		log.Printf("Error qualifying lead: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response := LeadResponse{
		Message: "Lead qualified",
		Data:    lead,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
