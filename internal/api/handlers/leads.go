package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/familybridge/crm-backend/internal/models"
	"github.com/familybridge/crm-backend/internal/services"
	"github.com/google/uuid"
)

// Response structs for lead endpoints
type LeadListResponse struct {
	Message string        `json:"message"`
	Data    []models.Lead `json:"data"`
}

type LeadResponse struct {
	Message string      `json:"message"`
	Data    models.Lead `json:"data"`
}

type InteractionListResponse struct {
	Message string               `json:"message"`
	Data    []models.Interaction `json:"data"`
}

type ProgressionHistoryResponse struct {
	Message string                     `json:"message"`
	Data    []models.FunnelProgression `json:"data"`
}

type AssignmentResponse struct {
	Message string            `json:"message"`
	Data    models.Assignment `json:"data"`
}

type AssignmentListResponse struct {
	Message string              `json:"message"`
	Data    []models.Assignment `json:"data"`
}

// LeadHandler processes lead-related HTTP requests
type LeadHandler struct {
	Service *services.LeadService // capture, scoring and funnel logic
}

// NewLeadHandler creates handler with injected service
func NewLeadHandler(service *services.LeadService) *LeadHandler {
	return &LeadHandler{Service: service}
}

// Capture handles POST /api/leads - the public capture endpoint.
// New leads always start in awareness regardless of what the form sends.
func (h *LeadHandler) Capture(w http.ResponseWriter, r *http.Request) {
	var input models.CreateLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	lead, err := h.Service.CaptureLead(r.Context(), input)
	if err != nil {
		log.Printf("Error capturing lead: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	SendCreatedResponse(w, "Lead captured", lead, "Lead captured: "+lead.Email)
}

// List handles GET /api/leads?persona=&funnelStage=&status=
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter models.LeadFilter
	if v := r.URL.Query().Get("persona"); v != "" {
		p := models.Persona(v)
		filter.Persona = &p
	}
	if v := r.URL.Query().Get("funnelStage"); v != "" {
		s := models.FunnelStage(v)
		filter.FunnelStage = &s
	}
	if v := r.URL.Query().Get("status"); v != "" {
		s := models.LeadStatus(v)
		filter.Status = &s
	}

	leads, err := h.Service.ListLeads(r.Context(), filter)
	if err != nil {
		log.Printf("Error listing leads: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response := LeadListResponse{
		Message: "Leads retrieved successfully",
		Data:    leads,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Get handles GET /api/leads/{id}
func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid lead ID", http.StatusBadRequest)
		return
	}

	lead, err := h.Service.GetLead(r.Context(), id)
	if err != nil {
		http.Error(w, "Lead not found", http.StatusNotFound)
		return
	}

	response := LeadResponse{
		Message: "Lead retrieved",
		Data:    lead,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Update handles PUT /api/leads/{id} - contact info, status, notes.
// Funnel stage is not editable here, that goes through the override endpoint.
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid lead ID", http.StatusBadRequest)
		return
	}

	var input models.UpdateLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	lead, err := h.Service.UpdateLead(r.Context(), id, input)
	if err != nil {
		log.Printf("Error updating lead: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response := LeadResponse{
		Message: "Lead updated",
		Data:    lead,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Delete handles DELETE /api/leads/{id}
func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid lead ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteLead(r.Context(), id); err != nil {
		log.Printf("Error deleting lead: %v", err)
		http.Error(w, "Failed to delete lead", http.StatusInternalServerError)
		return
	}

	SendSuccessResponse(w, "Lead deleted", nil, "Lead deleted: "+id.String())
}

// RecordInteraction handles POST /api/leads/{id}/interactions.
// Returns the lead so the caller sees any stage change the event triggered.
func (h *LeadHandler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid lead ID", http.StatusBadRequest)
		return
	}

	var input models.CreateInteractionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	lead, err := h.Service.RecordInteraction(r.Context(), id, input)
	if err != nil {
		log.Printf("Error recording interaction: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response := LeadResponse{
		Message: "Interaction recorded",
		Data:    lead,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// ListInteractions handles GET /api/leads/{id}/interactions
func (h *LeadHandler) ListInteractions(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid lead ID", http.StatusBadRequest)
		return
	}

	interactions, err := h.Service.ListInteractions(r.Context(), id)
	if err != nil {
		log.Printf("Error listing interactions: %v", err)
		http.Error(w, "Failed to list interactions", http.StatusInternalServerError)
		return
	}

	response := InteractionListResponse{
		Message: "Interactions retrieved",
		Data:    interactions,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// OverrideStage handles POST /api/leads/{id}/stage - manual stage override.
// A reason is mandatory, this is the only way to move a lead backward.
func (h *LeadHandler) OverrideStage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid lead ID", http.StatusBadRequest)
		return
	}

	var input models.StageOverrideInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	lead, err := h.Service.OverrideFunnelStage(r.Context(), id, input)
	if err != nil {
		log.Printf("Error overriding funnel stage: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response := LeadResponse{
		Message: "Funnel stage overridden",
		Data:    lead,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// History handles GET /api/leads/{id}/history - funnel progression audit trail
func (h *LeadHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid lead ID", http.StatusBadRequest)
		return
	}

	history, err := h.Service.ListProgressionHistory(r.Context(), id)
	if err != nil {
		log.Printf("Error listing progression history: %v", err)
		http.Error(w, "Failed to list progression history", http.StatusInternalServerError)
		return
	}

	response := ProgressionHistoryResponse{
		Message: "Progression history retrieved",
		Data:    history,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Assign handles POST /api/leads/{id}/assignment.
// The previous active assignment is closed out, only one is live at a time.
func (h *LeadHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid lead ID", http.StatusBadRequest)
		return
	}

	var input models.CreateAssignmentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	assignment, err := h.Service.AssignLead(r.Context(), id, input)
	if err != nil {
		log.Printf("Error assigning lead: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response := AssignmentResponse{
		Message: "Lead assigned",
		Data:    assignment,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// ListAssignments handles GET /api/leads/{id}/assignments
func (h *LeadHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid lead ID", http.StatusBadRequest)
		return
	}

	assignments, err := h.Service.ListAssignments(r.Context(), id)
	if err != nil {
		log.Printf("Error listing assignments: %v", err)
		http.Error(w, "Failed to list assignments", http.StatusInternalServerError)
		return
	}

	response := AssignmentListResponse{
		Message: "Assignments retrieved",
		Data:    assignments,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
