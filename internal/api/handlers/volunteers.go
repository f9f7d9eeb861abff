package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/familybridge/crm-backend/internal/models"
	"github.com/familybridge/crm-backend/internal/services"
	"github.com/google/uuid"
)

// Response structs for volunteer endpoints
type VolunteerListResponse struct {
	Message string             `json:"message"`
	Data    []models.Volunteer `json:"data"`
}

type VolunteerResponse struct {
	Message string           `json:"message"`
	Data    models.Volunteer `json:"data"`
}

type VolunteerHoursResponse struct {
	Message string                `json:"message"`
	Data    models.VolunteerHours `json:"data"`
}

type VolunteerHoursSummaryResponse struct {
	Message string                       `json:"message"`
	Data    models.VolunteerHoursSummary `json:"data"`
}

// VolunteerHandler processes volunteer HTTP requests
type VolunteerHandler struct {
	Service *services.VolunteerService // volunteer lifecycle + hours
}

// NewVolunteerHandler creates handler with injected service
func NewVolunteerHandler(service *services.VolunteerService) *VolunteerHandler {
	return &VolunteerHandler{Service: service}
}

// Create handles POST /api/volunteers.
// Linking a lead logs a high-value volunteer_signup interaction on it.
func (h *VolunteerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.CreateVolunteerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	volunteer, err := h.Service.CreateVolunteer(r.Context(), input)
	if err != nil {
		log.Printf("Error creating volunteer: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	SendCreatedResponse(w, "Volunteer created", volunteer, "Volunteer created: "+volunteer.Email)
}

// List handles GET /api/volunteers?status=
func (h *VolunteerHandler) List(w http.ResponseWriter, r *http.Request) {
	var status *models.VolunteerStatus
	if v := r.URL.Query().Get("status"); v != "" {
		s := models.VolunteerStatus(v)
		status = &s
	}

	volunteers, err := h.Service.ListVolunteers(r.Context(), status)
	if err != nil {
		log.Printf("Error listing volunteers: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response := VolunteerListResponse{
		Message: "Volunteers retrieved successfully",
		Data:    volunteers,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Get handles GET /api/volunteers/{id}
func (h *VolunteerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid volunteer ID", http.StatusBadRequest)
		return
	}

	volunteer, err := h.Service.GetVolunteer(r.Context(), id)
	if err != nil {
		http.Error(w, "Volunteer not found", http.StatusNotFound)
		return
	}

	response := VolunteerResponse{
		Message: "Volunteer retrieved",
		Data:    volunteer,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Update handles PUT /api/volunteers/{id}
func (h *VolunteerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid volunteer ID", http.StatusBadRequest)
		return
	}

	var input models.UpdateVolunteerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	volunteer, err := h.Service.UpdateVolunteer(r.Context(), id, input)
	if err != nil {
		log.Printf("Error updating volunteer: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response := VolunteerResponse{
		Message: "Volunteer updated",
		Data:    volunteer,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// LogHours handles POST /api/volunteers/{id}/hours
func (h *VolunteerHandler) LogHours(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid volunteer ID", http.StatusBadRequest)
		return
	}

	var input models.LogHoursInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	entry, err := h.Service.LogHours(r.Context(), id, input)
	if err != nil {
		log.Printf("Error logging volunteer hours: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response := VolunteerHoursResponse{
		Message: "Hours logged",
		Data:    entry,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

// HoursSummary handles GET /api/volunteers/{id}/hours
func (h *VolunteerHandler) HoursSummary(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid volunteer ID", http.StatusBadRequest)
		return
	}

	summary, err := h.Service.GetHoursSummary(r.Context(), id)
	if err != nil {
		log.Printf("Error getting hours summary: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response := VolunteerHoursSummaryResponse{
		Message: "Hours summary retrieved",
		Data:    summary,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
