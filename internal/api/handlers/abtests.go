package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/familybridge/crm-backend/internal/models"
	"github.com/familybridge/crm-backend/internal/services"
	"github.com/google/uuid"
)

// Response structs for A/B test endpoints
type ABTestListResponse struct {
	Message string          `json:"message"`
	Data    []models.ABTest `json:"data"`
}

type ABTestResponse struct {
	Message string        `json:"message"`
	Data    models.ABTest `json:"data"`
}

type ABTestResultsResponse struct {
	Message string               `json:"message"`
	Data    models.ABTestResults `json:"data"`
}

// request body for status transitions
type ChangeStatusRequest struct {
	Status models.ABTestStatus `json:"status"`
}

// ABTestHandler processes experiment HTTP requests
type ABTestHandler struct {
	Service *services.ABTestService // lifecycle + stats logic
}

// NewABTestHandler creates handler with injected service
func NewABTestHandler(service *services.ABTestService) *ABTestHandler {
	return &ABTestHandler{Service: service}
}

// Create handles POST /api/abtests
func (h *ABTestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.CreateABTestInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	test, err := h.Service.CreateTest(r.Context(), input)
	if err != nil {
		log.Printf("Error creating A/B test: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	SendCreatedResponse(w, "A/B test created", test, "A/B test created: "+test.Name)
}

// List handles GET /api/abtests
func (h *ABTestHandler) List(w http.ResponseWriter, r *http.Request) {
	tests, err := h.Service.ListTests(r.Context())
	if err != nil {
		log.Printf("Error listing A/B tests: %v", err)
		http.Error(w, "Failed to list A/B tests", http.StatusInternalServerError)
		return
	}

	response := ABTestListResponse{
		Message: "A/B tests retrieved successfully",
		Data:    tests,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Get handles GET /api/abtests/{id}
func (h *ABTestHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid test ID", http.StatusBadRequest)
		return
	}

	test, err := h.Service.GetTest(r.Context(), id)
	if err != nil {
		http.Error(w, "A/B test not found", http.StatusNotFound)
		return
	}

	response := ABTestResponse{
		Message: "A/B test retrieved",
		Data:    test,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// ChangeStatus handles POST /api/abtests/{id}/status.
// Completing a significant test stamps the winning arm on the record.
func (h *ABTestHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid test ID", http.StatusBadRequest)
		return
	}

	var req ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	test, err := h.Service.ChangeStatus(r.Context(), id, req.Status)
	if err != nil {
		log.Printf("Error changing A/B test status: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response := ABTestResponse{
		Message: "A/B test status updated",
		Data:    test,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// RecordEvent handles POST /api/abtests/{id}/record - one visitor or conversion
func (h *ABTestHandler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid test ID", http.StatusBadRequest)
		return
	}

	var input models.RecordABTestEventInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	test, err := h.Service.RecordEvent(r.Context(), id, input)
	if err != nil {
		log.Printf("Error recording A/B test event: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response := ABTestResponse{
		Message: "Event recorded",
		Data:    test,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Results handles GET /api/abtests/{id}/results - computed rates and confidence
func (h *ABTestHandler) Results(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid test ID", http.StatusBadRequest)
		return
	}

	results, err := h.Service.GetResults(r.Context(), id)
	if err != nil {
		log.Printf("Error computing A/B test results: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response := ABTestResultsResponse{
		Message: "Results computed",
		Data:    results,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Delete handles DELETE /api/abtests/{id}
func (h *ABTestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid test ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteTest(r.Context(), id); err != nil {
		log.Printf("Error deleting A/B test: %v", err)
		http.Error(w, "Failed to delete A/B test", http.StatusInternalServerError)
		return
	}

	SendSuccessResponse(w, "A/B test deleted", nil, "A/B test deleted: "+id.String())
}
