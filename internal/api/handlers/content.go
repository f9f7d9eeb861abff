package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/familybridge/crm-backend/internal/models"
	"github.com/familybridge/crm-backend/internal/services"
	"github.com/google/uuid"
)

// Response structs for content endpoints
type VisibleContentResponse struct {
	Message string                   `json:"message"`
	Data    []models.ResolvedContent `json:"data"`
}

type ContentItemListResponse struct {
	Message string               `json:"message"`
	Data    []models.ContentItem `json:"data"`
}

type ContentItemResponse struct {
	Message string             `json:"message"`
	Data    models.ContentItem `json:"data"`
}

type VisibilityResponse struct {
	Message string                   `json:"message"`
	Data    models.ContentVisibility `json:"data"`
}

type VisibilityListResponse struct {
	Message string                     `json:"message"`
	Data    []models.ContentVisibility `json:"data"`
}

// ContentHandler processes content-related HTTP requests
type ContentHandler struct {
	Service *services.ContentService // resolution + CRUD logic lives here
}

// NewContentHandler creates handler with injected service
func NewContentHandler(service *services.ContentService) *ContentHandler {
	return &ContentHandler{Service: service}
}

// GetVisible handles GET /api/content/visible/{type}?persona=&funnelStage=
// This is the endpoint the public site hits on every page render.
func (h *ContentHandler) GetVisible(w http.ResponseWriter, r *http.Request) {
	contentType := models.ContentType(r.PathValue("type"))
	persona := models.Persona(r.URL.Query().Get("persona"))
	stage := models.FunnelStage(r.URL.Query().Get("funnelStage"))

	if persona == "" || stage == "" {
		http.Error(w, "persona and funnelStage query parameters are required", http.StatusBadRequest)
		return
	}

	resolved, err := h.Service.GetVisibleContent(r.Context(), contentType, persona, stage)
	if err != nil {
		log.Printf("Error resolving content: %v", err)
		if errors.Is(err, services.ErrUnknownContentType) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to resolve content", http.StatusInternalServerError)
		return
	}

	response := VisibleContentResponse{
		Message: "Content resolved successfully",
		Data:    resolved,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// List handles GET /api/content - returns every item for the admin UI
func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListContentItems(r.Context())
	if err != nil {
		log.Printf("Error retrieving content items: %v", err)
		http.Error(w, "Failed to retrieve content items", http.StatusInternalServerError)
		return
	}

	response := ContentItemListResponse{
		Message: "Content items retrieved successfully",
		Data:    items,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Create handles POST /api/content - makes a new content item
func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.CreateContentItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	item, err := h.Service.CreateContentItem(r.Context(), input)
	if err != nil {
		log.Printf("Error creating content item: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	SendCreatedResponse(w, "Content item created", item, "Content item created: "+item.Title)
}

// Get handles GET /api/content/{id}
func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid content item ID", http.StatusBadRequest)
		return
	}

	item, err := h.Service.GetContentItem(r.Context(), id)
	if err != nil {
		http.Error(w, "Content item not found", http.StatusNotFound)
		return
	}

	response := ContentItemResponse{
		Message: "Content item retrieved",
		Data:    item,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Update handles PUT /api/content/{id}
func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid content item ID", http.StatusBadRequest)
		return
	}

	var input models.UpdateContentItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	item, err := h.Service.UpdateContentItem(r.Context(), id, input)
	if err != nil {
		log.Printf("Error updating content item: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response := ContentItemResponse{
		Message: "Content item updated",
		Data:    item,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Delete handles DELETE /api/content/{id}
func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid content item ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteContentItem(r.Context(), id); err != nil {
		log.Printf("Error deleting content item: %v", err)
		http.Error(w, "Failed to delete content item", http.StatusInternalServerError)
		return
	}

	SendSuccessResponse(w, "Content item deleted", nil, "Content item deleted: "+id.String())
}

// UpsertVisibility handles POST /api/content/{id}/visibility
// Creates or replaces the override for one (persona, stage) combination.
func (h *ContentHandler) UpsertVisibility(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid content item ID", http.StatusBadRequest)
		return
	}

	var input models.UpsertContentVisibilityInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	input.ContentItemID = id

	vis, err := h.Service.UpsertVisibility(r.Context(), input)
	if err != nil {
		log.Printf("Error upserting visibility: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response := VisibilityResponse{
		Message: "Visibility rule saved",
		Data:    vis,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// ListVisibility handles GET /api/content/{id}/visibility
func (h *ContentHandler) ListVisibility(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid content item ID", http.StatusBadRequest)
		return
	}

	rules, err := h.Service.ListVisibility(r.Context(), id)
	if err != nil {
		log.Printf("Error listing visibility rules: %v", err)
		http.Error(w, "Failed to list visibility rules", http.StatusInternalServerError)
		return
	}

	response := VisibilityListResponse{
		Message: "Visibility rules retrieved",
		Data:    rules,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// DeleteVisibility handles DELETE /api/content/visibility/{id}
func (h *ContentHandler) DeleteVisibility(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid visibility rule ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteVisibility(r.Context(), id); err != nil {
		log.Printf("Error deleting visibility rule: %v", err)
		http.Error(w, "Failed to delete visibility rule", http.StatusInternalServerError)
		return
	}

	SendSuccessResponse(w, "Visibility rule deleted", nil, "Visibility rule deleted: "+id.String())
}
