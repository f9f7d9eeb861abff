package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/familybridge/crm-backend/internal/models"
	"github.com/familybridge/crm-backend/internal/services"
	"github.com/google/uuid"
)

// Response structs for task endpoints
type TaskListResponse struct {
	Message string        `json:"message"`
	Data    []models.Task `json:"data"`
}

type TaskResponse struct {
	Message string      `json:"message"`
	Data    models.Task `json:"data"`
}

// TaskHandler processes follow-up task HTTP requests
type TaskHandler struct {
	Service *services.TaskService // task business logic
}

// NewTaskHandler creates handler with injected service
func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{Service: service}
}

// List handles GET /api/tasks?leadId=&assigneeId=&status=
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter services.TaskFilter

	if v := r.URL.Query().Get("leadId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			http.Error(w, "Invalid leadId filter", http.StatusBadRequest)
			return
		}
		filter.LeadID = id
	}
	if v := r.URL.Query().Get("assigneeId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			http.Error(w, "Invalid assigneeId filter", http.StatusBadRequest)
			return
		}
		filter.AssigneeID = id
	}
	if v := r.URL.Query().Get("status"); v != "" {
		s := models.TaskStatus(v)
		filter.Status = &s
	}

	tasks, err := h.Service.ListTasks(r.Context(), filter)
	if err != nil {
		log.Printf("Error listing tasks: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response := TaskListResponse{
		Message: "Tasks retrieved successfully",
		Data:    tasks,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Create handles POST /api/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.CreateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	task, err := h.Service.CreateTask(r.Context(), input)
	if err != nil {
		log.Printf("Error creating task: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	SendCreatedResponse(w, "Task created", task, "Task created: "+task.Title)
}

// Get handles GET /api/tasks/{id}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid task ID", http.StatusBadRequest)
		return
	}

	task, err := h.Service.GetTask(r.Context(), id)
	if err != nil {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}

	response := TaskResponse{
		Message: "Task retrieved",
		Data:    task,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Update handles PATCH /api/tasks/{id} - partial updates for status, priority, etc.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid task ID", http.StatusBadRequest)
		return
	}

	var input models.UpdateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	task, err := h.Service.UpdateTask(r.Context(), id, input)
	if err != nil {
		log.Printf("Error updating task: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response := TaskResponse{
		Message: "Task updated",
		Data:    task,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Delete handles DELETE /api/tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid task ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteTask(r.Context(), id); err != nil {
		log.Printf("Error deleting task: %v", err)
		http.Error(w, "Failed to delete task", http.StatusInternalServerError)
		return
	}

	SendSuccessResponse(w, "Task deleted", nil, "Task deleted: "+id.String())
}
