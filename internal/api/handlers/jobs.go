package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/familybridge/crm-backend/pkg/job"
)

// Response structs for job endpoints
type JobResponse struct {
	Data *job.Job `json:"data"`
}

type JobCleanupResponse struct {
	Message string `json:"message"`
	Cleaned int    `json:"cleaned"`
}

// JobHandler handles background job status requests
type JobHandler struct{}

// NewJobHandler creates new job handler
func NewJobHandler() *JobHandler {
	return &JobHandler{}
}

// GetJob handles GET /api/jobs?id={jobId} - checks job status.
// The admin UI polls this while a bulk send is running.
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("id")
	if jobID == "" {
		http.Error(w, "Job ID is required", http.StatusBadRequest)
		return
	}

	j, exists := job.Get(jobID)
	if !exists {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	response := JobResponse{
		Data: j,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// CleanupJobs handles POST /api/jobs/cleanup - manually cleans old jobs
func (h *JobHandler) CleanupJobs(w http.ResponseWriter, r *http.Request) {
	// default to 24 hours if not specified
	ageStr := r.URL.Query().Get("age")
	age := 24 * time.Hour

	if ageStr != "" {
		var err error
		age, err = time.ParseDuration(ageStr)
		if err != nil {
			http.Error(w, "Invalid duration format", http.StatusBadRequest)
			return
		}
	}

	cleaned := job.CleanupOld(age)

	response := JobCleanupResponse{
		Message: "Cleanup completed",
		Cleaned: cleaned,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
