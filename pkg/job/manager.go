// Package job tracks long-running admin actions (bulk outreach sends) in
// memory so the UI can poll for progress. Nothing here survives a restart -
// a crashed send just fails the triggering action.
package job

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status shows what state a job is in
type Status string

const (
	StatusPending    Status = "pending"    // waiting to start
	StatusProcessing Status = "processing" // currently running
	StatusCompleted  Status = "completed"  // finished successfully
	StatusFailed     Status = "failed"     // something went wrong
)

// Job represents one tracked admin action
type Job struct {
	ID           string      `json:"id"`
	Type         string      `json:"type"`                    // what kind of job
	Status       Status      `json:"status"`                  // current state
	Progress     float32     `json:"progress"`                // 0-100 percent done
	CreatedAt    time.Time   `json:"created_at"`              // when it was queued
	StartedAt    time.Time   `json:"started_at,omitempty"`    // when processing began
	CompletedAt  time.Time   `json:"completed_at,omitempty"`  // when it finished
	Message      string      `json:"message,omitempty"`       // status updates
	ErrorMessage string      `json:"error_message,omitempty"` // what went wrong
	Result       interface{} `json:"result,omitempty"`        // final results
}

// Manager keeps track of all running jobs
type Manager struct {
	jobs map[string]*Job
	mu   sync.RWMutex // for thread safety
}

// global manager - another singleton but whatever
var manager *Manager

// Initialize sets up the job manager
func Initialize() {
	manager = &Manager{
		jobs: make(map[string]*Job),
	}
}

// Create makes a new job and returns its ID
func Create(jobType string) string {
	if manager == nil {
		Initialize()
	}

	jobID := uuid.New().String()
	j := &Job{
		ID:        jobID,
		Type:      jobType,
		Status:    StatusPending,
		Progress:  0,
		CreatedAt: time.Now(),
	}

	manager.mu.Lock()
	manager.jobs[jobID] = j
	manager.mu.Unlock()

	return jobID
}

// Get retrieves job info by ID
func Get(jobID string) (*Job, bool) {
	if manager == nil {
		return nil, false
	}

	manager.mu.RLock()
	defer manager.mu.RUnlock()

	j, exists := manager.jobs[jobID]
	return j, exists
}

// UpdateStatus changes the job status
func UpdateStatus(jobID string, status Status) {
	if manager == nil {
		return
	}

	manager.mu.Lock()
	defer manager.mu.Unlock()

	j, exists := manager.jobs[jobID]
	if !exists {
		return
	}

	j.Status = status
	if status == StatusProcessing && j.StartedAt.IsZero() {
		j.StartedAt = time.Now()
	}
	if status == StatusCompleted || status == StatusFailed {
		j.CompletedAt = time.Now()
	}
}

// UpdateProgress updates how much of the job is done
func UpdateProgress(jobID string, progress float32, message string) {
	if manager == nil {
		return
	}

	manager.mu.Lock()
	defer manager.mu.Unlock()

	j, exists := manager.jobs[jobID]
	if !exists {
		return
	}

	j.Progress = progress
	j.Message = message
}

// SetError marks the job as failed with an error message
func SetError(jobID string, errorMessage string) {
	if manager == nil {
		return
	}

	manager.mu.Lock()
	defer manager.mu.Unlock()

	j, exists := manager.jobs[jobID]
	if !exists {
		return
	}

	j.Status = StatusFailed
	j.ErrorMessage = errorMessage
	j.CompletedAt = time.Now()
}

// Complete marks the job as done with optional result data
func Complete(jobID string, result interface{}) {
	if manager == nil {
		return
	}

	manager.mu.Lock()
	defer manager.mu.Unlock()

	j, exists := manager.jobs[jobID]
	if !exists {
		return
	}

	j.Status = StatusCompleted
	j.Progress = 100
	j.Result = result
	j.CompletedAt = time.Now()
}

// CleanupOld removes completed jobs older than the specified age
func CleanupOld(maxAge time.Duration) int {
	if manager == nil {
		return 0
	}

	manager.mu.Lock()
	defer manager.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	cleaned := 0

	for jobID, j := range manager.jobs {
		// only clean up completed or failed jobs
		if (j.Status == StatusCompleted || j.Status == StatusFailed) &&
			!j.CompletedAt.IsZero() && j.CompletedAt.Before(cutoff) {
			delete(manager.jobs, jobID)
			cleaned++
		}
	}

	return cleaned
}

// CleanupRoutine runs cleanup automatically on a schedule
func CleanupRoutine(interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		CleanupOld(maxAge)
	}
}
