package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/familybridge/crm-backend/internal/api/handlers"
	"github.com/familybridge/crm-backend/internal/database"
	"github.com/familybridge/crm-backend/internal/providers"
	"github.com/familybridge/crm-backend/internal/services"
	"github.com/familybridge/crm-backend/pkg/job"
)

// Server holds all the app components together
type Server struct {
	DB *database.Queries // direct db access - probably should refactor this later

	Router *http.ServeMux // handles routing requests

	// handlers for different parts of the API
	ContentHandler   *handlers.ContentHandler
	LeadHandler      *handlers.LeadHandler
	TaskHandler      *handlers.TaskHandler
	ABTestHandler    *handlers.ABTestHandler
	OutreachHandler  *handlers.OutreachHandler
	VolunteerHandler *handlers.VolunteerHandler
	AuthHandler      *handlers.AuthHandler
	AdminHandler     *handlers.AdminHandler // for admin operations
	JobHandler       *handlers.JobHandler
}

// NewServer wires up all the dependencies and returns a ready-to-use server
func NewServer(db *sql.DB, provider *providers.Client) *Server {
	dbQueries := database.New(db)

	job.Initialize()
	// start cleanup routine in background - cleans old jobs every hour
	go job.CleanupRoutine(1*time.Hour, 24*time.Hour)

	// create service layer instances
	contentSvc := services.NewContentService(dbQueries)
	leadSvc := services.NewLeadService(services.NewSQLLeadStore(db))
	taskSvc := services.NewTaskService(dbQueries)
	abtestSvc := services.NewABTestService(dbQueries)
	outreachSvc := services.NewOutreachService(dbQueries, leadSvc, provider, provider, provider)
	volunteerSvc := services.NewVolunteerService(dbQueries, leadSvc)
	userSvc := services.NewUserService(dbQueries)
	adminSvc := services.NewAdminService(dbQueries)

	// wire everything together
	server := &Server{
		DB:               dbQueries,
		Router:           http.NewServeMux(),
		ContentHandler:   handlers.NewContentHandler(contentSvc),
		LeadHandler:      handlers.NewLeadHandler(leadSvc),
		TaskHandler:      handlers.NewTaskHandler(taskSvc),
		ABTestHandler:    handlers.NewABTestHandler(abtestSvc),
		OutreachHandler:  handlers.NewOutreachHandler(outreachSvc),
		VolunteerHandler: handlers.NewVolunteerHandler(volunteerSvc),
		AuthHandler:      handlers.NewAuthHandler(userSvc),
		AdminHandler:     handlers.NewAdminHandler(adminSvc),
		JobHandler:       handlers.NewJobHandler(),
	}

	server.setupRoutes()
	return server
}

// setupRoutes maps all the endpoints to handler functions
func (s *Server) setupRoutes() {
	s.Router.HandleFunc("/api", s.HelloHandler)

	// public endpoints - the marketing site hits these without a token
	s.Router.HandleFunc("GET /api/content/visible/{type}", s.ContentHandler.GetVisible)
	s.Router.HandleFunc("POST /api/leads", s.LeadHandler.Capture)
	s.Router.HandleFunc("POST /api/abtests/{id}/record", s.ABTestHandler.RecordEvent)

	// auth
	s.Router.HandleFunc("POST /api/auth/login", s.AuthHandler.Login)
	s.Router.HandleFunc("POST /api/auth/logout", s.AuthHandler.Logout)
	s.Router.HandleFunc("GET /api/auth/me", s.AuthHandler.Me)

	// content management
	s.Router.HandleFunc("GET /api/content", s.Protected(s.ContentHandler.List))
	s.Router.HandleFunc("POST /api/content", s.Protected(s.ContentHandler.Create))
	s.Router.HandleFunc("GET /api/content/{id}", s.Protected(s.ContentHandler.Get))
	s.Router.HandleFunc("PUT /api/content/{id}", s.Protected(s.ContentHandler.Update))
	s.Router.HandleFunc("DELETE /api/content/{id}", s.Protected(s.ContentHandler.Delete))
	s.Router.HandleFunc("POST /api/content/{id}/visibility", s.Protected(s.ContentHandler.UpsertVisibility))
	s.Router.HandleFunc("GET /api/content/{id}/visibility", s.Protected(s.ContentHandler.ListVisibility))
	s.Router.HandleFunc("DELETE /api/content/visibility/{id}", s.Protected(s.ContentHandler.DeleteVisibility))

	// lead management
	s.Router.HandleFunc("GET /api/leads", s.Protected(s.LeadHandler.List))
	s.Router.HandleFunc("GET /api/leads/{id}", s.Protected(s.LeadHandler.Get))
	s.Router.HandleFunc("PUT /api/leads/{id}", s.Protected(s.LeadHandler.Update))
	s.Router.HandleFunc("DELETE /api/leads/{id}", s.Protected(s.LeadHandler.Delete))
	s.Router.HandleFunc("POST /api/leads/{id}/interactions", s.Protected(s.LeadHandler.RecordInteraction))
	s.Router.HandleFunc("GET /api/leads/{id}/interactions", s.Protected(s.LeadHandler.ListInteractions))
	s.Router.HandleFunc("POST /api/leads/{id}/stage", s.Protected(s.LeadHandler.OverrideStage))
	s.Router.HandleFunc("GET /api/leads/{id}/history", s.Protected(s.LeadHandler.History))
	s.Router.HandleFunc("POST /api/leads/{id}/assignment", s.Protected(s.LeadHandler.Assign))
	s.Router.HandleFunc("GET /api/leads/{id}/assignments", s.Protected(s.LeadHandler.ListAssignments))
	s.Router.HandleFunc("POST /api/leads/{id}/qualify", s.Protected(s.OutreachHandler.QualifyLead))

	// follow-up tasks
	s.Router.HandleFunc("GET /api/tasks", s.Protected(s.TaskHandler.List))
	s.Router.HandleFunc("POST /api/tasks", s.Protected(s.TaskHandler.Create))
	s.Router.HandleFunc("GET /api/tasks/{id}", s.Protected(s.TaskHandler.Get))
	s.Router.HandleFunc("PATCH /api/tasks/{id}", s.Protected(s.TaskHandler.Update))
	s.Router.HandleFunc("DELETE /api/tasks/{id}", s.Protected(s.TaskHandler.Delete))

	// A/B experiments
	s.Router.HandleFunc("GET /api/abtests", s.Protected(s.ABTestHandler.List))
	s.Router.HandleFunc("POST /api/abtests", s.Protected(s.ABTestHandler.Create))
	s.Router.HandleFunc("GET /api/abtests/{id}", s.Protected(s.ABTestHandler.Get))
	s.Router.HandleFunc("POST /api/abtests/{id}/status", s.Protected(s.ABTestHandler.ChangeStatus))
	s.Router.HandleFunc("GET /api/abtests/{id}/results", s.Protected(s.ABTestHandler.Results))
	s.Router.HandleFunc("DELETE /api/abtests/{id}", s.Protected(s.ABTestHandler.Delete))

	// templates and outreach
	s.Router.HandleFunc("GET /api/templates", s.Protected(s.OutreachHandler.ListTemplates))
	s.Router.HandleFunc("POST /api/templates", s.Protected(s.OutreachHandler.CreateTemplate))
	s.Router.HandleFunc("GET /api/templates/{id}", s.Protected(s.OutreachHandler.GetTemplate))
	s.Router.HandleFunc("PUT /api/templates/{id}", s.Protected(s.OutreachHandler.UpdateTemplate))
	s.Router.HandleFunc("DELETE /api/templates/{id}", s.Protected(s.OutreachHandler.DeleteTemplate))
	s.Router.HandleFunc("POST /api/templates/{id}/preview", s.Protected(s.OutreachHandler.Preview))
	s.Router.HandleFunc("POST /api/outreach/bulk", s.Protected(s.OutreachHandler.BulkSend))

	// volunteers
	s.Router.HandleFunc("GET /api/volunteers", s.Protected(s.VolunteerHandler.List))
	s.Router.HandleFunc("POST /api/volunteers", s.Protected(s.VolunteerHandler.Create))
	s.Router.HandleFunc("GET /api/volunteers/{id}", s.Protected(s.VolunteerHandler.Get))
	s.Router.HandleFunc("PUT /api/volunteers/{id}", s.Protected(s.VolunteerHandler.Update))
	s.Router.HandleFunc("POST /api/volunteers/{id}/hours", s.Protected(s.VolunteerHandler.LogHours))
	s.Router.HandleFunc("GET /api/volunteers/{id}/hours", s.Protected(s.VolunteerHandler.HoursSummary))

	// staff accounts
	s.Router.HandleFunc("GET /api/users", s.Protected(s.AuthHandler.ListUsers))
	s.Router.HandleFunc("POST /api/users", s.Protected(s.AuthHandler.CreateUser))

	// admin endpoints
	s.Router.HandleFunc("POST /api/admin/factory-reset", s.Protected(s.AdminHandler.FactoryReset))
	s.Router.HandleFunc("GET /api/admin/stats", s.Protected(s.AdminHandler.GetStats))

	// background job tracking
	s.Router.HandleFunc("GET /api/jobs", s.Protected(s.JobHandler.GetJob))
	s.Router.HandleFunc("POST /api/jobs/cleanup", s.Protected(s.JobHandler.CleanupJobs))
}

// ServeHTTP implements the http.Handler interface
// This allows the server to be used directly with http.ListenAndServe
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Delegate to the router
	s.Router.ServeHTTP(w, r)
}

// HelloHandler is a simple handler for the base API endpoint
// This is kept at the server level as it doesn't require business logic
func (s *Server) HelloHandler(w http.ResponseWriter, r *http.Request) {
	type responseData struct {
		Message string `json:"message"`
	}

	response := responseData{Message: "FamilyBridge CRM API"}
	jsonResponse, _ := json.Marshal(response)
	w.Header().Set("Content-Type", "application/json")
	w.Write(jsonResponse)
}
