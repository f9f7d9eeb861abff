package services

import (
	"context"
	"fmt"
	"log"

	"github.com/familybridge/crm-backend/internal/database"
	"github.com/familybridge/crm-backend/pkg/job"
	"github.com/familybridge/crm-backend/pkg/session"
)

// AdminService handles administrative operations like factory reset
type AdminService struct {
	DB *database.Queries // database access
}

// NewAdminService creates admin service with database dependency
func NewAdminService(db *database.Queries) *AdminService {
	return &AdminService{
		DB: db,
	}
}

// FactoryResetDatabase clears all data from the database
func (s *AdminService) FactoryResetDatabase(ctx context.Context) error {
	log.Println("Starting factory reset - clearing all database data")

	err := s.DB.FactoryResetDatabase(ctx)
	if err != nil {
		return fmt.Errorf("failed to reset database: %w", err)
	}

	// clear any outstanding staff sessions since users are gone now
	log.Println("Clearing session data")
	if err := session.ClearAllSessions(); err != nil {
		log.Printf("Warning: failed to clear sessions: %v", err)
		// don't fail the whole reset for this
	}

	// drop tracked bulk jobs too - their leads no longer exist
	log.Println("Clearing job data")
	job.CleanupOld(0)

	log.Println("Factory reset completed successfully")
	return nil
}

// GetDatabaseStats returns basic row counts about database contents
func (s *AdminService) GetDatabaseStats(ctx context.Context) (map[string]int, error) {
	stats := make(map[string]int)

	counts := []struct {
		name  string
		count func(context.Context) (int64, error)
	}{
		{"leads", s.DB.CountLeads},
		{"content_items", s.DB.CountContentItems},
		{"ab_tests", s.DB.CountABTests},
		{"tasks", s.DB.CountTasks},
		{"templates", s.DB.CountMessageTemplates},
		{"volunteers", s.DB.CountVolunteers},
		{"users", s.DB.CountUsers},
	}

	for _, c := range counts {
		n, err := c.count(ctx)
		if err != nil {
			log.Printf("Warning: couldn't count %s: %v", c.name, err)
			stats[c.name] = -1
			continue
		}
		stats[c.name] = int(n)
	}

	return stats, nil
}
