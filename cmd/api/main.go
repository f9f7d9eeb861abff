package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/familybridge/crm-backend/internal/api"
	"github.com/familybridge/crm-backend/internal/database"
	"github.com/familybridge/crm-backend/internal/providers"
	"github.com/familybridge/crm-backend/internal/services"
	"github.com/familybridge/crm-backend/pkg/seed"
	"github.com/familybridge/crm-backend/pkg/session"
	"github.com/familybridge/crm-backend/pkg/util"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// main entry point - sets up everything and starts the server
func main() {
	// load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		log.Printf("Warning: Failed to load .env file: %s\n", err)
		// not a big deal - Docker will set these anyway
	}

	dbURL := os.Getenv("DB_URL")
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// outbound provider config - blank values mean the provider calls
	// will fail, which is fine for local dev without real accounts
	providerCfg := providers.Config{
		EmailAPIURL: util.GetEnv("EMAIL_API_URL", ""),
		EmailAPIKey: util.GetEnv("EMAIL_API_KEY", ""),
		SMSAPIURL:   util.GetEnv("SMS_API_URL", ""),
		SMSAPIKey:   util.GetEnv("SMS_API_KEY", ""),
		AIAPIURL:    util.GetEnv("AI_API_URL", ""),
		AIAPIKey:    util.GetEnv("AI_API_KEY", ""),
	}
	provider := providers.NewClient(providerCfg)

	// connect to postgres
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %s\n", err)
		return
	}
	defer db.Close()

	queries := database.New(db)
	session.Initialize(queries, jwtSecret) // global session store - not ideal but works

	// optional seed data for fresh deployments
	if seedFile := util.GetSeedFile(); seedFile != "" {
		if err := applySeed(context.Background(), db, provider, seedFile); err != nil {
			log.Fatalf("Failed to apply seed data: %s\n", err)
		}
	}

	// wire everything together
	server := api.NewServer(db, provider)
	handler := server.EnableCORS(server) // needed for frontend requests

	port := util.GetPort()
	fmt.Println("Starting server on :" + port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Could not start server: %s\n", err)
	}
}

// applySeed imports content items, templates and staff accounts from a
// seed file. Errors on individual rows abort the import so a half-seeded
// database doesn't go unnoticed.
func applySeed(ctx context.Context, db *sql.DB, provider *providers.Client, path string) error {
	loader := seed.NewLoader(path)
	file, err := loader.Load()
	if err != nil {
		return err
	}

	queries := database.New(db)
	contentSvc := services.NewContentService(queries)
	leadSvc := services.NewLeadService(services.NewSQLLeadStore(db))
	outreachSvc := services.NewOutreachService(queries, leadSvc, provider, provider, provider)
	userSvc := services.NewUserService(queries)

	for _, cs := range file.ContentItems {
		item, err := contentSvc.CreateContentItem(ctx, cs.Item)
		if err != nil {
			return fmt.Errorf("seeding content item %q: %w", cs.Item.Title, err)
		}
		for _, o := range cs.Overrides {
			if _, err := contentSvc.UpsertVisibility(ctx, o.ToInput(item.ID)); err != nil {
				return fmt.Errorf("seeding visibility for %q: %w", cs.Item.Title, err)
			}
		}
	}

	for _, tmpl := range file.Templates {
		if _, err := outreachSvc.CreateTemplate(ctx, tmpl); err != nil {
			return fmt.Errorf("seeding template %q: %w", tmpl.Name, err)
		}
	}

	for _, u := range file.Users {
		if _, err := userSvc.CreateUser(ctx, u.Name, u.Email, u.Role, u.Password); err != nil {
			return fmt.Errorf("seeding user %q: %w", u.Email, err)
		}
	}

	log.Printf("Seed data applied: %d content items, %d templates, %d users",
		len(file.ContentItems), len(file.Templates), len(file.Users))
	return nil
}
