package api

import (
	"net/http"

	"github.com/familybridge/crm-backend/internal/api/handlers"
	"github.com/familybridge/crm-backend/pkg/session"
)

// EnableCORS adds CORS headers so frontend can talk to the API
func (s *Server) EnableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// allow all origins for now - should probably restrict this later
		w.Header().Set("Access-Control-Allow-Origin", "*")

		// allow the HTTP methods we use
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")

		// need these for JSON requests with bearer tokens
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// handle preflight requests from browser
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		// pass request along to actual handler
		next.ServeHTTP(w, r)
	})
}

// Protected rejects requests without a valid session token. Used on every
// staff-facing route; the public site endpoints skip it.
func (s *Server) Protected(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := handlers.BearerToken(r)
		if token == "" {
			http.Error(w, "Missing bearer token", http.StatusUnauthorized)
			return
		}

		if _, err := session.Validate(r.Context(), token); err != nil {
			http.Error(w, "Invalid or expired session", http.StatusUnauthorized)
			return
		}

		next(w, r)
	}
}
