package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/familybridge/crm-backend/internal/models"
	"github.com/familybridge/crm-backend/internal/services"
	"github.com/familybridge/crm-backend/pkg/session"
)

// Response structs for auth endpoints
type LoginResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    models.User `json:"user"`
}

type UserResponse struct {
	Message string      `json:"message"`
	Data    models.User `json:"data"`
}

type UserListResponse struct {
	Message string        `json:"message"`
	Data    []models.User `json:"data"`
}

// request struct for staff account creation
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role,omitempty"`
	Password string `json:"password"`
}

// AuthHandler handles login and staff account management
type AuthHandler struct {
	Service *services.UserService // credentials + account logic
}

// NewAuthHandler creates handler with injected user service
func NewAuthHandler(service *services.UserService) *AuthHandler {
	return &AuthHandler{Service: service}
}

// Login handles POST /api/auth/login - returns a bearer token on success
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input models.LoginInput
	if err := ValidateJSONBody(r, &input); err != nil {
		SendErrorResponse(w, err.Error(), http.StatusBadRequest, "Invalid login request", err)
		return
	}

	token, user, err := h.Service.Login(r.Context(), input)
	if err != nil {
		// don't log the email on failures, just the fact
		SendErrorResponse(w, "Invalid email or password", http.StatusUnauthorized, "Login failed", nil)
		return
	}

	log.Printf("User logged in: %s", user.Email)

	response := LoginResponse{
		Message: "Login successful",
		Token:   token,
		User:    user,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Logout handles POST /api/auth/logout - revokes the presented token
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := BearerToken(r)
	if token == "" {
		http.Error(w, "Missing bearer token", http.StatusUnauthorized)
		return
	}

	session.Logout(r.Context(), token)
	SendSuccessResponse(w, "Logged out", nil, "User logged out")
}

// Me handles GET /api/auth/me - returns the account behind the token
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	token := BearerToken(r)
	if token == "" {
		http.Error(w, "Missing bearer token", http.StatusUnauthorized)
		return
	}

	userID, err := session.Validate(r.Context(), token)
	if err != nil {
		http.Error(w, "Invalid or expired session", http.StatusUnauthorized)
		return
	}

	user, err := h.Service.GetUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	response := UserResponse{
		Message: "User retrieved",
		Data:    user,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// CreateUser handles POST /api/users - makes a staff account
func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.Service.CreateUser(r.Context(), req.Name, req.Email, req.Role, req.Password)
	if err != nil {
		log.Printf("Error creating user: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	SendCreatedResponse(w, "User created", user, "User created: "+user.Email)
}

// ListUsers handles GET /api/users
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsers(r.Context())
	if err != nil {
		log.Printf("Error listing users: %v", err)
		http.Error(w, "Failed to list users", http.StatusInternalServerError)
		return
	}

	response := UserListResponse{
		Message: "Users retrieved successfully",
		Data:    users,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// BearerToken pulls the token out of the Authorization header, empty if absent
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
